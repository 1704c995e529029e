package checkout

import (
	"context"
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// AddToCart puts a variety in the server-side cart
func (s *Service) AddToCart(ctx context.Context, sessionID string, varietyID int64, quantity int) error {
	if quantity < cart.MinQuantity || quantity > cart.MaxQuantity {
		return errors.New(errors.CodeQuantityInvalid, 0, nil)
	}

	token, err := s.token(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.backend.AddToCart(ctx, token, varietyID, quantity); err != nil {
		return s.sessions.ClearTokenOnUnauthorized(ctx, sessionID, err)
	}
	return nil
}

// CompleteRequest is an order submission with every option already chosen
type CompleteRequest struct {
	AddressID       int64
	SendMethodID    int64
	PayMethodID     int64
	ReceiveDate     string
	Description     string
	CreditDeduction bool
}

// CompleteCheckout submits the order with this app's success route as the
// gateway callback, and returns the backend's answer without interpreting it.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string, req CompleteRequest) (*domain.CheckoutResult, error) {
	if req.SendMethodID == 0 {
		return nil, errors.New(errors.CodeNoSendMethod, 0, nil)
	}
	if req.PayMethodID == 0 {
		return nil, errors.New(errors.CodeNoPayMethod, 0, nil)
	}

	token, err := s.token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.backend.CompleteCheckout(ctx, token, domain.CheckoutRequest{
		AddressID:       req.AddressID,
		SendMethodID:    req.SendMethodID,
		PayMethodID:     req.PayMethodID,
		ReceiveDate:     req.ReceiveDate,
		Description:     req.Description,
		CreditDeduction: req.CreditDeduction,
		CallbackURL:     s.cfg.CallbackURL(domain.SuccessRoute),
	})
	if err != nil {
		return nil, s.sessions.ClearTokenOnUnauthorized(ctx, sessionID, err)
	}
	return result, nil
}

// AddItem adds a line to the local cart only once the server cart has
// accepted it. The addition is reserved first and rolled back if the backend
// refuses. Each call settles only its own reservation.
func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartItem) (cart.Summary, error) {
	varietyID, err := strconv.ParseInt(item.ID, 10, 64)
	if err != nil {
		return cart.Summary{}, errors.New(errors.CodeVarietyInvalid, 0, err)
	}
	if item.Quantity < cart.MinQuantity {
		item.Quantity = cart.MinQuantity
	}

	reservationID, _, err := s.carts.Reserve(ctx, sessionID, item)
	if err != nil {
		return cart.Summary{}, s.stepFailed(domain.StepLocalAdd, err)
	}

	if err := s.AddToCart(ctx, sessionID, varietyID, item.Quantity); err != nil {
		if _, rbErr := s.carts.Rollback(ctx, sessionID, item.ID, reservationID); rbErr != nil {
			s.logger.Error("Failed to roll back cart line",
				zap.String("variety_id", item.ID),
				zap.Error(rbErr),
			)
		}
		return cart.Summary{}, s.stepFailed(domain.StepRemoteAdd, err)
	}

	summary, err := s.carts.Commit(ctx, sessionID, item.ID, reservationID)
	if err != nil {
		var notFound *errors.ErrNotFound
		if !stderrors.As(err, &notFound) {
			return cart.Summary{}, s.stepFailed(domain.StepLocalAdd, err)
		}
		// the line was removed locally while the add was in flight
		s.logger.Warn("Reserved cart line gone before commit",
			zap.String("variety_id", item.ID),
		)
		c, loadErr := s.carts.Load(ctx, sessionID)
		if loadErr != nil {
			return cart.Summary{}, s.stepFailed(domain.StepLocalAdd, loadErr)
		}
		return c.Summary(), nil
	}
	return summary, nil
}

// QuickBuyRequest is the single "buy" press on a product page
type QuickBuyRequest struct {
	Item        domain.CartItem
	Description string
}

// QuickBuyResult is what the product page shows after a quick buy
type QuickBuyResult struct {
	Result     *domain.CheckoutResult `json:"result"`
	SendMethod domain.SendMethod      `json:"send_method"`
	PayMethod  domain.PayMethod       `json:"pay_method"`
	Cart       cart.Summary           `json:"cart"`
}

// QuickBuy runs the whole sequence from a product page: require a cached
// address, add the item (local and server), fetch checkout options, take the
// default send/pay method and first open date, then submit the order. There
// is no navigation afterwards. Any failed step stops the sequence; a server
// cart addition that already succeeded is kept.
func (s *Service) QuickBuy(ctx context.Context, sessionID string, req QuickBuyRequest) (*QuickBuyResult, error) {
	addressID, err := s.sessions.AddressID(ctx, sessionID)
	if err != nil {
		return nil, s.stepFailed(domain.StepRequireAddress, err)
	}
	if addressID == 0 {
		return nil, s.stepFailed(domain.StepRequireAddress, errors.New(errors.CodeNoAddressSelected, 0, nil))
	}

	summary, err := s.AddItem(ctx, sessionID, req.Item)
	if err != nil {
		return nil, err
	}

	info, err := s.GetCheckoutInfo(ctx, sessionID, addressID)
	if err != nil {
		return nil, s.stepFailed(domain.StepFetchInfo, err)
	}

	sendMethod, err := SelectSendMethod(info, 0, s.cfg.PreferredSendMethodID)
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}
	payMethod, err := SelectPayMethod(info, 0, "")
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}
	receiveDate, err := SelectReceiveDate(sendMethod, "", s.cfg.FallbackReceiveDate)
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}

	result, err := s.CompleteCheckout(ctx, sessionID, CompleteRequest{
		AddressID:    addressID,
		SendMethodID: sendMethod.ID,
		PayMethodID:  payMethod.ID,
		ReceiveDate:  receiveDate,
		Description:  req.Description,
	})
	if err != nil {
		return nil, s.stepFailed(domain.StepSubmit, err)
	}

	if err := s.sessions.SetOrder(ctx, sessionID, result.OrderID, payMethod.Type); err != nil {
		s.logger.Warn("Failed to record order", zap.Error(err))
	}

	s.logger.Info("Quick buy submitted",
		zap.String("variety_id", req.Item.ID),
		zap.Int64("order_id", result.OrderID),
		zap.Int64("send_method_id", sendMethod.ID),
	)

	return &QuickBuyResult{
		Result:     result,
		SendMethod: sendMethod,
		PayMethod:  payMethod,
		Cart:       summary,
	}, nil
}

// CartCheckoutRequest is the cart page's checkout form. Zero values mean
// "use the default".
type CartCheckoutRequest struct {
	AddressID       int64              `json:"address_id"`
	PaymentType     domain.PaymentType `json:"payment_type" binding:"required"`
	PayMethodID     int64              `json:"pay_method_id"`
	SendMethodID    int64              `json:"send_method_id"`
	ReceiveDate     string             `json:"receive_date"`
	Description     string             `json:"description"`
	CreditDeduction bool               `json:"credit_deduction"`
}

// CartCheckoutResult tells the cart page where to go next
type CartCheckoutResult struct {
	Result  *domain.CheckoutResult `json:"result"`
	Outcome domain.CheckoutOutcome `json:"outcome"`
}

// Checkout submits the cart page's order and resolves the payment outcome.
// The local cart is emptied once the customer is sent to the success route.
func (s *Service) Checkout(ctx context.Context, sessionID string, req CartCheckoutRequest) (*CartCheckoutResult, error) {
	if !req.PaymentType.IsValid() {
		return nil, s.stepFailed(domain.StepSelectOptions, errors.New(errors.CodeNoPayMethod, 0, nil))
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.TotalItems() == 0 {
		return nil, errors.New(errors.CodeCartEmpty, 0, nil)
	}

	addressID := req.AddressID
	if addressID == 0 {
		if addressID, err = s.sessions.AddressID(ctx, sessionID); err != nil {
			return nil, s.stepFailed(domain.StepRequireAddress, err)
		}
	}

	info, err := s.GetCheckoutInfo(ctx, sessionID, addressID)
	if err != nil {
		return nil, s.stepFailed(domain.StepFetchInfo, err)
	}

	sendMethod, err := SelectSendMethod(info, req.SendMethodID, s.cfg.PreferredSendMethodID)
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}
	payMethod, err := SelectPayMethod(info, req.PayMethodID, req.PaymentType)
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}
	receiveDate, err := SelectReceiveDate(sendMethod, req.ReceiveDate, s.cfg.FallbackReceiveDate)
	if err != nil {
		return nil, s.stepFailed(domain.StepSelectOptions, err)
	}

	result, err := s.CompleteCheckout(ctx, sessionID, CompleteRequest{
		AddressID:       addressID,
		SendMethodID:    sendMethod.ID,
		PayMethodID:     payMethod.ID,
		ReceiveDate:     receiveDate,
		Description:     req.Description,
		CreditDeduction: req.CreditDeduction,
	})
	if err != nil {
		return nil, s.stepFailed(domain.StepSubmit, err)
	}

	if err := s.sessions.SetOrder(ctx, sessionID, result.OrderID, req.PaymentType); err != nil {
		s.logger.Warn("Failed to record order", zap.Error(err))
	}

	outcome, err := ResolveOutcome(result, req.PaymentType)
	if err != nil {
		return nil, s.stepFailed(domain.StepOutcome, err)
	}

	if outcome.Kind == domain.OutcomeNavigate {
		if _, err := s.carts.Clear(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to clear cart", zap.Error(err))
		}
	}

	s.logger.Info("Checkout submitted",
		zap.Int64("order_id", result.OrderID),
		zap.String("payment_type", string(req.PaymentType)),
		zap.String("outcome", string(outcome.Kind)),
	)

	return &CartCheckoutResult{Result: result, Outcome: outcome}, nil
}
