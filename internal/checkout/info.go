package checkout

import (
	"context"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// isAddressError reports whether err points at a stale or bad address id
func isAddressError(err error) bool {
	var derr *errors.DomainError
	if !stderrors.As(err, &derr) {
		return false
	}
	return errors.IsAddressCode(derr.Code) ||
		derr.Status == http.StatusNotFound ||
		derr.Status == http.StatusUnprocessableEntity
}

// GetCheckoutInfo fetches shipping and payment options. addressID 0 means
// use the session's cached address. A rejected cached address is forgotten
// so the customer is asked to pick one again; a rejected token is dropped.
func (s *Service) GetCheckoutInfo(ctx context.Context, sessionID string, addressID int64) (*domain.CheckoutInfo, error) {
	cached, err := s.sessions.AddressID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if addressID == 0 {
		addressID = cached
	}
	if addressID == 0 {
		return nil, errors.New(errors.CodeNoAddressSelected, 0, nil)
	}

	token, err := s.token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	info, err := s.backend.CheckoutInfo(ctx, token, addressID)
	if err != nil {
		err = s.sessions.ClearTokenOnUnauthorized(ctx, sessionID, err)
		if isAddressError(err) && addressID == cached {
			s.logger.Info("Forgetting rejected address",
				zap.Int64("address_id", addressID),
				zap.Error(err),
			)
			if clearErr := s.sessions.ClearAddressID(ctx, sessionID); clearErr != nil {
				s.logger.Warn("Failed to clear address id", zap.Error(clearErr))
			}
		}
		return nil, err
	}

	return info, nil
}
