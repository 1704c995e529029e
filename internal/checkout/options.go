package checkout

import (
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// SelectSendMethod applies the same shipping policy on every checkout path:
// the method the customer asked for, else the shop's preferred method when
// offered, else the first offered one. A requested id that is not offered is
// an error.
func SelectSendMethod(info *domain.CheckoutInfo, requestedID, preferredID int64) (domain.SendMethod, error) {
	if len(info.SendMethods) == 0 {
		return domain.SendMethod{}, errors.New(errors.CodeNoSendMethod, 0, nil)
	}

	if requestedID != 0 {
		for _, m := range info.SendMethods {
			if m.ID == requestedID {
				return m, nil
			}
		}
		return domain.SendMethod{}, errors.New(errors.CodeNoSendMethod, 0, nil)
	}

	if preferredID != 0 {
		for _, m := range info.SendMethods {
			if m.ID == preferredID {
				return m, nil
			}
		}
	}
	return info.SendMethods[0], nil
}

// SelectPayMethod picks the requested method, else the first of the wanted
// type, else the first offered one when no type is wanted.
func SelectPayMethod(info *domain.CheckoutInfo, requestedID int64, paymentType domain.PaymentType) (domain.PayMethod, error) {
	for _, m := range info.PayMethods {
		if requestedID != 0 && m.ID == requestedID {
			return m, nil
		}
		if requestedID == 0 && (paymentType == "" || m.Type == paymentType) {
			return m, nil
		}
	}
	return domain.PayMethod{}, errors.New(errors.CodeNoPayMethod, 0, nil)
}

// SelectReceiveDate returns requested when set, else the method's first open
// slot, else fallback.
func SelectReceiveDate(method domain.SendMethod, requested, fallback string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if date, ok := method.FirstAvailableDate(); ok {
		return date, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", errors.New(errors.CodeNoReceiveDate, 0, nil)
}

// ResolveOutcome decides where the browser goes after a submitted order:
// online payments with a gateway URL redirect there, everything else that
// succeeded lands on the success route.
func ResolveOutcome(result *domain.CheckoutResult, paymentType domain.PaymentType) (domain.CheckoutOutcome, error) {
	if paymentType == domain.PaymentTypeOnline {
		if result.RedirectURL == "" {
			return domain.CheckoutOutcome{}, errors.New(errors.CodeGatewayMissing, 0, nil)
		}
		return domain.CheckoutOutcome{Kind: domain.OutcomeRedirect, URL: result.RedirectURL}, nil
	}

	if !result.Success {
		msg, _ := result.Raw["message"].(string)
		return domain.CheckoutOutcome{}, errors.WithMessage(errors.CodeOrderFailed, 0, msg)
	}
	return domain.CheckoutOutcome{Kind: domain.OutcomeNavigate, URL: domain.SuccessRoute}, nil
}
