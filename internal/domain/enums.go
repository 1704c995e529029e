package domain

// PaymentType is how the customer pays
type PaymentType string

const (
	PaymentTypeOnline PaymentType = "online"
	PaymentTypeCash   PaymentType = "cash"
)

// IsValid checks if the payment type is known
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeOnline || p == PaymentTypeCash
}

// AddressType labels an address
type AddressType string

const (
	AddressTypeHome AddressType = "home"
	AddressTypeWork AddressType = "work"
)

// CartItemStatus tracks whether the backend has acknowledged a cart line
type CartItemStatus string

const (
	CartItemPending   CartItemStatus = "pending"
	CartItemCommitted CartItemStatus = "committed"
)

// OutcomeKind is how the browser leaves the checkout page
type OutcomeKind string

const (
	// OutcomeRedirect is a full-page navigation to the payment gateway
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeNavigate is a client-side route change
	OutcomeNavigate OutcomeKind = "navigate"
)

// SuccessRoute is the client route shown after a completed order
const SuccessRoute = "/checkout/success"

// AddressFormState is the state of the address form
type AddressFormState string

const (
	AddressFormIdle       AddressFormState = "idle"
	AddressFormSubmitting AddressFormState = "submitting"
	AddressFormSuccess    AddressFormState = "success"
	AddressFormError      AddressFormState = "error"
	AddressFormClosed     AddressFormState = "closed"
)

func (s AddressFormState) String() string {
	return string(s)
}

// CanTransitionTo checks if a form state transition is valid
func (s AddressFormState) CanTransitionTo(next AddressFormState) bool {
	switch s {
	case AddressFormIdle:
		return next == AddressFormSubmitting || next == AddressFormClosed
	case AddressFormSubmitting:
		return next == AddressFormSuccess || next == AddressFormError
	case AddressFormSuccess:
		return next == AddressFormClosed
	case AddressFormError:
		return next == AddressFormIdle
	case AddressFormClosed:
		return next == AddressFormIdle
	default:
		return false
	}
}

// CheckoutStep names a stage of the checkout sequence
type CheckoutStep string

const (
	StepRequireAddress CheckoutStep = "require_address"
	StepLocalAdd       CheckoutStep = "local_add"
	StepRemoteAdd      CheckoutStep = "remote_add"
	StepFetchInfo      CheckoutStep = "fetch_info"
	StepSelectOptions  CheckoutStep = "select_options"
	StepSubmit         CheckoutStep = "submit"
	StepOutcome        CheckoutStep = "outcome"
)
