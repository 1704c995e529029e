package errors

import (
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a stored resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when a caller has no usable credentials
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// ErrInvalidStateTransition is returned when a state machine refuses a move
type ErrInvalidStateTransition struct {
	From fmt.Stringer
	To   fmt.Stringer
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// DomainError is a user-facing error carrying a stable code, the upstream
// HTTP status (0 when the error never reached the backend) and a localized
// message.
type DomainError struct {
	Code    Code
	Status  int
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError with the same code, so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// New builds a DomainError with the table message for code
func New(code Code, status int, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Status:  status,
		Message: Message(code, status),
		Cause:   cause,
	}
}

// WithMessage builds a DomainError whose message comes from the backend
func WithMessage(code Code, status int, message string) *DomainError {
	if message == "" {
		message = Message(code, status)
	}
	return &DomainError{Code: code, Status: status, Message: message}
}

func sentinel(code Code) *DomainError {
	return &DomainError{Code: code, Message: Message(code, 0)}
}

// Sentinels for errors.Is checks
var (
	ErrNoAddressSelected = sentinel(CodeNoAddressSelected)
	ErrAddressNotFound   = sentinel(CodeAddressNotFound)
	ErrAddressInvalid    = sentinel(CodeAddressInvalid)
	ErrReauthenticate    = sentinel(CodeUnauthorized)
	ErrVarietyInvalid    = sentinel(CodeVarietyInvalid)
	ErrQuantityInvalid   = sentinel(CodeQuantityInvalid)
	ErrPayloadInvalid    = sentinel(CodePayloadInvalid)
	ErrGatewayMissing    = sentinel(CodeGatewayMissing)
	ErrMalformedResponse = sentinel(CodeMalformedResponse)
	ErrNetwork           = sentinel(CodeNetwork)
	ErrValidation        = sentinel(CodeValidation)
	ErrOutOfStock        = sentinel(CodeOutOfStock)
	ErrNoMatchingVariety = sentinel(CodeNoMatchingVariety)
	ErrIncompleteChoice  = sentinel(CodeIncompleteChoice)
	ErrCartEmpty         = sentinel(CodeCartEmpty)
	ErrNoSendMethod      = sentinel(CodeNoSendMethod)
	ErrNoPayMethod       = sentinel(CodeNoPayMethod)
	ErrNoReceiveDate     = sentinel(CodeNoReceiveDate)
	ErrOrderFailed       = sentinel(CodeOrderFailed)
)

// StatusCode picks the HTTP status a handler should answer with
func StatusCode(err *DomainError) int {
	switch err.Code {
	case CodeValidation, CodeNoAddressSelected, CodeCartEmpty:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeAddressNotFound:
		return http.StatusNotFound
	case CodeAddressInvalid, CodeVarietyInvalid, CodeQuantityInvalid, CodePayloadInvalid,
		CodeOutOfStock, CodeNoMatchingVariety, CodeIncompleteChoice,
		CodeNoSendMethod, CodeNoPayMethod, CodeNoReceiveDate, CodeOrderFailed:
		return http.StatusUnprocessableEntity
	case CodeNetwork, CodeMalformedResponse, CodeGatewayMissing:
		return http.StatusBadGateway
	}
	if err.Status >= 400 && err.Status < 600 {
		return err.Status
	}
	return http.StatusInternalServerError
}
