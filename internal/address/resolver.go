package address

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Backend creates addresses on the storefront backend
type Backend interface {
	CreateAddress(ctx context.Context, token string, addr domain.Address) (int64, error)
}

// CreatedFunc is called after a new address id has been cached
type CreatedFunc func(ctx context.Context, sessionID string, addressID int64)

// Resolver submits the address form and caches the returned id in the session
type Resolver struct {
	backend   Backend
	sessions  *session.Manager
	onCreated CreatedFunc
	logger    *zap.Logger

	mu     sync.Mutex
	states map[string]domain.AddressFormState
}

// NewResolver creates an address resolver
func NewResolver(backend Backend, sessions *session.Manager, logger *zap.Logger) *Resolver {
	return &Resolver{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
		states:   make(map[string]domain.AddressFormState),
	}
}

// OnCreated registers the completion callback
func (r *Resolver) OnCreated(fn CreatedFunc) {
	r.onCreated = fn
}

// State returns the form state of a session
func (r *Resolver) State(sessionID string) domain.AddressFormState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[sessionID]; ok {
		return s
	}
	return domain.AddressFormIdle
}

func (r *Resolver) transition(sessionID string, next domain.AddressFormState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.states[sessionID]
	if !ok {
		current = domain.AddressFormIdle
	}
	if !current.CanTransitionTo(next) {
		return &errors.ErrInvalidStateTransition{From: current, To: next}
	}

	if next == domain.AddressFormIdle {
		delete(r.states, sessionID)
		return nil
	}
	r.states[sessionID] = next
	return nil
}

// fail moves a submitting form through error back to idle
func (r *Resolver) fail(sessionID string) {
	if err := r.transition(sessionID, domain.AddressFormError); err != nil {
		r.logger.Warn("Address form transition", zap.Error(err))
	}
	if err := r.transition(sessionID, domain.AddressFormIdle); err != nil {
		r.logger.Warn("Address form transition", zap.Error(err))
	}
}

// Submit validates and creates the address, caches its id in the session,
// runs the completion callback and closes the form. The form is left idle on
// any failure so it can be resubmitted.
func (r *Resolver) Submit(ctx context.Context, sessionID string, addr domain.Address) (int64, error) {
	if err := ValidateForm(addr); err != nil {
		return 0, err
	}
	if addr.AddressType == "" {
		addr.AddressType = domain.AddressTypeHome
	}

	if err := r.transition(sessionID, domain.AddressFormSubmitting); err != nil {
		return 0, err
	}

	token, err := r.sessions.Token(ctx, sessionID)
	if err != nil {
		r.fail(sessionID)
		return 0, err
	}

	addressID, err := r.backend.CreateAddress(ctx, token, addr)
	if err != nil {
		r.fail(sessionID)
		r.logger.Info("Address rejected", zap.Error(err))
		return 0, r.sessions.ClearTokenOnUnauthorized(ctx, sessionID, err)
	}

	if err := r.sessions.SetAddressID(ctx, sessionID, addressID); err != nil {
		r.fail(sessionID)
		return 0, fmt.Errorf("failed to cache address id: %w", err)
	}

	if err := r.transition(sessionID, domain.AddressFormSuccess); err != nil {
		return 0, err
	}
	if r.onCreated != nil {
		r.onCreated(ctx, sessionID, addressID)
	}

	// closed, then reset for the next time the form is opened
	if err := r.transition(sessionID, domain.AddressFormClosed); err != nil {
		return 0, err
	}
	if err := r.transition(sessionID, domain.AddressFormIdle); err != nil {
		return 0, err
	}

	r.logger.Info("Address created", zap.Int64("address_id", addressID))
	return addressID, nil
}

// Forget clears the cached address id so the next checkout asks for one
func (r *Resolver) Forget(ctx context.Context, sessionID string) error {
	return r.sessions.ClearAddressID(ctx, sessionID)
}
