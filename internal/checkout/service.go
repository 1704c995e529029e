package checkout

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Backend is the part of the storefront API checkout depends on
type Backend interface {
	CheckoutInfo(ctx context.Context, token string, addressID int64) (*domain.CheckoutInfo, error)
	AddToCart(ctx context.Context, token string, varietyID int64, quantity int) error
	CompleteCheckout(ctx context.Context, token string, req domain.CheckoutRequest) (*domain.CheckoutResult, error)
}

type Service struct {
	backend  Backend
	sessions *session.Manager
	carts    *cart.Store
	cfg      config.CheckoutConfig
	logger   *zap.Logger
}

// NewService creates the checkout service
func NewService(backend Backend, sessions *session.Manager, cfg config.CheckoutConfig, logger *zap.Logger) *Service {
	return &Service{
		backend:  backend,
		sessions: sessions,
		carts:    cart.NewStore(sessions),
		cfg:      cfg,
		logger:   logger,
	}
}

// StepError records which stage of a checkout sequence failed. Its message is
// the underlying error's, so it can be shown to the customer as is.
type StepError struct {
	Step domain.CheckoutStep
	Err  error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func (s *Service) stepFailed(step domain.CheckoutStep, err error) error {
	s.logger.Info("Checkout step failed",
		zap.String("step", string(step)),
		zap.Error(err),
	)
	return &StepError{Step: step, Err: err}
}

// token returns the session's bearer token; a missing one asks for login
func (s *Service) token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.sessions.Token(ctx, sessionID)
	if err != nil {
		var unauthorized *errors.ErrUnauthorized
		if stderrors.As(err, &unauthorized) {
			return "", errors.New(errors.CodeUnauthorized, 0, err)
		}
		return "", err
	}
	return token, nil
}
