package repository

import (
	"context"
	"time"

	"github.com/jafarshop/storefront/internal/domain"
)

// SessionRepository stores sessions under an opaque key. Get returns
// *errors.ErrNotFound for a missing or expired key.
type SessionRepository interface {
	Get(ctx context.Context, key string) (*domain.Session, error)
	Save(ctx context.Context, key string, session *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ExpirySweeper is implemented by backends that do not expire keys on their own
type ExpirySweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Repositories groups the storage backends
type Repositories struct {
	Session SessionRepository
}
