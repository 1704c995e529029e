package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

type sessionRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewSessionRepository creates an in-process session store
func NewSessionRepository() *sessionRepository {
	return &sessionRepository{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (r *sessionRepository) Get(ctx context.Context, key string) (*domain.Session, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && r.now().After(e.expiresAt)) {
		return nil, &errors.ErrNotFound{Resource: "session", ID: key}
	}

	s := e.session
	s.Cart = append([]domain.CartItem(nil), e.session.Cart...)
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, key string, session *domain.Session, ttl time.Duration) error {
	e := entry{session: *session}
	e.session.Cart = append([]domain.CartItem(nil), session.Cart...)
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}

	r.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}

// DeleteExpired drops expired entries and returns how many were removed
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := r.now()
	var removed int64

	r.mu.Lock()
	for k, e := range r.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(r.entries, k)
			removed++
		}
	}
	r.mu.Unlock()
	return removed, nil
}
