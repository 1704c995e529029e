package cart

import (
	"context"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/session"
)

// Store keeps a session's cart in the session store
type Store struct {
	sessions *session.Manager
}

// NewStore creates a session-backed cart store
func NewStore(sessions *session.Manager) *Store {
	return &Store{sessions: sessions}
}

// Load returns the session's cart
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return New(sess.Cart), nil
}

// Mutate applies fn to the session's cart and saves the result
func (s *Store) Mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (Summary, error) {
	var summary Summary
	err := s.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		c := New(sess.Cart)
		if err := fn(c); err != nil {
			return err
		}
		sess.Cart = c.Items()
		summary = c.Summary()
		return nil
	})
	return summary, err
}

// Add inserts a confirmed line
func (s *Store) Add(ctx context.Context, sessionID string, item domain.CartItem) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(item)
	})
}

// Reserve adds item pending backend confirmation and returns the
// reservation id
func (s *Store) Reserve(ctx context.Context, sessionID string, item domain.CartItem) (string, Summary, error) {
	var reservationID string
	summary, err := s.Mutate(ctx, sessionID, func(c *Cart) error {
		id, err := c.Reserve(item)
		reservationID = id
		return err
	})
	return reservationID, summary, err
}

// Commit confirms one reservation
func (s *Store) Commit(ctx context.Context, sessionID, id, reservationID string) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.Commit(id, reservationID)
	})
}

// Rollback undoes one reservation
func (s *Store) Rollback(ctx context.Context, sessionID, id, reservationID string) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.Rollback(id, reservationID)
	})
}

// UpdateQuantity sets a line's quantity
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, id string, quantity int) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		return c.UpdateQuantity(id, quantity)
	})
}

// Remove drops a line
func (s *Store) Remove(ctx context.Context, sessionID, id string) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(id)
		return nil
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context, sessionID string) (Summary, error) {
	return s.Mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
}
