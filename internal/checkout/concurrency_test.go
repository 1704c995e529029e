package checkout

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// gatedBackend holds every AddToCart call until the test answers it
type gatedBackend struct {
	*fakeBackend
	calls chan chan error
}

func (g *gatedBackend) AddToCart(ctx context.Context, token string, varietyID int64, quantity int) error {
	reply := make(chan error)
	g.calls <- reply
	return <-reply
}

func TestConcurrentAddsOfSameVariety(t *testing.T) {
	refuse := errors.New(errors.CodeQuantityInvalid, 422, nil)

	tests := []struct {
		name      string
		firstErr  error
		secondErr error
		wantQty   int
	}{
		{"first refused then second accepted", refuse, nil, 2},
		{"first accepted then second refused", nil, refuse, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.CheckoutConfig{})
			gated := &gatedBackend{fakeBackend: f.backend, calls: make(chan chan error)}
			f.svc.backend = gated
			ctx := context.Background()

			add := func(qty int) (chan error, chan error) {
				item := shirt()
				item.Quantity = qty
				done := make(chan error, 1)
				go func() {
					_, err := f.svc.AddItem(ctx, f.sid, item)
					done <- err
				}()
				return <-gated.calls, done
			}

			// both additions are reserved and in flight before either settles
			reply1, done1 := add(1)
			reply2, done2 := add(2)

			reply1 <- tt.firstErr
			err1 := <-done1
			reply2 <- tt.secondErr
			err2 := <-done2

			assert.Equal(t, tt.firstErr != nil, err1 != nil)
			assert.Equal(t, tt.secondErr != nil, err2 != nil)
			if err1 != nil {
				assert.True(t, stderrors.Is(err1, errors.ErrQuantityInvalid))
			}
			if err2 != nil {
				assert.True(t, stderrors.Is(err2, errors.ErrQuantityInvalid))
			}

			item, ok := f.cart(t).Get("40")
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, item.Quantity)
			assert.Equal(t, domain.CartItemCommitted, item.Status)
			assert.Empty(t, item.Reservations)
		})
	}
}

func TestAddItemAfterLineRemovedKeepsServerAcceptance(t *testing.T) {
	f := newFixture(t, config.CheckoutConfig{})
	gated := &gatedBackend{fakeBackend: f.backend, calls: make(chan chan error)}
	f.svc.backend = gated
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.AddItem(ctx, f.sid, shirt())
		done <- err
	}()
	reply := <-gated.calls

	_, err := f.svc.carts.Remove(ctx, f.sid, "40")
	require.NoError(t, err)

	reply <- nil
	assert.NoError(t, <-done)
	assert.Empty(t, f.cart(t).Items())
}
