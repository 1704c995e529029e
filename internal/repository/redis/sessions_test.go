package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionRepository(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewSessionRepository(client, zaptest.NewLogger(t))
	ctx := context.Background()

	session := &domain.Session{
		Token:     "tok",
		AddressID: 12,
		Cart:      []domain.CartItem{{ID: "40", Price: 450000, Quantity: 2}},
	}
	require.NoError(t, repo.Save(ctx, "abc", session, time.Hour))
	assert.True(t, mr.Exists(keyPrefix+"abc"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"abc"))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, int64(12), got.AddressID)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, int64(900000), got.Cart[0].LineTotal())

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	var notFound *errors.ErrNotFound
	assert.True(t, stderrors.As(err, &notFound))
}

func TestSessionRepositoryExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewSessionRepository(client, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "abc", &domain.Session{Token: "tok"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "abc")
	assert.Error(t, err)
}
