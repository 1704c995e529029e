package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

const keyPrefix = "storefront:sessions:"

type sessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient connects to redis using the session DB
func NewClient(ctx context.Context, cfg config.SessionConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DB = cfg.RedisDB

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewSessionRepository creates a redis-backed session store
func NewSessionRepository(client *redis.Client, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		client: client,
		logger: logger,
	}
}

func (r *sessionRepository) Get(ctx context.Context, key string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, &errors.ErrNotFound{Resource: "session", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.Error(err))
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, key string, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", zap.Error(err))
		return err
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		r.logger.Error("Failed to delete session", zap.Error(err))
		return err
	}
	return nil
}
