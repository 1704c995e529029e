package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionRepository creates a postgres-backed session store
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *sessionRepository) Get(ctx context.Context, key string) (*domain.Session, error) {
	query := `
		SELECT data
		FROM storefront_sessions
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, key, r.now()).Scan(&data)
	if err == sql.ErrNoRows {
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
	query := `
		INSERT INTO storefront_sessions (key, data, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
	`

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	now := r.now()
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, query, key, data, expiresAt, now, now)
	if err != nil {
		r.logger.Error("Failed to save session", zap.Error(err))
		return err
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM storefront_sessions WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		r.logger.Error("Failed to delete session", zap.Error(err))
		return err
	}
	return nil
}

// DeleteExpired removes sessions past their expiry
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM storefront_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`

	res, err := r.db.ExecContext(ctx, query, r.now())
	if err != nil {
		r.logger.Error("Failed to delete expired sessions", zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}
