package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/repository/memory"
	"github.com/jafarshop/storefront/internal/repository/postgres"
	redisrepo "github.com/jafarshop/storefront/internal/repository/redis"
)

// OpenRepository builds the session backend named by cfg.Session.Driver. The
// returned close function releases its connections.
func OpenRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SessionRepository, func() error, error) {
	switch cfg.Session.Driver {
	case "memory":
		return memory.NewSessionRepository(), func() error { return nil }, nil

	case "redis":
		client, err := redisrepo.NewClient(ctx, cfg.Session)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewSessionRepository(client, logger), client.Close, nil

	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewSessionRepository(db, logger), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
}
