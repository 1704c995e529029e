package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/internal/storefront"
)

const sweepInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session storage
	sessionRepo, closeRepo, err := session.OpenRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.String("driver", cfg.Session.Driver), zap.Error(err))
	}
	defer closeRepo()
	repos := &repository.Repositories{Session: sessionRepo}

	if sweeper, ok := repos.Session.(repository.ExpirySweeper); ok {
		go sweepSessions(ctx, sweeper, logger)
	}

	// Services
	sessions := session.NewManager(repos.Session, cfg.Session.TTL, cfg.Session.KeySalt, logger)
	client := storefront.NewClient(cfg.Backend, logger)
	addresses := address.NewResolver(client, sessions, logger)

	svc := &handlers.Services{
		Sessions:  sessions,
		Backend:   client,
		Carts:     cart.NewStore(sessions),
		Addresses: addresses,
		Checkout:  checkout.NewService(client, sessions, cfg.Checkout, logger),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(cfg, svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("session_driver", cfg.Session.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zcfg.Level = level

	return zcfg.Build()
}

// sweepSessions periodically drops expired sessions
func sweepSessions(ctx context.Context, sweeper repository.ExpirySweeper, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Failed to sweep expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Debug("Swept expired sessions", zap.Int64("removed", removed))
			}
		}
	}
}
