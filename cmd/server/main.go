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
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/ledwall/internal/config"
	"github.com/Simplici0/ledwall/internal/logging"
	"github.com/Simplici0/ledwall/internal/session"
)

const sessionSweepInterval = time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledwall: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	est, err := cfg.NewEstimator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var store session.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:           cfg.Redis.Addr,
			Password:       cfg.Redis.Password,
			DB:             cfg.Redis.DB,
			TTL:            cfg.Session.TTL,
			MaxConnectWait: cfg.Redis.ConnectTimeout,
		}, logger)
		if err != nil {
			return err
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	} else {
		memoryStore := session.NewMemoryStore(cfg.Session.TTL)
		g.Go(func() error {
			sweepSessions(gctx, memoryStore, logger)
			return nil
		})
		store = memoryStore
	}

	cookies, err := newCookieSigner(cfg.Session.Secret, cfg.Session.SecureCookie, cfg.Session.TTL)
	if err != nil {
		return err
	}

	defaults := session.Data{
		Request:    cfg.Defaults.Request(),
		ExtrasText: cfg.Defaults.ExtrasText(),
	}
	srv := newServer(logger, est, store, cookies, defaults)

	httpServer := &http.Server{
		Addr:         cfg.Address,
		Handler:      srv.routes(cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g.Go(func() error {
		logger.Info("listening",
			zap.String("address", cfg.Address),
			zap.String("env", cfg.Env),
			zap.String("policy", string(est.Variant())))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func sweepSessions(ctx context.Context, store *session.MemoryStore, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
