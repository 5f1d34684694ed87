package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"advisor/internal/cache"
	"advisor/internal/cli"
	apphttp "advisor/internal/http"
	"advisor/internal/insight"
	applog "advisor/internal/log"
	"advisor/internal/middleware/ratelimit"
	"advisor/internal/session"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	sessionLogger := logger.WithComponent(applog.ComponentSession)
	var store session.Store
	switch cfg.SessionBackend {
	case "sqlite":
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Error("Failed to close SQLite repository", applog.FieldError, err)
			}
		}()
		store = session.NewSQLiteStore(repo, cfg.SessionTTL, sessionLogger.Logger)
	default:
		store = session.NewMemoryStore(cfg.SessionMax, cfg.SessionTTL, sessionLogger.Logger)
	}
	logger.Info("Initialized session store",
		applog.FieldBackend, cfg.SessionBackend,
		"ttl", cfg.SessionTTL.String(),
		"max_sessions", cfg.SessionMax)

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute})

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		Store:        store,
		Engine:       insight.DefaultEngine(),
		Logger:       logger,
		Limiter:      limiter,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	janitor := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)
	janitor.Register(store)
	janitor.Register(limiter)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, shutdownTimeout)
	})
	g.Go(func() error {
		return janitor.Run(gctx, cfg.SessionCleanupInterval)
	})

	logger.Info("Starting advisor server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.SessionBackend,
		applog.FieldOperation, applog.OpStartup)
	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		cancel()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
