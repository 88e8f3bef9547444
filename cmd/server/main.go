// Package main is the entrypoint for the pickwire server: the job worker,
// the enqueue loop, and the inspection API in one process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/edgestake/pickwire/internal/api"
	"github.com/edgestake/pickwire/internal/api/handler"
	mw "github.com/edgestake/pickwire/internal/api/middleware"
	"github.com/edgestake/pickwire/internal/api/response"
	"github.com/edgestake/pickwire/internal/cache"
	"github.com/edgestake/pickwire/internal/config"
	"github.com/edgestake/pickwire/internal/enqueue"
	"github.com/edgestake/pickwire/internal/openai"
	"github.com/edgestake/pickwire/internal/scheduler"
	"github.com/edgestake/pickwire/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env, "provider", cfg.Scheduler.Provider,
		"leagues", cfg.Scheduler.Leagues)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and reasoning client
	pgStore := store.NewPostgresStore(pool)
	client := openai.NewHTTPClient(cfg.OpenAI.BaseURL, cfg.OpenAI.RequestTimeout)

	// 6. Start the job worker and the periodic enqueuer
	executor := scheduler.NewExecutor(pgStore, client, redisCache, slog.Default(), cfg.Scheduler.Provider)
	worker := scheduler.NewWorker(pgStore, executor, slog.Default())
	enqueuer := enqueue.New(pgStore, slog.Default(), cfg.Scheduler.Provider, cfg.Scheduler.Leagues)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		enqueuer.Run(ctx, cfg.Scheduler.EnqueueInterval)
	}()

	// 7. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler:     healthHandler(pgStore, redisCache),
		ListJobsHandler:   handler.NewListJobsHandler(pgStore),
		GetJobHandler:     handler.NewGetJobHandler(pgStore),
		JobStatusHandler:  handler.NewJobStatusHandler(pgStore, redisCache),
		RequeueJobHandler: handler.NewRequeueJobHandler(pgStore),
		QueueStatsHandler: handler.NewQueueStatsHandler(pgStore),

		ListPicksHandler: handler.NewListPicksHandler(pgStore),
		GetPickHandler:   handler.NewGetPickHandler(pgStore),
		GamePickHandler:  handler.NewGamePickHandler(pgStore, redisCache),

		GetSettingsHandler:    handler.NewGetSettingsHandler(pgStore),
		UpdateSettingsHandler: handler.NewUpdateSettingsHandler(pgStore),

		CreateKeyHandler: handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:  handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler: handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout; the worker finishes in-flight jobs
	// before the process exits.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	wg.Wait()
	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
