package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/s1natex/task-tracker/internal/config"
	"github.com/s1natex/task-tracker/internal/middleware"
	"github.com/s1natex/task-tracker/internal/tasks"
	"github.com/s1natex/task-tracker/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.TraceExporter, cfg.ServiceName)
	if err != nil {
		logger.Error("tracing_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store_error",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("store_ready", slog.String("driver", cfg.StoreDriver))

	svc := tasks.NewService(store, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(svc, logger, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server_listen", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": shutdownSequence(logger, srv.Shutdown, closeStore, shutdownTracing),
		},
	)

	exitCode := <-wait
	logger.Info("server_exit", slog.Int("code", exitCode))
	os.Exit(exitCode)
}

// shutdownSequence drains in-flight requests, then releases the store, then
// flushes spans, so spans of draining requests are still exported.
func shutdownSequence(
	logger *slog.Logger,
	stopServer func(context.Context) error,
	closeStore func() error,
	flushTracing telemetry.ShutdownFunc,
) gfshutdown.Operation {
	return func(ctx context.Context) error {
		logger.Info("server_shutdown")
		serverErr := stopServer(ctx)
		storeErr := closeStore()
		traceErr := flushTracing(ctx)
		return errors.Join(serverErr, storeErr, traceErr)
	}
}

// openStore returns the configured Task Store and the function that releases it.
func openStore(ctx context.Context, cfg config.Config) (tasks.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		dsn, err := tasks.SQLiteFileDSN(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := tasks.NewSQLiteRepo(dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.ApplyMigrations(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return repo, repo.Close, nil

	case config.DriverPostgres:
		repo, err := tasks.NewPostgresRepo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.ApplyMigrations(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return repo, repo.Close, nil

	default:
		return tasks.NewInMemoryRepo(), func() error { return nil }, nil
	}
}

// newRouter wires the health and metrics endpoints, task routes, and middleware stack
func newRouter(svc *tasks.Service, logger *slog.Logger, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, errors, etc.)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	// Timeouts: cancel handlers that exceed this duration
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogger(logger))

	// ---- Routes ----

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	tasks.RegisterRoutes(r, svc)

	return r
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: l,
	})
	return slog.New(handler)
}
