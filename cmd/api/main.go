// Package main is the entrypoint for the inventory API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inventory/inventory-api/internal/config"
	"github.com/inventory/inventory-api/internal/handler"
	"github.com/inventory/inventory-api/internal/metrics"
	"github.com/inventory/inventory-api/internal/middleware"
	"github.com/inventory/inventory-api/internal/migrate"
	"github.com/inventory/inventory-api/internal/repository"
	"github.com/inventory/inventory-api/internal/server"
	"github.com/inventory/inventory-api/internal/service"
	"github.com/inventory/inventory-api/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("startup failed", "error", config.SanitizeError(err, cfg.DatabaseURL))
		os.Exit(1)
	}
}

// run resolves storage, migrates the schema and serves until shutdown.
// Every step must succeed before the next one starts.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	connString, err := cfg.ResolveConnection(logger)
	if err != nil {
		return err
	}

	// Open the pool lazily; the migrator owns the first round trip.
	repo, err := repository.Open(ctx, connString)
	if err != nil {
		source := config.SourceDefaultConnection
		if cfg.DatabaseURL != "" {
			source = config.SourceDatabaseURL
		}
		return &config.ConfigurationError{Source: source, Err: err}
	}
	defer repo.Close()

	all, err := migrate.Load(migrations.FS)
	if err != nil {
		return err
	}

	migrator := migrate.New(repo, all, logger)
	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, metricsRecorder)

	r := setupRouter(userService, metricsRecorder, cfg.IsProduction(), logger)

	srv := server.New(r, server.Config{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"migrations_applied", migrator.Applied(),
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	userService *service.UserService,
	snapshotter metrics.Snapshotter,
	production bool,
	logger *slog.Logger,
) *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(userService, logger)
	metricsHandler := handler.NewMetricsHandler(snapshotter)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.PermissiveCORSConfig()))
	r.Use(middleware.Security(middleware.SecurityConfig{Production: production}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.With(middleware.MaxBodySize(middleware.DefaultMaxBodySize)).Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.Get)
		})
	})

	r.Get("/metrics", metricsHandler.Metrics)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
