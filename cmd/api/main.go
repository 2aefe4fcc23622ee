// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/admin"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/auth"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/client"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/entry"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/health"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/middleware"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/project"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/server"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/storage"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if redis == nil {
		return err
	}
	if err != nil {
		logger.Warn("redis unreachable, rate limits are per process",
			"error", err,
		)
	} else {
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("upload storage ready", "backend", cfg.Storage.Backend)

	adminSvc := admin.NewService(admin.NewRepository(db.DB))

	clientRepo := client.NewRepository(db.DB)
	clientSvc := client.NewService(clientRepo, client.NewScanPinIndex(clientRepo), store)

	entryRepo := entry.NewRepository(db.DB)
	projectSvc := project.NewService(project.NewRepository(db.DB), clientSvc, entryRepo)
	entrySvc := entry.NewService(entryRepo, projectSvc, store, storage.NewPolicy(cfg.Upload))

	authSvc := auth.NewService(
		jwtManager,
		adminSvc,
		clientSvc,
		auth.LogNotifier{Logger: logger},
		cfg.Reset,
	)

	if cfg.Seed.AdminOnStart {
		seeded, created, seedErr := adminSvc.Seed(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if seedErr != nil {
			return seedErr
		}
		logger.Info("admin account seeded", "email", seeded.Email, "created", created)
	}

	deps := []health.Dependency{
		{Name: "database", Checker: db, Critical: true},
		{Name: "redis", Checker: redis},
	}
	if pinger, ok := store.(health.Checker); ok {
		deps = append(deps, health.Dependency{Name: "storage", Checker: pinger, Critical: true})
	}
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	if cfg.Storage.Backend == config.StorageDisk {
		server.MountFiles(router, cfg.Storage.PublicPrefix, filepath.Dir(cfg.Storage.Root))
	}
	server.MountFrontend(router, "/admin", cfg.Frontend.Dir, logger)

	apiLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
		),
	})
	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
		),
		KeyFunc: middleware.KeyByPrefixedIP("auth"),
	})

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin
	clientOnly := middleware.RequireClient

	srv.MountAPI(func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authLimiter.Handler)

		admin.NewHandler(admin.HandlerConfig{
			Service:    adminSvc,
			DBStats:    db.Stats,
			RedisStats: redis.PoolStats,
			DBPing:     db.Ping,
			RedisPing:  redis.Ping,
		}).RegisterRoutes(r, authenticator, adminOnly)

		client.NewHandler(clientSvc).RegisterRoutes(r, authenticator, adminOnly)
		project.NewHandler(projectSvc).RegisterRoutes(r, authenticator, adminOnly, clientOnly)
		entry.NewHandler(entrySvc, cfg.Upload).RegisterRoutes(r, authenticator, adminOnly)
	}, apiLimiter.Handler)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
