// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kritika HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (.env honored in dev).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (confirmation codes).
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taibuivan/kritika/internal/api"
	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/catalog/title"
	"github.com/taibuivan/kritika/internal/platform/config"
	"github.com/taibuivan/kritika/internal/platform/constants"
	"github.com/taibuivan/kritika/internal/platform/mailer"
	"github.com/taibuivan/kritika/internal/platform/migration"
	pgstore "github.com/taibuivan/kritika/internal/platform/postgres"
	redisstore "github.com/taibuivan/kritika/internal/platform/redis"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/review"
	"github.com/taibuivan/kritika/internal/users/account"
	"github.com/taibuivan/kritika/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Kritika] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is a development convenience; its absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Mail ────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// Without an SMTP host, confirmation codes land in the log instead of a
	// mailbox. Acceptable for development only.
	var mail mailer.Mailer = mailer.NewLog(log)
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSender)
	} else if cfg.IsProduction() {
		log.Warn("smtp_not_configured",
			slog.String("effect", "confirmation codes are only written to the log"))
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	limits := validate.DefaultLimits()

	identityUsers := identity.NewPostgresUserRepository(pool)
	identityCodes := identity.NewRedisCodeRepository(rdb)
	identityService := identity.NewService(identityUsers, identityCodes, jwtSvc, mail, limits, log)
	identityHandler := identity.NewHandler(identityService)

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(accountRepository, limits, log)
	accountHandler := account.NewHandler(accountService)

	categoryRepository := category.NewPostgresRepository(pool)
	categoryService := category.NewService(categoryRepository, limits, log)
	categoryHandler := category.NewHandler(categoryService)

	genreRepository := genre.NewPostgresRepository(pool)
	genreService := genre.NewService(genreRepository, limits, log)
	genreHandler := genre.NewHandler(genreService)

	titleRepository := title.NewPostgresRepository(pool)
	titleService := title.NewService(titleRepository, categoryRepository, genreRepository, limits, log)
	titleHandler := title.NewHandler(titleService)

	reviewRepository := review.NewPostgresRepository(pool)
	reviewService := review.NewService(reviewRepository, limits, log)
	reviewHandler := review.NewHandler(reviewService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Identity:  identityHandler,
		Account:   accountHandler,
		Category:  categoryHandler,
		Genre:     genreHandler,
		Title:     titleHandler,
		Review:    reviewHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
