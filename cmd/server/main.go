// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/tomtom215/foodgram/docs" // Import generated swagger docs
	"github.com/tomtom215/foodgram/internal/api"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
	"github.com/tomtom215/foodgram/internal/supervisor"
	"github.com/tomtom215/foodgram/internal/supervisor/services"
	"github.com/tomtom215/foodgram/internal/validation"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real environment variables still win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

// run wires every component and blocks until the supervisor tree stops.
//
//nolint:gocyclo // Sequential setup steps
func run(cfg *config.Config) error {

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	metrics.SetAppInfo(version)
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("events_transport", cfg.Events.Transport).
		Msg("Starting Foodgram")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to the frontend origin")
	}

	validation.SetBounds(cfg.Recipes)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditLog, err := initAudit(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	if err := seedDatabase(ctx, db, cfg, auditLog); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT manager: %w", err)
	}

	revocations, err := auth.OpenRevocationStore(cfg.Security.RevocationPath)
	if err != nil {
		return fmt.Errorf("failed to open token revocation store: %w", err)
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()
	if cfg.Security.RevocationPath == "" {
		logging.Warn().Msg("Token revocations are kept in memory and lost on restart (REVOCATION_PATH not set)")
	}

	throttle := auth.NewLoginThrottle(cfg.Security.LoginAttempts, cfg.Security.LoginWindow)

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{PolicyPath: cfg.Security.PolicyPath})
	if err != nil {
		return fmt.Errorf("failed to initialize authorization policy: %w", err)
	}

	// Bridges zerolog to slog for sutureslog.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	eventComponents, err := initEvents(cfg, tree, slogLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	defer eventComponents.Close()

	cache, err := shoppinglist.NewCache(cfg.ShoppingList.CacheSize, cfg.ShoppingList.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create shopping list cache: %w", err)
	}
	cache.Register(eventComponents.Router)

	handler := api.NewHandler(api.Dependencies{
		DB:           db,
		Config:       cfg,
		JWT:          jwtManager,
		Revocations:  revocations,
		Throttle:     throttle,
		ShoppingList: shoppinglist.NewService(db, cfg.ShoppingList.MaxLineTotal, cache),
		Events:       eventComponents.Publisher,
		Audit:        auditLog,
	})

	router := api.NewRouter(handler,
		api.NewChiMiddlewareFromConfig(cfg.Security),
		auth.NewMiddleware(jwtManager, revocations, api.WriteError),
		enforcer,
		cfg.Security.TrustedProxies,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(revocations)
	tree.AddDataService(throttle)
	if auditLog != nil {
		tree.AddDataService(auditLog)
	}

	tree.AddMessagingService(eventComponents.Router)

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)
	tree.AddAPIService(services.NewReloadService("policy-reload", enforcer, hupCh))

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
