package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ai-mall/backend/internal/api"
	"github.com/ai-mall/backend/internal/auth"
	"github.com/ai-mall/backend/internal/config"
	"github.com/ai-mall/backend/internal/health"
	"github.com/ai-mall/backend/internal/mail"
	"github.com/ai-mall/backend/internal/platform/logger"
	"github.com/ai-mall/backend/internal/services"
	"github.com/ai-mall/backend/internal/store"
	"github.com/ai-mall/backend/internal/store/postgres"
	"github.com/ai-mall/backend/internal/store/sqlite"
)

func main() {
	// Optional driver override (postgres | sqlite)
	dbDriver := flag.String("db-driver", "", "Override AIMALL_DB_DRIVER (postgres, sqlite)")
	flag.Parse()

	log := logger.New("marketplace-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Marketplace service starting…")

	// -------- Storage layer -----------------
	ctx := context.Background()
	st, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store unavailable")
	}

	// -------- Health monitor ---------------
	storeHealth := store.NewStoreHealthChecker(st, log, 5*time.Second)
	go storeHealth.Start(ctx, 30*time.Second)
	svcHealth := health.NewServiceHealthChecker(log, storeHealth)
	go svcHealth.Start(ctx, 30*time.Second)

	// -------- Services ---------------------
	mailer := mail.New(cfg.MailRelayURL, cfg.MailFrom)
	fanout := services.NewFanout(st, cfg.BroadcastChunkSize, log)
	auditor := services.NewAuditor(st, log)

	deps := api.Deps{
		Accounts:      services.NewAccountService(st),
		Catalog:       services.NewCatalogService(st, log),
		Moderation:    services.NewModerationService(st, fanout, auditor, mailer, cfg.FrontendURL, log),
		Purchases:     services.NewPurchaseService(st, fanout, log),
		Vendors:       services.NewVendorService(st, fanout, mailer, cfg.AdminEmail, cfg.FrontendURL, log),
		Notifications: services.NewNotificationService(st),
		Auditor:       auditor,
		Authorizer:    auth.NewStoreAuthorizer(st),
		IsHealthy:     svcHealth.IsHealthy,
	}

	// -------- Router & Server --------------
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	default:
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	}
}
