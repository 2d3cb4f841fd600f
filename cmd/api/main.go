package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"casamento/internal/api"
	"casamento/internal/config"
	"casamento/internal/database"
	"casamento/internal/handlers"
	"casamento/internal/logging"
	"casamento/internal/repository"
	"casamento/internal/service"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel)
	if cfg.Debug {
		logger = logging.NewConsole(cfg.LogLevel)
	}
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg.DatabaseType, cfg.DatabaseDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	logger.Info().Str("type", cfg.DatabaseType).Msg("Database connection established")

	applied, err := db.RunMigrations()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Info().Strs("applied", applied).Msg("Migrations completed successfully")

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.SiteBaseURL, logging.Component(logger, "email"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize email service")
	}
	if !emailService.IsEnabled() {
		logger.Info().Msg("SES_FROM_EMAIL not set, RSVP confirmation emails disabled")
	}

	authService, err := service.NewAuthService(cfg.AdminPasswordHash, cfg.AdminJWTSecret, 12*time.Hour)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize admin auth")
	}

	guestService := service.NewGuestService(repository.NewGuestRepository(db), emailService, logging.Component(logger, "guests"))
	giftService := service.NewGiftService(repository.NewGiftRepository(db))
	purchaseService := service.NewPurchaseService(repository.NewPurchaseRepository(db), logging.Component(logger, "purchases"))
	backupService := service.NewBackupService(db, logging.Component(logger, "backup"))

	server := api.NewServer(guestService, giftService, purchaseService, authService, backupService, logger)

	addr := ":" + cfg.APIPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(logger)(server.Routes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("API starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("API failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("API shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
