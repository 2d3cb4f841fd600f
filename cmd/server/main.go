package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casamento/internal/apiclient"
	"casamento/internal/config"
	"casamento/internal/handlers"
	"casamento/internal/logging"
	"casamento/internal/rsvp"
	"casamento/internal/security"
)

const (
	stepTemplates = "Loading templates"
	stepSessions  = "Connecting session store"
	stepHandlers  = "Initializing handlers"
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

	startup := handlers.NewStartup(stepTemplates, stepSessions, stepHandlers)

	startup.SetCurrentStep(stepTemplates)
	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load templates")
	}
	startup.CompleteStep(stepTemplates)

	guestAPI := apiclient.New(cfg.APIBaseURL, nil, logger)

	startup.SetCurrentStep(stepSessions)
	store, memStore := sessionStore(ctx, cfg, logger)
	sessions := rsvp.NewSessions(store, guestAPI, logger, cfg.SessionDuration)
	startup.CompleteStep(stepSessions)

	startup.SetCurrentStep(stepHandlers)
	limiter := security.NewRateLimiter(10, time.Minute)
	mw := handlers.NewMiddleware(security.NewCSRFGenerator(cfg.CSRFSecret), limiter, cfg.SessionDuration, logger)

	site := handlers.NewSite(handlers.SiteConfig{
		WeddingDate:          cfg.WeddingDate,
		StaticPath:           cfg.StaticFilesPath,
		PIXKey:               cfg.PIXKey,
		PIXMerchantName:      cfg.PIXMerchantName,
		PIXMerchantCity:      cfg.PIXMerchantCity,
		PIXDiscountPercent:   cfg.PIXDiscountPercent,
		PIXPaymentWindow:     cfg.PIXPaymentWindow,
		MercadoPagoPublicKey: cfg.MercadoPagoPublicKey,
	}, tmpl, mw, guestAPI, sessions, startup, logger)
	startup.CompleteStep(stepHandlers)

	addr := ":" + cfg.ServerPort
	// No WriteTimeout: countdown streams stay open for as long as the page does
	server := &http.Server{
		Addr:        addr,
		Handler:     handlers.Logging(logger)(site.Routes()),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go limiter.RunCleanup(ctx, time.Hour)
	if memStore != nil {
		go cleanupExpiredSessions(ctx, memStore, logger)
	}

	go func() {
		logger.Info().Str("addr", addr).Str("api", cfg.APIBaseURL).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()
	startup.MarkReady()

	<-ctx.Done()
	logger.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// sessionStore picks Redis when configured and reachable, memory otherwise.
// The memory store is returned separately so it can be swept.
func sessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (rsvp.SessionStore, *rsvp.MemoryStore) {
	if cfg.RedisAddr != "" {
		redisStore := rsvp.NewRedisStore(rsvp.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := redisStore.Ping(pingCtx)
		if err == nil {
			logger.Info().Str("addr", cfg.RedisAddr).Msg("RSVP sessions stored in Redis")
			return redisStore, nil
		}
		logger.Warn().Err(err).Msg("Redis unavailable, keeping RSVP sessions in memory")
	}

	mem := rsvp.NewMemoryStore()
	return mem, mem
}

// cleanupExpiredSessions periodically removes expired RSVP sessions
func cleanupExpiredSessions(ctx context.Context, store *rsvp.MemoryStore, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := store.CleanupExpired()
			logger.Debug().Int("removed", removed).Int("remaining", store.Len()).Msg("Expired RSVP sessions cleaned up")
		}
	}
}
