// Command server runs the ops dashboard backend: the HTTP API bridging the
// dashboard and phone system to the record store, the SMS carrier, and the
// conversational voice runtime.
//
// Startup order: env → logging → config → local DB → upstream clients →
// shared caches/limiters → tracing → router → HTTP server with graceful
// shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/valchyai/ops-backend/internal/airtable"
	"github.com/valchyai/ops-backend/internal/cache"
	"github.com/valchyai/ops-backend/internal/config"
	httpapi "github.com/valchyai/ops-backend/internal/http"
	"github.com/valchyai/ops-backend/internal/http/middleware"
	"github.com/valchyai/ops-backend/internal/observability"
	"github.com/valchyai/ops-backend/internal/repo"
	"github.com/valchyai/ops-backend/internal/sysutil"
	"github.com/valchyai/ops-backend/internal/twilio"
	"github.com/valchyai/ops-backend/internal/voiceflow"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting ops backend")

	if !cfg.Auth.Configured() {
		log.Warn().Msg("auth secrets not configured; all gated routes will reject")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open local database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate local database")
	}

	store := airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID)
	sms := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber,
		twilio.WithPacer(cfg.CarrierRPS, cfg.CarrierBurst))
	voice := voiceflow.NewClient(cfg.Voiceflow.APIKey, cfg.Voiceflow.PhoneNumberID)

	// Background sweepers stop with this context on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	respCache := cache.New(cfg.CacheTTL)
	respCache.StartSweeper(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Window,
		cfg.RateLimit.LowLimit, cfg.RateLimit.MediumLimit, cfg.RateLimit.HighLimit)
	limiter.StartSweeper(ctx)

	repo.StartDeliverySweeper(ctx, db, time.Hour, log.Logger)

	shutdownOTel := func(context.Context) error { return nil }
	if cfg.OTEL.Enabled {
		shutdownOTel, err = observability.SetupOTel(ctx, cfg.OTEL, version)
		if err != nil {
			log.Fatal().Err(err).Msg("set up tracing")
		}
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, httpapi.Deps{
		DB:      db,
		Store:   store,
		SMS:     sms,
		Voice:   voice,
		Cache:   respCache,
		Limiter: limiter,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
