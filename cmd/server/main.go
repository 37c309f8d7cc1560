// Command server runs the operations dashboard backend: it polls the
// upstream prediction, call-log, and resolution sources, reconciles them
// into the in-memory store, and serves the dashboard API.
//
// Configuration comes from the environment (optionally via .env and a YAML
// sources file); see internal/config for every knob.
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

	"github.com/valio-aimo/go-ops-backend/internal/config"
	httpapi "github.com/valio-aimo/go-ops-backend/internal/http"
	"github.com/valio-aimo/go-ops-backend/internal/observability"
	"github.com/valio-aimo/go-ops-backend/internal/poll"
	"github.com/valio-aimo/go-ops-backend/internal/services"
	"github.com/valio-aimo/go-ops-backend/internal/store"
	"github.com/valio-aimo/go-ops-backend/internal/sysutil"
	"github.com/valio-aimo/go-ops-backend/internal/upstream"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Best effort: a missing .env simply means the environment rules.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	st := store.New(store.Options{
		Seed:           cfg.SeedDemoData,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	client := upstream.NewClient(upstream.Options{
		ExampleDataURL:   cfg.Sources.ExampleDataURL,
		PredictionURL:    cfg.Sources.PredictionURL,
		ConversationsURL: cfg.Sources.ConversationsURL,
		AgentID:          cfg.Sources.AgentID,
		APIKey:           cfg.Sources.CallsAPIKey,
		Timeout:          cfg.Sources.UpstreamTimeout,
	})

	predSvc := services.NewPredictionService(client, st, log.With().Str("component", "predictions").Logger())
	obsSvc := services.NewObservedService(client, cfg.Sources.OutboundURL, st, log.With().Str("component", "resolutions").Logger())
	callSvc := services.NewCallService(client, st, cfg.Sources.TriggerCallURL, log.With().Str("component", "calls").Logger())

	// Predictions load once at startup; the collection then evolves through
	// webhook writes and auto-resolution. A failed initial load is reported
	// once and the seeded demo data keeps the dashboard usable.
	if err := predSvc.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("initial prediction load failed; serving last known data")
	}

	sched := poll.NewScheduler(log.With().Str("component", "scheduler").Logger(),
		poll.Task{
			Name:      "calls",
			Interval:  cfg.Sources.CallsInterval,
			Immediate: true,
			Run:       callSvc.Refresh,
		},
		poll.Task{
			Name:      "resolutions",
			Interval:  cfg.Sources.OutboundInterval,
			Immediate: true,
			Run:       obsSvc.Refresh,
		},
	)
	sched.Start(ctx)

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Config:    cfg,
		Store:     st,
		Shortages: predSvc,
		Observed:  obsSvc,
		Calls:     callSvc,
		Fetcher:   client,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}
