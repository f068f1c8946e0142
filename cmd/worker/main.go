// Package main provides the entrypoint for the windlens background worker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/config"
	"github.com/windlens/windlens/internal/database"
	"github.com/windlens/windlens/internal/history"
	"github.com/windlens/windlens/internal/ingest/nws"
	"github.com/windlens/windlens/internal/ingest/openmeteo"
	"github.com/windlens/windlens/internal/provider/resilience"
	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/internal/telemetry"
	"github.com/windlens/windlens/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const healthPort = "8081"

func main() {
	const serviceName = "windlens-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting windlens worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	var cycleRepo history.Repository = history.NewInMemoryRepository()
	if cfg.DatabaseEnabled {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Str("database", dbConfig.Database).
			Msg("database connected")

		cycleRepo = history.NewPostgresRepository(pool)
	}

	forecastProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName)),
		Logger:     log,
	})
	stationProvider := nws.NewClient(nws.ClientConfig{
		UserAgent:  cfg.UserAgent,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(nws.ProviderName)),
		Logger:     log,
	})

	snapshots := reconcile.NewService(reconcile.ServiceConfig{
		Forecast: forecastProvider,
		Stations: stationProvider,
		Logger:   log,
		Recorder: cycleRepo,
	})

	metrics := worker.NewMetrics()

	refresher := worker.NewRefresher(worker.RefresherConfig{
		Home:     worker.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon},
		Interval: cfg.RefreshInterval,
	}, worker.RefresherDeps{
		Snapshots: snapshots,
		Logger:    log,
		Metrics:   metrics,
	})

	errCh := make(chan error, 2)

	go func() {
		errCh <- refresher.Run(ctx)
	}()

	if cfg.PubSubProjectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			Refresher:        refresher,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			errCh <- handler.Start(ctx)
		}()
	} else {
		log.Info().Msg("pubsub disabled, running on interval only")
	}

	healthServer := &http.Server{
		Addr:         ":" + healthPort,
		Handler:      worker.NewHealthMux(Version),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", healthServer.Addr).Msg("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down worker")
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("worker loop failed")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
