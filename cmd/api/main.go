// Package main provides the entrypoint for the windlens API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/api"
	"github.com/windlens/windlens/internal/api/handler"
	"github.com/windlens/windlens/internal/api/middleware"
	"github.com/windlens/windlens/internal/config"
	"github.com/windlens/windlens/internal/database"
	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/geocode"
	"github.com/windlens/windlens/internal/geocode/nominatim"
	"github.com/windlens/windlens/internal/history"
	"github.com/windlens/windlens/internal/ingest/nws"
	"github.com/windlens/windlens/internal/ingest/openmeteo"
	"github.com/windlens/windlens/internal/provider/resilience"
	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/internal/safety"
	"github.com/windlens/windlens/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "windlens-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting windlens API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Cycle history persists to Postgres when configured, otherwise to a
	// bounded in-memory buffer.
	var cycleRepo history.Repository = history.NewInMemoryRepository()
	var dbPinger handler.Pinger
	if cfg.DatabaseEnabled {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		cycleRepo = history.NewPostgresRepository(pool)
		dbPinger = pool
	}

	forecastClient := resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName))
	stationClient := resilience.NewClient(resilience.DefaultClientConfig(nws.ProviderName))
	geocodeClient := resilience.NewClient(resilience.DefaultClientConfig(nominatim.ProviderName))

	forecastProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		HTTPClient: forecastClient,
		Logger:     log,
	})
	stationProvider := nws.NewClient(nws.ClientConfig{
		UserAgent:  cfg.UserAgent,
		HTTPClient: stationClient,
		Logger:     log,
	})
	geocoder := geocode.NewCachedProvider(nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    cfg.GeocodeBaseURL,
		UserAgent:  cfg.UserAgent,
		HTTPClient: geocodeClient,
		Logger:     log,
	}), cfg.GeocodeCacheTTL)

	snapshots := reconcile.NewService(reconcile.ServiceConfig{
		Forecast: forecastProvider,
		Stations: stationProvider,
		Logger:   log,
		Recorder: cycleRepo,
	})
	log.Info().Msg("reconciliation service initialized")

	thresholds := safety.DefaultThresholds()

	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		ServiceName:  serviceName,
		Metrics:      metrics,
		Snapshots:    snapshots,
		Interpolator: field.NewInterpolator(field.DefaultConfig()),
		Classifier:   safety.NewClassifier(thresholds),
		Thresholds:   thresholds,
		Geocoder:     geocoder,
		History:      cycleRepo,
		DB:           dbPinger,
		Providers: []handler.ProviderProbe{
			{Name: openmeteo.ProviderName, Client: forecastClient},
			{Name: nws.ProviderName, Client: stationClient},
			{Name: nominatim.ProviderName, Client: geocodeClient},
		},
		OpsSigningKey: cfg.OpsSigningKey,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
