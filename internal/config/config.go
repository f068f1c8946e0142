// Package config loads process configuration from the environment. A local
// .env file is read first so development setups don't need exported
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the API and worker processes.
type Config struct {
	Port        string
	Environment string

	OTLPEndpoint     string
	TelemetryEnabled bool

	// OpsSigningKey protects the detailed status endpoint. Empty disables it.
	OpsSigningKey string

	// DatabaseEnabled switches cycle persistence between Postgres and the
	// in-memory repository.
	DatabaseEnabled bool

	// HomeLat and HomeLon are the worker's initial refresh target.
	HomeLat float64
	HomeLon float64

	// RefreshInterval is the time between worker cycles.
	RefreshInterval time.Duration

	// Pub/Sub refresh triggers; empty project disables the subscription.
	PubSubProjectID    string
	PubSubSubscription string

	// UserAgent identifies outbound provider requests.
	UserAgent string

	// GeocodeBaseURL overrides the Nominatim endpoint; empty uses the
	// public instance.
	GeocodeBaseURL string

	// GeocodeCacheTTL bounds how long resolved addresses are served from
	// cache.
	GeocodeCacheTTL time.Duration
}

// Load reads configuration from a .env file (when present) and the
// environment, applying defaults where unset.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	homeLat, err := parseFloat("HOME_LAT", 52.1093)
	if err != nil {
		return nil, err
	}
	homeLon, err := parseFloat("HOME_LON", 5.1810)
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parseDuration("REFRESH_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	geocodeTTL, err := parseDuration("GEOCODE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               envOrDefault("APP_PORT", "8080"),
		Environment:        envOrDefault("APP_ENV", "development"),
		OTLPEndpoint:       envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:   os.Getenv("OTEL_ENABLED") == "true",
		OpsSigningKey:      os.Getenv("OPS_SIGNING_KEY"),
		DatabaseEnabled:    os.Getenv("DB_ENABLED") == "true",
		HomeLat:            homeLat,
		HomeLon:            homeLon,
		RefreshInterval:    refreshInterval,
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: envOrDefault("PUBSUB_SUBSCRIPTION", "windlens-reconcile"),
		UserAgent:          envOrDefault("PROVIDER_USER_AGENT", "windlens (github.com/windlens/windlens)"),
		GeocodeBaseURL:     os.Getenv("GEOCODE_BASE_URL"),
		GeocodeCacheTTL:    geocodeTTL,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}
