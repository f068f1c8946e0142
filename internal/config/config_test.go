package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 52.1093, cfg.HomeLat)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.GeocodeCacheTTL)
	assert.False(t, cfg.TelemetryEnabled)
	assert.False(t, cfg.DatabaseEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HOME_LAT", "51.92")
	t.Setenv("REFRESH_INTERVAL", "10m")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 51.92, cfg.HomeLat)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad latitude", "HOME_LAT", "north"},
		{"bad interval", "REFRESH_INTERVAL", "often"},
		{"negative interval", "REFRESH_INTERVAL", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
