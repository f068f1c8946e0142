package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/telemetry"
)

func TestInit_Disabled_ReturnsNoopProvider(t *testing.T) {
	provider, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:    "windlens-api",
		ServiceVersion: "0.0.0-test",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	// The noop provider still hands out usable tracer and meter handles.
	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestProvider_Shutdown_ZeroValue(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestTracer_GlobalHandle(t *testing.T) {
	assert.NotNil(t, telemetry.Tracer("windlens-test"))
}

func TestMeter_GlobalHandle(t *testing.T) {
	assert.NotNil(t, telemetry.Meter("windlens-test"))
}
