package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/internal/wind"
)

var hour14 = time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

func forecastSamples(hours int) []wind.Sample {
	samples := make([]wind.Sample, hours)
	for i := range samples {
		samples[i] = wind.Sample{
			Timestamp: hour14.Add(time.Duration(i) * time.Hour),
			Speed:     5.0 + float64(i),
			Daytime:   true,
		}
	}
	return samples
}

func TestMerge_OverlaysGustByHourBucket(t *testing.T) {
	forecast := forecastSamples(3)
	observations := []wind.ObservationRecord{
		{Timestamp: hour14.Add(25 * time.Minute), Gust: wind.Float64(9.5)},
		{Timestamp: hour14.Add(2*time.Hour + 40*time.Minute), Gust: wind.Float64(12.0)},
	}

	merged := reconcile.Merge(forecast, observations)
	require.Len(t, merged.Samples, 3)

	require.NotNil(t, merged.Samples[0].Gust)
	assert.Equal(t, 9.5, *merged.Samples[0].Gust, "14:25 observation lands in the 14h bucket")
	assert.Nil(t, merged.Samples[1].Gust, "no observation in the 15h bucket")
	require.NotNil(t, merged.Samples[2].Gust)
	assert.Equal(t, 12.0, *merged.Samples[2].Gust)
}

func TestMerge_NilGustObservationIgnored(t *testing.T) {
	forecast := forecastSamples(1)
	observations := []wind.ObservationRecord{{Timestamp: hour14.Add(10 * time.Minute)}}

	merged := reconcile.Merge(forecast, observations)
	assert.Nil(t, merged.Samples[0].Gust)
}

func TestMerge_PreservesOrderAndTimestamps(t *testing.T) {
	forecast := forecastSamples(5)
	merged := reconcile.Merge(forecast, nil)

	require.Len(t, merged.Samples, 5)
	for i, s := range merged.Samples {
		assert.Equal(t, forecast[i].Timestamp, s.Timestamp)
		assert.Equal(t, forecast[i].Speed, s.Speed)
	}
	assert.NoError(t, merged.Validate())
}

func TestMerge_Idempotent(t *testing.T) {
	forecast := forecastSamples(4)
	observations := []wind.ObservationRecord{
		{Timestamp: hour14, Gust: wind.Float64(8.0)},
		{Timestamp: hour14.Add(time.Hour), Gust: wind.Float64(7.0)},
	}

	once := reconcile.Merge(forecast, observations)
	twice := reconcile.Merge(once.Samples, observations)
	assert.Equal(t, once, twice)
}

func TestEstimateMissingGusts(t *testing.T) {
	series := wind.Series{Samples: []wind.Sample{
		{Timestamp: hour14, Speed: 5.0},
		{Timestamp: hour14.Add(time.Hour), Speed: 6.0, Gust: wind.Float64(6.2)},
	}}

	filled := reconcile.EstimateMissingGusts(series)

	require.NotNil(t, filled.Samples[0].Gust)
	assert.Equal(t, 5.0*reconcile.GustFactor, *filled.Samples[0].Gust, "estimated gust is exactly speed * 1.4")
	assert.Equal(t, 6.2, *filled.Samples[1].Gust, "existing gusts are never touched")

	again := reconcile.EstimateMissingGusts(filled)
	assert.Equal(t, filled, again)
}

func TestEstimateMissingGusts_NeverDecreases(t *testing.T) {
	// A measured gust below the estimator output stays as measured.
	series := wind.Series{Samples: []wind.Sample{
		{Timestamp: hour14, Speed: 10.0, Gust: wind.Float64(10.5)},
	}}

	filled := reconcile.EstimateMissingGusts(series)
	assert.Equal(t, 10.5, *filled.Samples[0].Gust)
}

func TestReconcile_Merged(t *testing.T) {
	forecast := wind.Series{Samples: forecastSamples(2)}
	observations := []wind.ObservationRecord{
		{Timestamp: hour14, Gust: wind.Float64(8.0)},
		{Timestamp: hour14.Add(time.Hour), Gust: wind.Float64(9.0)},
	}

	result := reconcile.Reconcile(forecast, observations)

	assert.Equal(t, reconcile.OutcomeMerged, result.Outcome)
	assert.False(t, result.Outcome.Degraded())
	assert.Equal(t, 2, result.MatchedSamples)
	assert.Zero(t, result.EstimatedSamples)
}

func TestReconcile_MergedWithEstimationFill(t *testing.T) {
	forecast := wind.Series{Samples: forecastSamples(3)}
	observations := []wind.ObservationRecord{
		{Timestamp: hour14, Gust: wind.Float64(8.0)},
	}

	result := reconcile.Reconcile(forecast, observations)

	assert.Equal(t, reconcile.OutcomeMergedWithEstimationFill, result.Outcome)
	assert.True(t, result.Outcome.Degraded())
	assert.Equal(t, 1, result.MatchedSamples)
	assert.Equal(t, 2, result.EstimatedSamples)

	assert.Equal(t, 8.0, *result.Series.Samples[0].Gust)
	assert.Equal(t, result.Series.Samples[1].Speed*reconcile.GustFactor, *result.Series.Samples[1].Gust)
}

func TestReconcile_FullyEstimated(t *testing.T) {
	forecast := wind.Series{Samples: forecastSamples(2)}

	result := reconcile.Reconcile(forecast, nil)

	assert.Equal(t, reconcile.OutcomeFullyEstimated, result.Outcome)
	assert.True(t, result.Outcome.Degraded())
	assert.Equal(t, 2, result.EstimatedSamples)
	for _, s := range result.Series.Samples {
		require.NotNil(t, s.Gust)
		assert.Equal(t, s.Speed*reconcile.GustFactor, *s.Gust)
	}
}
