package safety_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/safety"
	"github.com/windlens/windlens/internal/wind"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleAt(offset time.Duration, speed float64, gust *float64) wind.Sample {
	return wind.Sample{Timestamp: base.Add(offset), Speed: speed, Gust: gust}
}

func TestIsSafe(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())

	tests := []struct {
		name  string
		speed float64
		gust  *float64
		want  bool
	}{
		{"calm", 3.0, wind.Float64(5.0), true},
		{"at steady limit", 11.0, wind.Float64(11.5), true},
		{"steady exceeded, gust within bounds", 11.5, wind.Float64(10.0), false},
		{"gust exceeded", 8.0, wind.Float64(12.5), false},
		{"no gust measured", 10.0, nil, true},
		{"both exceeded", 14.0, wind.Float64(18.0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsSafe(tt.speed, tt.gust))
		})
	}
}

func TestClassify_PerHeightConjunction(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())

	// 9 m/s at 10 m is safe at the surface but projects above 11 m/s by 120 m.
	samples := []wind.Sample{
		sampleAt(0, 9.0, nil),
		sampleAt(time.Hour, 8.5, nil),
	}

	verdict, err := c.Classify(samples, []float64{10, 120}, base, base.Add(2*time.Hour))
	require.NoError(t, err)

	assert.True(t, verdict.PerHeight[10])
	assert.False(t, verdict.PerHeight[120])
	assert.False(t, verdict.Overall, "overall must be false when any height fails")
	assert.Equal(t, 2, verdict.SamplesEvaluated)
	assert.False(t, verdict.WindowFallback)
}

func TestClassify_OverallTrueWhenAllHeightsSafe(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())
	samples := []wind.Sample{sampleAt(0, 2.0, wind.Float64(3.0))}

	verdict, err := c.Classify(samples, []float64{10, 50, 120}, base, base.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, verdict.Overall)
	for _, h := range []float64{10, 50, 120} {
		assert.True(t, verdict.PerHeight[h])
	}
}

func TestClassify_GustComparedAsReported(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())

	// Only the steady speed follows the vertical profile. A gust just under
	// the limit stays under it at altitude; one over the limit fails every
	// height.
	withinLimit := []wind.Sample{sampleAt(0, 5.0, wind.Float64(11.9))}
	verdict, err := c.Classify(withinLimit, []float64{10, 120}, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, verdict.PerHeight[10])
	assert.True(t, verdict.PerHeight[120], "gust must not be projected to altitude")

	overLimit := []wind.Sample{sampleAt(0, 5.0, wind.Float64(12.5))}
	verdict, err = c.Classify(overLimit, []float64{10, 120}, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, verdict.PerHeight[10])
	assert.False(t, verdict.PerHeight[120])
}

func TestClassify_SingleBadSampleFailsHeight(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())
	samples := []wind.Sample{
		sampleAt(0, 4.0, nil),
		sampleAt(time.Hour, 11.5, nil), // over the steady limit at 10 m
		sampleAt(2*time.Hour, 4.0, nil),
	}

	verdict, err := c.Classify(samples, []float64{10}, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, verdict.PerHeight[10], "a single unsafe sample fails the whole window")
}

func TestClassify_WindowFallback(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())
	samples := []wind.Sample{
		sampleAt(0, 3.0, nil),
		sampleAt(time.Hour, 4.0, nil),
		sampleAt(2*time.Hour, 20.0, nil),
	}

	// Window far in the future selects nothing; the first two chronological
	// samples are used instead, so the late 20 m/s sample is ignored.
	verdict, err := c.Classify(samples, []float64{10}, base.Add(48*time.Hour), base.Add(50*time.Hour))
	require.NoError(t, err)

	assert.True(t, verdict.WindowFallback)
	assert.Equal(t, 2, verdict.SamplesEvaluated)
	assert.True(t, verdict.PerHeight[10])
}

func TestClassify_EmptySamples(t *testing.T) {
	c := safety.NewClassifier(safety.DefaultThresholds())

	_, err := c.Classify(nil, []float64{10}, base, base.Add(time.Hour))
	assert.ErrorIs(t, err, safety.ErrNoSamples)
}
