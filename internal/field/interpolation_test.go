package field_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/profile"
	"github.com/windlens/windlens/internal/wind"
)

func geoSample(lat, lon, speed, direction float64) wind.GeoSample {
	return wind.GeoSample{
		Sample: wind.Sample{
			Timestamp: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
			Speed:     speed,
			Direction: wind.Float64(direction),
		},
		Lat: lat,
		Lon: lon,
	}
}

func TestInterpolate_EmptySamples(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())

	v, err := interp.Interpolate(nil, 52.37, 4.89, 10)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestInterpolate_CoincidentSample(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())
	samples := []wind.GeoSample{geoSample(52.37, 4.89, 6.0, 270)}

	v, err := interp.Interpolate(samples, 52.37, 4.89, 10)
	require.NoError(t, err)

	// A query at the sample's own location must return its speed at the
	// reference height; the epsilon term must not perturb it.
	assert.InDelta(t, 6.0, v.Magnitude, 1e-9)
	assert.InDelta(t, -6.0, v.Eastward, 1e-9)
	assert.InDelta(t, 0.0, v.Northward, 1e-9)
}

func TestInterpolate_CoincidentSampleProjected(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())
	samples := []wind.GeoSample{geoSample(52.37, 4.89, 5.0, 0)}

	v, err := interp.Interpolate(samples, 52.37, 4.89, 50)
	require.NoError(t, err)

	want, err := profile.Extrapolate(5.0, wind.ReferenceHeight, 50, profile.DefaultAlpha)
	require.NoError(t, err)
	assert.InDelta(t, want, v.Magnitude, 1e-9)
}

func TestInterpolate_NearerSampleDominates(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())
	samples := []wind.GeoSample{
		geoSample(52.37+0.01, 4.89, 5.0, 0),
		geoSample(52.37+0.02, 4.89, 10.0, 0),
	}

	v, err := interp.Interpolate(samples, 52.37, 4.89, 10)
	require.NoError(t, err)

	// Weight ratio (1/0.01^2):(1/0.02^2) = 4:1, so the result sits at
	// (4*5 + 1*10)/5 = 6 m/s, closer to the near sample.
	assert.InDelta(t, 6.0, v.Magnitude, 0.01)
	assert.Less(t, math.Abs(v.Magnitude-5), math.Abs(v.Magnitude-10))
}

func TestInterpolate_LimitsToNearestNeighbors(t *testing.T) {
	interp := field.NewInterpolator(field.Config{MaxNeighbors: 1})
	samples := []wind.GeoSample{
		geoSample(52.38, 4.89, 3.0, 90),
		geoSample(53.50, 4.89, 20.0, 90),
		geoSample(54.50, 4.89, 20.0, 90),
	}

	v, err := interp.Interpolate(samples, 52.37, 4.89, 10)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v.Magnitude, 1e-6, "only the nearest sample should contribute")
}

func TestInterpolate_DirectionlessSampleContributes(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())
	s := geoSample(52.37, 4.89, 4.0, 0)
	s.Direction = nil

	v, err := interp.Interpolate([]wind.GeoSample{s}, 52.37, 4.89, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v.Magnitude, 1e-9)
	assert.Zero(t, v.Eastward, "no bearing may be invented for a directionless sample")
	assert.Zero(t, v.Northward, "no bearing may be invented for a directionless sample")
}

func TestInterpolate_DirectionlessNeighborDoesNotSkewBearing(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())

	eastward := geoSample(52.37, 4.89, 6.0, 90)
	unknown := geoSample(52.38, 4.90, 6.0, 0)
	unknown.Direction = nil

	v, err := interp.Interpolate([]wind.GeoSample{eastward, unknown}, 52.372, 4.892, 10)
	require.NoError(t, err)

	// Both neighbors weigh in on magnitude, but only the directed one sets
	// the components.
	assert.Greater(t, v.Eastward, 0.0)
	assert.InDelta(t, 0.0, v.Northward, 1e-9)
	assert.InDelta(t, 6.0, v.Magnitude, 1e-9)
}

func TestInterpolate_InvalidHeight(t *testing.T) {
	interp := field.NewInterpolator(field.DefaultConfig())
	samples := []wind.GeoSample{geoSample(52.37, 4.89, 5.0, 0)}

	_, err := interp.Interpolate(samples, 52.37, 4.89, 0)
	assert.ErrorIs(t, err, profile.ErrInvalidHeight)
}

func TestFromComponents_MagnitudeInvariant(t *testing.T) {
	v := field.FromComponents(3, 4)
	assert.InDelta(t, 5.0, v.Magnitude, 1e-12)
}
