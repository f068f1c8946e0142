package advect_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/advect"
	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/wind"
)

var viewport = advect.Viewport{West: 4.0, South: 52.0, East: 5.0, North: 53.0, Zoom: 8}

// uniformField returns samples producing a constant wind across the viewport.
func uniformField(speed, direction float64) []wind.GeoSample {
	ts := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	corners := [][2]float64{{52.0, 4.0}, {52.0, 5.0}, {53.0, 4.0}, {53.0, 5.0}}
	samples := make([]wind.GeoSample, 0, len(corners))
	for _, c := range corners {
		samples = append(samples, wind.GeoSample{
			Sample: wind.Sample{Timestamp: ts, Speed: speed, Direction: wind.Float64(direction)},
			Lat:    c[0],
			Lon:    c[1],
		})
	}
	return samples
}

func newSimulator(t *testing.T, cfg advect.Config, samples []wind.GeoSample) *advect.Simulator {
	t.Helper()
	sim := advect.NewSimulator(cfg, field.NewInterpolator(field.DefaultConfig()), rand.New(rand.NewSource(42)))
	require.NoError(t, sim.Reseed(viewport, samples))
	return sim
}

func TestReseed_ParticlesInsideBounds(t *testing.T) {
	sim := newSimulator(t, advect.Config{Population: 64}, uniformField(5, 0))

	for _, p := range sim.Particles() {
		assert.True(t, viewport.Contains(p.Lat, p.Lon))
		assert.Less(t, p.Age, uint32(120), "initial age is randomized below the lifetime")
	}
}

func TestReseed_InvalidViewport(t *testing.T) {
	sim := advect.NewSimulator(advect.Config{}, field.NewInterpolator(field.DefaultConfig()), rand.New(rand.NewSource(1)))
	err := sim.Reseed(advect.Viewport{West: 5, East: 4, South: 52, North: 53}, nil)
	assert.ErrorIs(t, err, advect.ErrInvalidViewport)
}

func TestTick_NorthwardDrift(t *testing.T) {
	// 0 degrees is wind from the north in meteorological convention, so the
	// decomposed vector points north with positive northward component.
	sim := newSimulator(t, advect.Config{Population: 16, MaxLifetime: 1000}, uniformField(10, 0))

	before := sim.Particles()
	segments, err := sim.Tick()
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	after := sim.Particles()
	moved := 0
	for i := range after {
		if after[i].Age > before[i].Age {
			assert.Greater(t, after[i].Lat, before[i].Lat, "particles drift north")
			assert.InDelta(t, before[i].Lon, after[i].Lon, 1e-9, "no eastward component")
			moved++
		}
	}
	assert.NotZero(t, moved)
}

func TestTick_SegmentsMatchDisplacement(t *testing.T) {
	sim := newSimulator(t, advect.Config{Population: 8, MaxLifetime: 1000}, uniformField(5, 90))

	segments, err := sim.Tick()
	require.NoError(t, err)

	dt := viewport.TimeStep()
	for _, seg := range segments {
		// Wind from 90 degrees decomposes to a pure eastward vector.
		metersPerDegreeLon := 111320.0 * math.Cos(seg.FromLat*math.Pi/180)
		wantLon := seg.FromLon + 5.0*dt/metersPerDegreeLon
		assert.InDelta(t, wantLon, seg.ToLon, 1e-6)
		assert.InDelta(t, seg.FromLat, seg.ToLat, 1e-6)
	}
}

func TestTick_OutOfBoundsRespawn(t *testing.T) {
	// Strong eastward wind pushes particles over the east edge; once outside,
	// the next tick evaluation respawns them inside with age zero.
	sim := newSimulator(t, advect.Config{Population: 32, MaxLifetime: 100000}, uniformField(60, 90))

	sawRespawn := false
	for i := 0; i < 500; i++ {
		before := sim.Particles()
		_, err := sim.Tick()
		require.NoError(t, err)
		after := sim.Particles()
		for j := range after {
			if !viewport.Contains(before[j].Lat, before[j].Lon) {
				// Out of bounds at tick evaluation: must be back inside,
				// age reset, on this very tick.
				assert.True(t, viewport.Contains(after[j].Lat, after[j].Lon))
				assert.Zero(t, after[j].Age)
				sawRespawn = true
			}
		}
	}
	assert.True(t, sawRespawn, "strong eastward wind must push particles out of bounds")

	// No particle is ever stranded more than one tick's displacement outside.
	for _, p := range sim.Particles() {
		assert.Less(t, p.Lon, viewport.East+1.0)
		assert.Greater(t, p.Lon, viewport.West-1.0)
	}
}

func TestTick_RespawnResetsAge(t *testing.T) {
	sim := newSimulator(t, advect.Config{Population: 4, MaxLifetime: 2}, uniformField(1, 0))

	for i := 0; i < 10; i++ {
		_, err := sim.Tick()
		require.NoError(t, err)
	}
	for _, p := range sim.Particles() {
		assert.LessOrEqual(t, p.Age, uint32(3), "expiry respawns keep ages bounded")
	}
}

func TestTick_DeterministicWithFixedSeed(t *testing.T) {
	run := func() []advect.Segment {
		sim := newSimulator(t, advect.Config{Population: 16}, uniformField(7, 225))
		var all []advect.Segment
		for i := 0; i < 5; i++ {
			segs, err := sim.Tick()
			require.NoError(t, err)
			all = append(all, segs...)
		}
		return all
	}

	assert.Equal(t, run(), run(), "a fixed seed yields exact trajectories")
}

func TestViewport_TimeStepClamped(t *testing.T) {
	wide := advect.Viewport{West: 0, South: 0, East: 10, North: 10, Zoom: 1}
	narrow := advect.Viewport{West: 0, South: 0, East: 10, North: 10, Zoom: 18}

	assert.Equal(t, 900.0, wide.TimeStep())
	assert.Equal(t, 30.0, narrow.TimeStep())
	assert.GreaterOrEqual(t, wide.TimeStep(), narrow.TimeStep())
}
