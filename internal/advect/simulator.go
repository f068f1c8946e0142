// Package advect simulates tracer particles drifting through the interpolated
// wind field, producing per-tick line segments for rendering.
package advect

import (
	"errors"
	"math"
	"math/rand"

	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/wind"
)

// ErrInvalidViewport is returned when viewport bounds are empty or inverted.
var ErrInvalidViewport = errors.New("invalid viewport bounds")

// metersPerDegreeLat is the local meters-per-degree conversion at the
// latitude axis; the longitude conversion scales with cos(lat).
const metersPerDegreeLat = 111320.0

// Viewport is the bounding box and scale supplied by the map collaborator.
type Viewport struct {
	West  float64
	South float64
	East  float64
	North float64

	// Zoom is the current map zoom level; it drives the per-tick time step so
	// visual particle speed stays perceptually stable across scales.
	Zoom float64
}

// Contains reports whether a point lies inside the viewport.
func (v Viewport) Contains(lat, lon float64) bool {
	return lon >= v.West && lon <= v.East && lat >= v.South && lat <= v.North
}

// valid reports whether the bounds enclose a non-empty area.
func (v Viewport) valid() bool {
	return v.East > v.West && v.North > v.South
}

// TimeStep returns the simulated seconds advanced per tick at this zoom,
// clamped so particles neither crawl nor teleport at extreme scales.
func (v Viewport) TimeStep() float64 {
	const (
		minStep = 30.0
		maxStep = 900.0
	)
	// Halve the step per zoom level past 8; wider views take bigger steps.
	step := maxStep / math.Pow(2, v.Zoom-8)
	return math.Min(maxStep, math.Max(minStep, step))
}

// Particle is one tracer. Owned exclusively by the simulator; respawn
// overwrites it in place.
type Particle struct {
	Lon float64
	Lat float64
	Age uint32
}

// Segment is the (previous, next) position pair emitted for one particle on
// one tick. The only output surface toward the renderer.
type Segment struct {
	FromLat float64
	FromLon float64
	ToLat   float64
	ToLon   float64
}

// Config holds simulator tuning.
type Config struct {
	// Population is the number of particles in the arena. Default: 256.
	Population int

	// MaxLifetime is the tick count after which a particle respawns.
	// Default: 120.
	MaxLifetime uint32

	// DisplayHeight is the altitude, in meters, at which the field is
	// sampled. Default: the reference height.
	DisplayHeight float64
}

// DefaultConfig returns the default simulator tuning.
func DefaultConfig() Config {
	return Config{
		Population:    256,
		MaxLifetime:   120,
		DisplayHeight: wind.ReferenceHeight,
	}
}

// Simulator advances a fixed-capacity arena of particles through the wind
// field. Single-goroutine: one Tick runs to completion before the next; the
// caller owns scheduling.
type Simulator struct {
	config       Config
	interpolator *field.Interpolator
	rng          *rand.Rand

	viewport  Viewport
	samples   []wind.GeoSample
	particles []Particle
}

// NewSimulator creates a simulator with an injectable randomness source so
// tests can seed it and assert exact trajectories.
func NewSimulator(config Config, interpolator *field.Interpolator, rng *rand.Rand) *Simulator {
	def := DefaultConfig()
	if config.Population <= 0 {
		config.Population = def.Population
	}
	if config.MaxLifetime == 0 {
		config.MaxLifetime = def.MaxLifetime
	}
	if config.DisplayHeight <= 0 {
		config.DisplayHeight = def.DisplayHeight
	}
	return &Simulator{
		config:       config,
		interpolator: interpolator,
		rng:          rng,
		particles:    make([]Particle, config.Population),
	}
}

// Reseed discards all particle state and seeds the arena uniformly inside the
// viewport with randomized initial ages, so the population does not expire in
// synchronized pulses. Called on start and whenever the viewport or the
// sample field changes.
func (s *Simulator) Reseed(viewport Viewport, samples []wind.GeoSample) error {
	if !viewport.valid() {
		return ErrInvalidViewport
	}
	s.viewport = viewport
	s.samples = samples
	for i := range s.particles {
		s.spawn(&s.particles[i])
		s.particles[i].Age = uint32(s.rng.Intn(int(s.config.MaxLifetime)))
	}
	return nil
}

// SetDisplayHeight changes the altitude the field is sampled at. Takes effect
// on the next tick; particle positions are kept.
func (s *Simulator) SetDisplayHeight(height float64) {
	if height > 0 {
		s.config.DisplayHeight = height
	}
}

// Tick advances every particle once and returns the movement segments.
// Exited and expired particles respawn in place and emit no segment for the
// tick they respawn on.
func (s *Simulator) Tick() ([]Segment, error) {
	dt := s.viewport.TimeStep()
	segments := make([]Segment, 0, len(s.particles))

	for i := range s.particles {
		p := &s.particles[i]

		if !s.viewport.Contains(p.Lat, p.Lon) {
			s.spawn(p)
			continue
		}

		v, err := s.interpolator.Interpolate(s.samples, p.Lat, p.Lon, s.config.DisplayHeight)
		if err != nil {
			return nil, err
		}

		metersPerDegreeLon := metersPerDegreeLat * math.Cos(p.Lat*math.Pi/180)
		from := *p
		p.Lat += v.Northward * dt / metersPerDegreeLat
		if metersPerDegreeLon > 0 {
			p.Lon += v.Eastward * dt / metersPerDegreeLon
		}
		p.Age++

		segments = append(segments, Segment{
			FromLat: from.Lat,
			FromLon: from.Lon,
			ToLat:   p.Lat,
			ToLon:   p.Lon,
		})

		if p.Age > s.config.MaxLifetime {
			s.spawn(p)
		}
	}

	return segments, nil
}

// Particles returns a copy of the arena for inspection.
func (s *Simulator) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// spawn overwrites a particle with a fresh random position and zero age.
func (s *Simulator) spawn(p *Particle) {
	p.Lon = s.viewport.West + s.rng.Float64()*(s.viewport.East-s.viewport.West)
	p.Lat = s.viewport.South + s.rng.Float64()*(s.viewport.North-s.viewport.South)
	p.Age = 0
}
