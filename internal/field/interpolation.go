// Package field provides spatial interpolation of sparse wind samples into a
// continuous vector field.
package field

import (
	"math"
	"sort"

	"github.com/windlens/windlens/internal/profile"
	"github.com/windlens/windlens/internal/wind"
)

// Vector is an interpolated wind vector in m/s components.
// Magnitude is stored alongside the components for classification convenience.
type Vector struct {
	Eastward  float64
	Northward float64
	Magnitude float64
}

// FromComponents builds a Vector whose magnitude is derived from the
// components, keeping the magnitude invariant by construction.
func FromComponents(eastward, northward float64) Vector {
	return Vector{
		Eastward:  eastward,
		Northward: northward,
		Magnitude: math.Hypot(eastward, northward),
	}
}

// IsZero reports whether the vector carries no wind.
func (v Vector) IsZero() bool {
	return v.Eastward == 0 && v.Northward == 0 && v.Magnitude == 0
}

// Config holds configuration for the inverse-distance interpolator.
type Config struct {
	// MaxNeighbors is the maximum number of nearest samples to use. Default: 4.
	MaxNeighbors int

	// Power is the exponent for inverse distance weighting. Default: 2.0.
	Power float64

	// Epsilon is added to every distance to avoid division by zero at
	// coincident points. Default: 1e-6 degrees.
	Epsilon float64

	// Alpha is the vertical profile exponent used to normalize sample speeds
	// to the query height. Default: profile.DefaultAlpha.
	Alpha float64
}

// DefaultConfig returns the default interpolation configuration.
func DefaultConfig() Config {
	return Config{
		MaxNeighbors: 4,
		Power:        2.0,
		Epsilon:      1e-6,
		Alpha:        profile.DefaultAlpha,
	}
}

// Interpolator estimates a wind vector at arbitrary coordinates from a sparse
// set of geo-tagged samples. Stateless; safe for concurrent use.
type Interpolator struct {
	config Config
}

// NewInterpolator creates an Interpolator, filling zero config fields with
// defaults.
func NewInterpolator(config Config) *Interpolator {
	def := DefaultConfig()
	if config.MaxNeighbors <= 0 {
		config.MaxNeighbors = def.MaxNeighbors
	}
	if config.Power <= 0 {
		config.Power = def.Power
	}
	if config.Epsilon <= 0 {
		config.Epsilon = def.Epsilon
	}
	if config.Alpha <= 0 {
		config.Alpha = def.Alpha
	}
	return &Interpolator{config: config}
}

// sampleDistance pairs a sample with its planar distance from the query point.
type sampleDistance struct {
	sample   wind.GeoSample
	distance float64
}

// Interpolate estimates the wind vector at (lat, lon) and targetHeight.
// An empty sample set yields the zero vector, a defined fallback rather than
// an error. Speeds are normalized to targetHeight before weighting.
func (i *Interpolator) Interpolate(samples []wind.GeoSample, lat, lon, targetHeight float64) (Vector, error) {
	if len(samples) == 0 {
		return Vector{}, nil
	}

	distances := make([]sampleDistance, 0, len(samples))
	for _, s := range samples {
		// Planar degree distance is adequate at the scale of a viewport;
		// the epsilon keeps coincident points finite.
		d := math.Hypot(lat-s.Lat, lon-s.Lon) + i.config.Epsilon
		distances = append(distances, sampleDistance{sample: s, distance: d})
	}

	sort.Slice(distances, func(a, b int) bool {
		return distances[a].distance < distances[b].distance
	})

	if len(distances) > i.config.MaxNeighbors {
		distances = distances[:i.config.MaxNeighbors]
	}

	var (
		eastSum, northSum float64
		magnitudeSum      float64
		totalWeight       float64
	)

	for _, sd := range distances {
		speed, err := profile.Extrapolate(sd.sample.Speed, wind.ReferenceHeight, targetHeight, i.config.Alpha)
		if err != nil {
			return Vector{}, err
		}

		// Meteorological convention: direction measured clockwise from north.
		var east, north float64
		if sd.sample.Direction != nil {
			rad := *sd.sample.Direction * math.Pi / 180
			north = math.Cos(rad) * speed
			east = math.Sin(rad) * speed
		}
		// A directionless sample contributes magnitude only; inventing a
		// bearing for it would skew the interpolated direction.

		weight := 1.0 / math.Pow(sd.distance, i.config.Power)
		eastSum += east * weight
		northSum += north * weight
		magnitudeSum += speed * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return Vector{}, nil
	}

	return Vector{
		Eastward:  eastSum / totalWeight,
		Northward: northSum / totalWeight,
		Magnitude: magnitudeSum / totalWeight,
	}, nil
}
