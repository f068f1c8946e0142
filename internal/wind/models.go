// Package wind defines the shared domain model for wind samples and series.
package wind

import (
	"errors"
	"math"
	"time"
)

// Domain errors.
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidDirection   = errors.New("direction out of range")
	ErrNegativeSpeed      = errors.New("negative wind speed")
	ErrDuplicateTimestamp = errors.New("duplicate sample timestamp")
)

// ReferenceHeight is the height, in meters, at which samples are reported
// unless tagged otherwise. Standard anemometer height for surface forecasts.
const ReferenceHeight = 10.0

// Sample represents wind state at a single point in time, at ReferenceHeight.
// Immutable once produced by ingestion.
type Sample struct {
	// Timestamp is when the sample is valid.
	Timestamp time.Time

	// Speed is the steady wind speed in m/s. Always >= 0.
	Speed float64

	// Direction is the meteorological wind direction in degrees [0, 360),
	// measured clockwise from north. Nil when the source did not report one.
	Direction *float64

	// Gust is the peak wind speed in m/s. Nil when not measured; filled by
	// reconciliation or estimation downstream.
	Gust *float64

	// Daytime reports whether the sample falls in daylight hours.
	Daytime bool
}

// Validate checks the sample invariants.
func (s Sample) Validate() error {
	if s.Speed < 0 || math.IsNaN(s.Speed) {
		return ErrNegativeSpeed
	}
	if s.Gust != nil && (*s.Gust < 0 || math.IsNaN(*s.Gust)) {
		return ErrNegativeSpeed
	}
	if s.Direction != nil && (*s.Direction < 0 || *s.Direction >= 360 || math.IsNaN(*s.Direction)) {
		return ErrInvalidDirection
	}
	return nil
}

// GeoSample is a Sample tagged with the coordinates it was observed or
// forecast at. Input to the spatial interpolator.
type GeoSample struct {
	Sample
	Lat float64
	Lon float64
}

// ObservationRecord is a station observation used to reconcile forecast
// samples. Gust is nil when the station did not report one for that hour.
type ObservationRecord struct {
	Timestamp time.Time
	Gust      *float64
}

// Series is an ordered sequence of samples with unique timestamps,
// chronological in forecast order.
type Series struct {
	Samples []Sample
}

// Validate checks that the series has unique, valid samples.
func (s Series) Validate() error {
	seen := make(map[time.Time]struct{}, len(s.Samples))
	for _, sample := range s.Samples {
		if err := sample.Validate(); err != nil {
			return err
		}
		if _, ok := seen[sample.Timestamp]; ok {
			return ErrDuplicateTimestamp
		}
		seen[sample.Timestamp] = struct{}{}
	}
	return nil
}

// Window returns the samples whose timestamp falls in [start, end], inclusive.
func (s Series) Window(start, end time.Time) []Sample {
	var out []Sample
	for _, sample := range s.Samples {
		if !sample.Timestamp.Before(start) && !sample.Timestamp.After(end) {
			out = append(out, sample)
		}
	}
	return out
}

// ValidateCoordinates checks that a lat/lon pair is on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Float64 returns a pointer to v. Convenience for optional sample fields.
func Float64(v float64) *float64 {
	return &v
}
