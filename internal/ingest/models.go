// Package ingest defines the boundary to upstream forecast and station
// observation sources. Implementations live in subpackages; everything past
// this boundary works on already-parsed samples.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/windlens/windlens/internal/wind"
)

// Provider errors.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNoStation           = errors.New("no station near location")
	ErrNoObservations      = errors.New("station returned no observations")
)

// Forecast is a parsed hourly forecast for a location, together with a sparse
// spatial field of samples around it for interpolation.
type Forecast struct {
	Lat       float64
	Lon       float64
	Series    wind.Series
	Field     []wind.GeoSample
	FetchedAt time.Time
}

// Station identifies an observation station. Name is for reporting only and
// never enters computation.
type Station struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// ForecastProvider fetches hourly wind forecasts.
type ForecastProvider interface {
	// Fetch retrieves the forecast for a location.
	Fetch(ctx context.Context, lat, lon float64) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// StationProvider discovers observation stations and their recent records.
type StationProvider interface {
	// NearestStation finds the closest station to a location.
	NearestStation(ctx context.Context, lat, lon float64) (*Station, error)

	// Observations retrieves recent observation records for a station.
	Observations(ctx context.Context, stationID string) ([]wind.ObservationRecord, error)

	// Name returns the provider name for logging.
	Name() string
}
