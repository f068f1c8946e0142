package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/ingest"
	"github.com/windlens/windlens/internal/wind"
)

// DefaultRefreshInterval is how often a full reconciliation cycle runs.
const DefaultRefreshInterval = 30 * time.Minute

// ErrNoSnapshot is returned when no reconciliation cycle has completed yet.
var ErrNoSnapshot = errors.New("no reconciled snapshot available")

// Snapshot is an immutable view of one completed reconciliation cycle.
// Readers always see either the previous snapshot or this one in full;
// replacement is a single pointer swap.
type Snapshot struct {
	Generation  uint64
	Lat         float64
	Lon         float64
	Result      Result
	Field       []wind.GeoSample
	StationName string
	FetchedAt   time.Time
}

// CycleRecorder persists completed reconciliation cycles. A nil recorder
// disables persistence.
type CycleRecorder interface {
	RecordCycle(ctx context.Context, cycle Cycle) error
}

// Cycle summarizes one reconciliation cycle for persistence.
type Cycle struct {
	ID               uuid.UUID
	Lat              float64
	Lon              float64
	Outcome          Outcome
	StationName      string
	SampleCount      int
	MatchedSamples   int
	EstimatedSamples int
	FetchedAt        time.Time
}

// ServiceConfig holds configuration for the reconciliation service.
type ServiceConfig struct {
	Forecast ingest.ForecastProvider
	Stations ingest.StationProvider
	Logger   zerolog.Logger

	// Recorder persists cycle summaries; nil skips persistence.
	Recorder CycleRecorder

	// Clock is the time source; nil uses the real clock. Tests freeze it.
	Clock clockwork.Clock
}

// Service owns the reconciliation workflow: it fetches forecast and
// observations, runs the merge/estimate cascade, and publishes the result as
// an atomically swapped snapshot. A monotonically increasing generation
// counter keeps results for superseded locations from being applied.
type Service struct {
	forecast ingest.ForecastProvider
	stations ingest.StationProvider
	logger   zerolog.Logger
	recorder CycleRecorder
	clock    clockwork.Clock

	generation atomic.Uint64
	snapshot   atomic.Pointer[Snapshot]
}

// NewService creates a reconciliation service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		forecast: cfg.Forecast,
		stations: cfg.Stations,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		clock:    clock,
	}
}

// Snapshot returns the latest published snapshot, or ErrNoSnapshot before the
// first completed cycle. Lock-free; safe for concurrent readers.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Refresh runs one reconciliation cycle for a location. A forecast fetch
// failure is a hard error (the caller surfaces it); station and observation
// failures are translated into "no observations", which the cascade already
// handles. Results from superseded generations are discarded, not published.
func (s *Service) Refresh(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if err := wind.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	gen := s.generation.Add(1)
	logger := s.logger.With().
		Uint64("generation", gen).
		Float64("lat", lat).
		Float64("lon", lon).
		Logger()

	forecast, err := s.forecast.Fetch(ctx, lat, lon)
	if err != nil {
		logger.Error().Err(err).Str("provider", s.forecast.Name()).Msg("forecast fetch failed")
		return nil, err
	}

	observations, stationName := s.fetchObservations(ctx, logger, lat, lon)
	result := Reconcile(forecast.Series, observations)

	snap := &Snapshot{
		Generation:  gen,
		Lat:         lat,
		Lon:         lon,
		Result:      result,
		Field:       forecast.Field,
		StationName: stationName,
		FetchedAt:   s.clock.Now(),
	}

	if !s.publish(snap) {
		// A newer cycle already published; drop this one silently.
		logger.Debug().Msg("discarding superseded reconciliation result")
		return snap, nil
	}

	logger.Info().
		Str("outcome", string(result.Outcome)).
		Int("samples", len(result.Series.Samples)).
		Int("matched", result.MatchedSamples).
		Int("estimated", result.EstimatedSamples).
		Str("station", stationName).
		Msg("reconciliation cycle published")

	s.record(ctx, logger, snap)
	return snap, nil
}

// fetchObservations discovers the nearest station and pulls its records.
// Every failure mode collapses to nil observations so the pipeline can fall
// back to estimation instead of erroring.
func (s *Service) fetchObservations(ctx context.Context, logger zerolog.Logger, lat, lon float64) ([]wind.ObservationRecord, string) {
	if s.stations == nil {
		return nil, ""
	}

	station, err := s.stations.NearestStation(ctx, lat, lon)
	if err != nil {
		logger.Warn().Err(err).Str("provider", s.stations.Name()).Msg("station discovery failed, falling back to estimation")
		return nil, ""
	}

	observations, err := s.stations.Observations(ctx, station.ID)
	if err != nil {
		logger.Warn().Err(err).Str("station", station.ID).Msg("observation fetch failed, falling back to estimation")
		return nil, station.Name
	}

	return observations, station.Name
}

// publish swaps the snapshot in unless a newer generation got there first.
func (s *Service) publish(snap *Snapshot) bool {
	for {
		current := s.snapshot.Load()
		if current != nil && current.Generation > snap.Generation {
			return false
		}
		if s.snapshot.CompareAndSwap(current, snap) {
			return true
		}
	}
}

func (s *Service) record(ctx context.Context, logger zerolog.Logger, snap *Snapshot) {
	if s.recorder == nil {
		return
	}
	cycle := Cycle{
		ID:               uuid.New(),
		Lat:              snap.Lat,
		Lon:              snap.Lon,
		Outcome:          snap.Result.Outcome,
		StationName:      snap.StationName,
		SampleCount:      len(snap.Result.Series.Samples),
		MatchedSamples:   snap.Result.MatchedSamples,
		EstimatedSamples: snap.Result.EstimatedSamples,
		FetchedAt:        snap.FetchedAt,
	}
	if err := s.recorder.RecordCycle(ctx, cycle); err != nil {
		// Persistence is best effort; the snapshot is already live.
		logger.Warn().Err(err).Msg("failed to record reconciliation cycle")
	}
}
