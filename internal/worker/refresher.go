package worker

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/reconcile"
)

// Refresher drives periodic reconciliation cycles for the current target
// location. The target starts at the configured home and can be superseded
// at any time, typically by a Pub/Sub trigger.
type Refresher struct {
	snapshots *reconcile.Service
	config    RefresherConfig
	clock     clockwork.Clock
	logger    zerolog.Logger
	metrics   *Metrics

	mu     sync.Mutex
	target Point
}

// RefresherDeps holds dependencies for the refresher.
type RefresherDeps struct {
	Snapshots *reconcile.Service
	Logger    zerolog.Logger

	// Metrics records cycle outcomes; nil disables recording.
	Metrics *Metrics

	// Clock is the time source; nil uses the real clock. Tests freeze it.
	Clock clockwork.Clock
}

// NewRefresher creates a refresher for the given target configuration.
func NewRefresher(cfg RefresherConfig, deps RefresherDeps) *Refresher {
	cfg = cfg.withDefaults()
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		snapshots: deps.Snapshots,
		config:    cfg,
		clock:     clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		target:    cfg.Home,
	}
}

// SetTarget supersedes the refresh target. The new location takes effect on
// the next cycle; callers wanting an immediate cycle follow up with
// RefreshNow.
func (r *Refresher) SetTarget(p Point) {
	r.mu.Lock()
	r.target = p
	r.mu.Unlock()
}

// Target returns the current refresh target.
func (r *Refresher) Target() Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Run refreshes immediately and then on every interval tick until the
// context is canceled. It always returns the context's error.
func (r *Refresher) Run(ctx context.Context) error {
	if r.metrics != nil {
		r.metrics.RefresherRunning.Set(1)
		defer r.metrics.RefresherRunning.Set(0)
	}

	r.logger.Info().
		Dur("interval", r.config.Interval).
		Float64("lat", r.config.Home.Lat).
		Float64("lon", r.config.Home.Lon).
		Msg("starting refresh loop")

	if err := r.RefreshNow(ctx); err != nil {
		r.logger.Error().Err(err).Msg("initial refresh failed")
	}

	ticker := r.clock.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresh loop stopped")
			return ctx.Err()
		case <-ticker.Chan():
			if err := r.RefreshNow(ctx); err != nil {
				r.logger.Error().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}

// RefreshNow runs one reconciliation cycle for the current target.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	target := r.Target()

	cycleCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := r.clock.Now()
	snap, err := r.snapshots.Refresh(cycleCtx, target.Lat, target.Lon)
	elapsed := r.clock.Since(start)

	if r.metrics != nil {
		r.metrics.CycleDuration.Observe(elapsed.Seconds())
	}
	if err != nil {
		if r.metrics != nil {
			r.metrics.CyclesTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	if r.metrics != nil {
		r.metrics.CyclesTotal.WithLabelValues(string(snap.Result.Outcome)).Inc()
		r.metrics.SnapshotGeneration.Set(float64(snap.Generation))
	}

	r.logger.Info().
		Uint64("generation", snap.Generation).
		Str("outcome", string(snap.Result.Outcome)).
		Dur("duration", elapsed).
		Msg("refresh cycle completed")
	return nil
}
