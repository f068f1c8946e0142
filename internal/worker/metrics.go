package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reconciliation loop.
type Metrics struct {
	CyclesTotal        *prometheus.CounterVec // labels: outcome={MERGED,MERGED_WITH_ESTIMATION_FILL,FULLY_ESTIMATED,error}
	CycleDuration      prometheus.Histogram
	SnapshotGeneration prometheus.Gauge
	RefresherRunning   prometheus.Gauge
}

// NewMetrics creates and registers all worker metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.SnapshotGeneration,
		m.RefresherRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "windlens",
			Name:      "reconcile_cycles_total",
			Help:      "Completed reconciliation cycles by outcome.",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windlens",
			Name:      "reconcile_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-merge-publish cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windlens",
			Name:      "snapshot_generation",
			Help:      "Generation counter of the published snapshot.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windlens",
			Name:      "refresher_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
	}
}
