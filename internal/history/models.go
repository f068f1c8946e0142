// Package history persists summaries of completed reconciliation cycles so
// operators can audit how the merged series was produced over time.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/windlens/windlens/internal/reconcile"
)

// History errors.
var (
	// ErrCycleNotFound is returned when a cycle record doesn't exist.
	ErrCycleNotFound = errors.New("cycle not found")
)

// CycleRecord is a persisted reconciliation cycle summary.
type CycleRecord struct {
	ID               uuid.UUID         `json:"id"`
	Lat              float64           `json:"lat"`
	Lon              float64           `json:"lon"`
	Outcome          reconcile.Outcome `json:"outcome"`
	StationName      string            `json:"station_name,omitempty"`
	SampleCount      int               `json:"sample_count"`
	MatchedSamples   int               `json:"matched_samples"`
	EstimatedSamples int               `json:"estimated_samples"`
	FetchedAt        time.Time         `json:"fetched_at"`
	CreatedAt        time.Time         `json:"created_at"`
}

// recordFromCycle converts a completed cycle into its persisted form.
func recordFromCycle(cycle reconcile.Cycle, createdAt time.Time) CycleRecord {
	return CycleRecord{
		ID:               cycle.ID,
		Lat:              cycle.Lat,
		Lon:              cycle.Lon,
		Outcome:          cycle.Outcome,
		StationName:      cycle.StationName,
		SampleCount:      cycle.SampleCount,
		MatchedSamples:   cycle.MatchedSamples,
		EstimatedSamples: cycle.EstimatedSamples,
		FetchedAt:        cycle.FetchedAt,
		CreatedAt:        createdAt,
	}
}
