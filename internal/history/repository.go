package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/windlens/windlens/internal/reconcile"
)

// ListOptions contains options for listing cycle records.
type ListOptions struct {
	// Limit caps the number of records returned. Zero uses the default of 20.
	Limit int
}

// Repository defines the interface for cycle persistence. It satisfies
// reconcile.CycleRecorder so the reconciliation service can write through it.
type Repository interface {
	// RecordCycle persists one completed reconciliation cycle.
	RecordCycle(ctx context.Context, cycle reconcile.Cycle) error

	// Get retrieves a cycle record by ID.
	// Returns ErrCycleNotFound if no record exists.
	Get(ctx context.Context, id uuid.UUID) (*CycleRecord, error)

	// Recent retrieves the most recent cycle records, newest first.
	Recent(ctx context.Context, opts ListOptions) ([]CycleRecord, error)
}

const defaultListLimit = 20
