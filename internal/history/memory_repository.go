package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/windlens/windlens/internal/reconcile"
)

// maxRetainedRecords bounds the in-memory history so long-running processes
// without a database don't grow without limit.
const maxRetainedRecords = 500

// InMemoryRepository is an in-memory implementation of Repository. It is used
// in tests and when the service runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []CycleRecord
}

// NewInMemoryRepository creates a new in-memory cycle repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// RecordCycle persists one completed reconciliation cycle.
func (r *InMemoryRepository) RecordCycle(_ context.Context, cycle reconcile.Cycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, recordFromCycle(cycle, time.Now().UTC()))
	if len(r.records) > maxRetainedRecords {
		r.records = r.records[len(r.records)-maxRetainedRecords:]
	}
	return nil
}

// Get retrieves a cycle record by ID.
func (r *InMemoryRepository) Get(_ context.Context, id uuid.UUID) (*CycleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.records {
		if r.records[i].ID == id {
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, ErrCycleNotFound
}

// Recent retrieves the most recent cycle records, newest first.
func (r *InMemoryRepository) Recent(_ context.Context, opts ListOptions) ([]CycleRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit > len(r.records) {
		limit = len(r.records)
	}

	out := make([]CycleRecord, 0, limit)
	for i := len(r.records) - 1; i >= len(r.records)-limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
