package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlens/windlens/internal/history"
	"github.com/windlens/windlens/internal/reconcile"
)

func newCycle(outcome reconcile.Outcome) reconcile.Cycle {
	return reconcile.Cycle{
		ID:          uuid.New(),
		Lat:         52.37,
		Lon:         4.89,
		Outcome:     outcome,
		StationName: "EHAM",
		SampleCount: 48,
		FetchedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInMemoryRepository_RecordAndGet(t *testing.T) {
	repo := history.NewInMemoryRepository()
	cycle := newCycle(reconcile.OutcomeMerged)

	require.NoError(t, repo.RecordCycle(context.Background(), cycle))

	record, err := repo.Get(context.Background(), cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, cycle.ID, record.ID)
	assert.Equal(t, reconcile.OutcomeMerged, record.Outcome)
	assert.Equal(t, "EHAM", record.StationName)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestInMemoryRepository_GetMissing(t *testing.T) {
	repo := history.NewInMemoryRepository()

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, history.ErrCycleNotFound)
}

func TestInMemoryRepository_RecentNewestFirst(t *testing.T) {
	repo := history.NewInMemoryRepository()

	first := newCycle(reconcile.OutcomeFullyEstimated)
	second := newCycle(reconcile.OutcomeMerged)
	require.NoError(t, repo.RecordCycle(context.Background(), first))
	require.NoError(t, repo.RecordCycle(context.Background(), second))

	records, err := repo.Recent(context.Background(), history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestInMemoryRepository_RecentHonorsLimit(t *testing.T) {
	repo := history.NewInMemoryRepository()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordCycle(context.Background(), newCycle(reconcile.OutcomeMerged)))
	}

	records, err := repo.Recent(context.Background(), history.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
