package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/windlens/windlens/internal/reconcile"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL cycle repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// RecordCycle persists one completed reconciliation cycle.
func (r *PostgresRepository) RecordCycle(ctx context.Context, cycle reconcile.Cycle) error {
	query := `
		INSERT INTO reconciliation_cycles (
			id, lat, lon, outcome, station_name,
			sample_count, matched_samples, estimated_samples,
			fetched_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		cycle.ID,
		cycle.Lat,
		cycle.Lon,
		string(cycle.Outcome),
		cycle.StationName,
		cycle.SampleCount,
		cycle.MatchedSamples,
		cycle.EstimatedSamples,
		cycle.FetchedAt,
		time.Now().UTC(),
	)
	return err
}

// Get retrieves a cycle record by ID.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*CycleRecord, error) {
	query := `
		SELECT
			id, lat, lon, outcome, station_name,
			sample_count, matched_samples, estimated_samples,
			fetched_at, created_at
		FROM reconciliation_cycles
		WHERE id = $1
	`

	var record CycleRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Lat,
		&record.Lon,
		&record.Outcome,
		&record.StationName,
		&record.SampleCount,
		&record.MatchedSamples,
		&record.EstimatedSamples,
		&record.FetchedAt,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	return &record, nil
}

// Recent retrieves the most recent cycle records, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, opts ListOptions) ([]CycleRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT
			id, lat, lon, outcome, station_name,
			sample_count, matched_samples, estimated_samples,
			fetched_at, created_at
		FROM reconciliation_cycles
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var record CycleRecord
		err := rows.Scan(
			&record.ID,
			&record.Lat,
			&record.Lon,
			&record.Outcome,
			&record.StationName,
			&record.SampleCount,
			&record.MatchedSamples,
			&record.EstimatedSamples,
			&record.FetchedAt,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
