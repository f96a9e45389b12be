package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/luneblaze/certgen/internal/cert"
)

// ProgressStore persists the single shared progress record the API polls.
// The worker overwrites it after every completed row; only one batch runs at
// a time, so one row is all the table ever holds.
type ProgressStore struct {
	db *sqlx.DB
}

func NewProgressStore(db *sqlx.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

// Store upserts the progress record.
func (p *ProgressStore) Store(ctx context.Context, progress cert.JobProgress) error {
	query := `
		INSERT INTO job_progress (id, percent_complete, total_candidates, processed_count, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET percent_complete = EXCLUDED.percent_complete,
		    total_candidates = EXCLUDED.total_candidates,
		    processed_count = EXCLUDED.processed_count,
		    updated_at = NOW()
	`

	_, err := p.db.ExecContext(ctx, query, progress.PercentComplete, progress.TotalCandidates, progress.ProcessedCount)
	if err != nil {
		return fmt.Errorf("failed to store progress: %w", err)
	}

	return nil
}

// Load reads the progress record back.
func (p *ProgressStore) Load(ctx context.Context) (cert.JobProgress, error) {
	var row struct {
		PercentComplete float64 `db:"percent_complete"`
		TotalCandidates int     `db:"total_candidates"`
		ProcessedCount  int     `db:"processed_count"`
	}

	query := `
		SELECT percent_complete, total_candidates, processed_count
		FROM job_progress
		WHERE id = 1
	`

	err := p.db.GetContext(ctx, &row, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cert.JobProgress{}, cert.ErrNoProgress
		}
		return cert.JobProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}

	return cert.JobProgress{
		PercentComplete: row.PercentComplete,
		TotalCandidates: row.TotalCandidates,
		ProcessedCount:  row.ProcessedCount,
	}, nil
}
