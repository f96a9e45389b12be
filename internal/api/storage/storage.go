package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/luneblaze/certgen/internal/api/domain"
	"github.com/luneblaze/certgen/internal/api/model"
	"github.com/luneblaze/certgen/internal/cert"
	"github.com/luneblaze/certgen/shared/postgresql"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateJob(ctx context.Context, job *model.CertificateJob) error {
	query := `
		INSERT INTO certificate_jobs (
			job_id, sheet_id, sheet_range, webinar_name,
			session_date, organized_by, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.SheetID,
		job.SheetRange,
		job.WebinarName,
		job.SessionDate,
		job.OrganizedBy,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create certificate job: %w", err)
	}

	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.CertificateJob, error) {
	var job model.CertificateJob
	query := `
		SELECT
			job_id, sheet_id, sheet_range, webinar_name,
			session_date, organized_by, status, total_candidates,
			processed_count, error_message, created_at, updated_at
		FROM certificate_jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get certificate job: %w", err)
	}

	return &job, nil
}

// UpdateJobStatus marks a job's terminal state from the API side, used when
// the queue publish fails after the record was created.
func (s *Storage) UpdateJobStatus(ctx context.Context, jobID, status, errorMsg string) error {
	query := `
		UPDATE certificate_jobs
		SET status = $1,
		    error_message = $2,
		    updated_at = NOW()
		WHERE job_id = $3
	`

	_, err := s.db.ExecContext(ctx, query, status, errorMsg, jobID)
	if err != nil {
		return fmt.Errorf("failed to update certificate job status: %w", err)
	}

	return nil
}

type JobFilter struct {
	Status   string
	PageSize int
	Cursor   *JobCursor
}

type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.CertificateJob, error) {
	query := `
        SELECT
            job_id, sheet_id, sheet_range, webinar_name,
            session_date, organized_by, status, total_candidates,
            processed_count, error_message, created_at, updated_at
        FROM certificate_jobs
        WHERE 1=1
    `
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order by created_at DESC, job_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, job_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []model.CertificateJob
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificate jobs: %w", err)
	}

	return jobs, nil
}

// GetProgress reads the single progress record the worker overwrites as the
// active job advances.
func (s *Storage) GetProgress(ctx context.Context) (cert.JobProgress, error) {
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

	err := s.db.GetContext(ctx, &row, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cert.JobProgress{}, cert.ErrNoProgress
		}
		return cert.JobProgress{}, fmt.Errorf("failed to get progress: %w", err)
	}

	return cert.JobProgress{
		PercentComplete: row.PercentComplete,
		TotalCandidates: row.TotalCandidates,
		ProcessedCount:  row.ProcessedCount,
	}, nil
}
