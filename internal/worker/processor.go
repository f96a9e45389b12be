package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luneblaze/certgen/internal/cert"
	"github.com/luneblaze/certgen/internal/worker/domain"
)

const heartbeatInterval = 30 * time.Second

// processJob claims one certificate job and runs the batch with a timeout,
// heartbeats, and a terminal status update.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing job",
		slog.String("job_id", msg.JobID),
		slog.String("worker_id", w.workerID),
	)

	// Claim job (PENDING → RUNNING)
	job, err := w.storage.ClaimJob(ctx, msg.JobID, w.workerID)
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyClaimed) {
			w.logger.Warn("Job already claimed, skipping",
				slog.String("job_id", msg.JobID),
			)
			return fmt.Errorf("job already claimed: %w", err)
		}
		// Database error - could be transient, safe to requeue because the
		// batch never started
		w.logger.Error("Failed to claim job",
			slog.String("job_id", msg.JobID),
			slog.String("error", err.Error()),
		)
		return domain.NewRetryableError(fmt.Errorf("failed to claim job: %w", err))
	}

	params := cert.JobParameters{
		SheetID:     job.SheetID,
		SheetRange:  job.SheetRange,
		WebinarName: job.WebinarName,
		SessionDate: job.SessionDate,
		OrganizedBy: job.OrganizedBy,
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	heartbeatDone := make(chan struct{})
	go w.sendJobHeartbeat(jobCtx, job.JobID, heartbeatDone)
	defer close(heartbeatDone)

	summary, err := w.runner.Run(jobCtx, params)

	if err != nil {
		w.logger.Error("Certificate batch failed",
			slog.String("job_id", job.JobID),
			slog.String("webinar", job.WebinarName),
			slog.String("error", err.Error()),
		)

		total, processed := 0, 0
		if summary != nil {
			total = summary.TotalCandidates
			processed = summary.ProcessedCount
		}

		if updateErr := w.storage.FinishJob(ctx, job.JobID, domain.JobStatusFailed, total, processed, err.Error()); updateErr != nil {
			w.logger.Error("Failed to update job status to FAILED",
				slog.String("job_id", job.JobID),
				slog.String("error", updateErr.Error()),
			)
		}

		// Never requeue a started batch: some certificates may already be in
		// attendees' inboxes
		return fmt.Errorf("certificate batch failed: %w", err)
	}

	w.logRowOutcomes(job.JobID, summary)

	if updateErr := w.storage.FinishJob(ctx, job.JobID, domain.JobStatusCompleted, summary.TotalCandidates, summary.ProcessedCount, ""); updateErr != nil {
		w.logger.Error("Failed to update job status to COMPLETED",
			slog.String("job_id", job.JobID),
			slog.String("error", updateErr.Error()),
		)
		// Batch completed; still return success for ACK
	}

	return nil
}

// logRowOutcomes writes the per-row outcome log for a finished batch.
func (w *Worker) logRowOutcomes(jobID string, summary *cert.Summary) {
	for _, outcome := range summary.Outcomes {
		attrs := []any{
			slog.String("job_id", jobID),
			slog.Int("row", outcome.Row),
			slog.String("status", string(outcome.Status)),
		}
		if outcome.Attendee != "" {
			attrs = append(attrs, slog.String("attendee", outcome.Attendee))
		}
		if outcome.Reason != "" {
			attrs = append(attrs, slog.String("reason", outcome.Reason))
		}

		switch outcome.Status {
		case cert.RowCompleted:
			w.logger.Info("Row outcome", attrs...)
		default:
			w.logger.Warn("Row outcome", attrs...)
		}
	}
}

// sendJobHeartbeat periodically updates the job's heartbeat timestamp
func (w *Worker) sendJobHeartbeat(ctx context.Context, jobID string, done <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := w.storage.UpdateJobHeartbeat(ctx, jobID); err != nil {
				w.logger.Warn("Failed to update job heartbeat",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
