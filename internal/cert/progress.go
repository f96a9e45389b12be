package cert

import (
	"context"
	"log/slog"
	"math"
)

// JobProgress is the single durable snapshot of a job's completion state,
// overwritten in place and polled by a separate consumer.
type JobProgress struct {
	PercentComplete float64
	TotalCandidates int
	ProcessedCount  int
}

// NewProgress derives a progress snapshot from the raw counters.
// PercentComplete carries two-decimal precision and is 0 when the total is 0.
func NewProgress(total, processed int) JobProgress {
	p := JobProgress{
		TotalCandidates: total,
		ProcessedCount:  processed,
	}
	if total > 0 {
		p.PercentComplete = math.Round(float64(processed)/float64(total)*10000) / 100
	}
	return p
}

// ProgressSink persists the progress record. The sink holds at most one
// job's progress at a time.
type ProgressSink interface {
	Store(ctx context.Context, p JobProgress) error
	Load(ctx context.Context) (JobProgress, error)
}

// Reporter writes progress through to a durable sink as the job advances
// and serves it back to polling callers.
type Reporter struct {
	sink   ProgressSink
	logger *slog.Logger
}

func NewReporter(sink ProgressSink, logger *slog.Logger) *Reporter {
	return &Reporter{sink: sink, logger: logger}
}

// Publish overwrites the progress record. The orchestrator is the only
// writer, so no locking is needed; the sink's store must be atomic.
func (r *Reporter) Publish(ctx context.Context, p JobProgress) error {
	if err := r.sink.Store(ctx, p); err != nil {
		r.logger.Warn("Failed to publish progress",
			slog.Int("total_candidates", p.TotalCandidates),
			slog.Int("processed_count", p.ProcessedCount),
			slog.Any("error", err),
		)
		return err
	}

	r.logger.Debug("Progress published",
		slog.Int("total_candidates", p.TotalCandidates),
		slog.Int("processed_count", p.ProcessedCount),
		slog.Float64("percent_complete", p.PercentComplete),
	)
	return nil
}

// Fetch returns the last published progress, or ErrNoProgress before any
// job has ever run.
func (r *Reporter) Fetch(ctx context.Context) (JobProgress, error) {
	return r.sink.Load(ctx)
}
