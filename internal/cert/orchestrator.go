package cert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RowSource fetches the ordered rows of the source range. The first row is
// a header and is always excluded from candidate counting.
type RowSource interface {
	FetchRows(ctx context.Context, sheetID, rangeName string) ([][]string, error)
}

// RowStatus tags the outcome of one row.
type RowStatus string

const (
	RowCompleted RowStatus = "COMPLETED"
	RowSkipped   RowStatus = "SKIPPED"
	RowFailed    RowStatus = "FAILED"
)

// RowOutcome records what happened to one row, for the per-job outcome log.
type RowOutcome struct {
	Row      int // 1-based position in the source range, header included
	Attendee string
	Status   RowStatus
	Reason   string
}

// Summary is the aggregate result of one job.
type Summary struct {
	TotalCandidates int
	ProcessedCount  int
	Outcomes        []RowOutcome
}

// Orchestrator turns the source range into a sequence of per-attendee
// render-and-deliver operations, paced against the remote API's rate
// limits, with progress published after every completed row.
type Orchestrator struct {
	source     RowSource
	renderer   *Renderer
	dispatcher *Dispatcher
	reporter   *Reporter
	mapping    ColumnMapping
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Config wires the orchestrator's collaborators. RowDelay is the fixed
// inter-row pacing delay; zero disables pacing.
type Config struct {
	Source     RowSource
	Renderer   *Renderer
	Dispatcher *Dispatcher
	Reporter   *Reporter
	Mapping    ColumnMapping
	RowDelay   time.Duration
	Logger     *slog.Logger
}

func NewOrchestrator(cfg *Config) *Orchestrator {
	limit := rate.Inf
	if cfg.RowDelay > 0 {
		limit = rate.Every(cfg.RowDelay)
	}

	return &Orchestrator{
		source:     cfg.Source,
		renderer:   cfg.Renderer,
		dispatcher: cfg.Dispatcher,
		reporter:   cfg.Reporter,
		mapping:    cfg.Mapping,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     cfg.Logger,
	}
}

// Run processes every row of the source range in order. Row-scoped failures
// (skip, render, delivery) are collected into the outcome log and the batch
// continues; only an unreadable source range or a canceled context aborts
// the job. On completion the progress record is reset to the zero state and
// the aggregate summary is returned.
func (o *Orchestrator) Run(ctx context.Context, params JobParameters) (*Summary, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rows, err := o.source.FetchRows(ctx, params.SheetID, params.SheetRange)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	if len(rows) == 0 {
		return nil, &SourceError{Err: errors.New("no data found in source range")}
	}

	total := len(rows) - 1
	summary := &Summary{
		TotalCandidates: total,
		Outcomes:        make([]RowOutcome, 0, total),
	}

	o.logger.Info("Certificate batch started",
		slog.String("webinar", params.WebinarName),
		slog.Int("total_candidates", total),
	)

	// Fresh progress state before the first row, so a poller never sees the
	// previous job's numbers once this one is underway.
	_ = o.reporter.Publish(ctx, NewProgress(total, 0))

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		// Timed yield between remote-API-driven rows. The first wait is free
		// because the limiter starts with a full token.
		if err := o.limiter.Wait(ctx); err != nil {
			return summary, fmt.Errorf("batch aborted: %w", err)
		}

		attendee, skipReason := NormalizeRow(row, o.mapping)
		if attendee == nil {
			o.logger.Info("Skipping row",
				slog.Int("row", rowNum),
				slog.String("reason", skipReason),
			)
			summary.Outcomes = append(summary.Outcomes, RowOutcome{
				Row:    rowNum,
				Status: RowSkipped,
				Reason: skipReason,
			})
			continue
		}

		o.logger.Info("Generating certificate",
			slog.Int("row", rowNum),
			slog.String("attendee", attendee.Name),
			slog.Int("processed", summary.ProcessedCount),
			slog.Int("total_candidates", total),
		)

		if err := o.processRow(ctx, params, attendee); err != nil {
			o.logger.Error("Row failed",
				slog.Int("row", rowNum),
				slog.String("attendee", attendee.Name),
				slog.Any("error", err),
			)
			summary.Outcomes = append(summary.Outcomes, RowOutcome{
				Row:      rowNum,
				Attendee: attendee.Name,
				Status:   RowFailed,
				Reason:   err.Error(),
			})
			continue
		}

		summary.ProcessedCount++
		summary.Outcomes = append(summary.Outcomes, RowOutcome{
			Row:      rowNum,
			Attendee: attendee.Name,
			Status:   RowCompleted,
		})
		_ = o.reporter.Publish(ctx, NewProgress(total, summary.ProcessedCount))
	}

	// Reset after finish so the next poll observes the zero state.
	_ = o.reporter.Publish(ctx, NewProgress(0, 0))

	o.logger.Info("Certificate batch completed",
		slog.String("webinar", params.WebinarName),
		slog.Int("total_candidates", summary.TotalCandidates),
		slog.Int("processed_count", summary.ProcessedCount),
	)

	return summary, nil
}

// processRow renders and delivers one certificate.
func (o *Orchestrator) processRow(ctx context.Context, params JobParameters, attendee *AttendeeRecord) error {
	subs := BuildSubstitutions(params, *attendee)

	pdf, err := o.renderer.Render(ctx, attendee, subs)
	if err != nil {
		return err
	}

	return o.dispatcher.Deliver(ctx, attendee, params, pdf)
}
