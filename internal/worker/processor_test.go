package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luneblaze/certgen/internal/cert"
	"github.com/luneblaze/certgen/internal/worker/domain"
)

type fakeStorage struct {
	claimErr  error
	finishErr error

	claimedJobID    string
	claimedWorkerID string
	finishedStatus  string
	finishedTotal   int
	finishedCount   int
	finishedErrMsg  string
}

func (f *fakeStorage) ClaimJob(ctx context.Context, jobID, workerID string) (*domain.Job, error) {
	f.claimedJobID = jobID
	f.claimedWorkerID = workerID
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return &domain.Job{
		JobID:       jobID,
		SheetID:     "sheet-1",
		SheetRange:  "Attendees!A1:G100",
		WebinarName: "Scaling Postgres",
		SessionDate: time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC),
		OrganizedBy: "Luneblaze",
		Status:      domain.JobStatusRunning,
		WorkerID:    workerID,
	}, nil
}

func (f *fakeStorage) FinishJob(ctx context.Context, jobID, status string, totalCandidates, processedCount int, errorMsg string) error {
	f.finishedStatus = status
	f.finishedTotal = totalCandidates
	f.finishedCount = processedCount
	f.finishedErrMsg = errorMsg
	return f.finishErr
}

func (f *fakeStorage) UpdateJobHeartbeat(ctx context.Context, jobID string) error {
	return nil
}

type fakeRunner struct {
	summary *cert.Summary
	err     error

	called bool
	params cert.JobParameters
}

func (f *fakeRunner) Run(ctx context.Context, params cert.JobParameters) (*cert.Summary, error) {
	f.called = true
	f.params = params
	return f.summary, f.err
}

func newTestWorker(st JobStorage, runner BatchRunner) *Worker {
	return &Worker{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:    st,
		runner:     runner,
		jobTimeout: time.Minute,
		workerID:   "certgen-worker-test",
	}
}

func TestProcessJob(t *testing.T) {
	msg := &domain.JobMessage{JobID: "b2c7a6ee-7d70-4f4e-9d27-15a2f9b9a001", DeliveryTag: 7}

	t.Run("successful batch marks job completed with counts", func(t *testing.T) {
		st := &fakeStorage{}
		runner := &fakeRunner{
			summary: &cert.Summary{
				TotalCandidates: 3,
				ProcessedCount:  2,
				Outcomes: []cert.RowOutcome{
					{Row: 2, Attendee: "Asha Rao", Status: cert.RowCompleted},
					{Row: 3, Status: cert.RowSkipped, Reason: "missing email"},
					{Row: 4, Attendee: "Minh Tran", Status: cert.RowCompleted},
				},
			},
		}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		require.NoError(t, err)
		assert.True(t, runner.called)
		assert.Equal(t, msg.JobID, st.claimedJobID)
		assert.Equal(t, "certgen-worker-test", st.claimedWorkerID)
		assert.Equal(t, "Scaling Postgres", runner.params.WebinarName)
		assert.Equal(t, domain.JobStatusCompleted, st.finishedStatus)
		assert.Equal(t, 3, st.finishedTotal)
		assert.Equal(t, 2, st.finishedCount)
		assert.Empty(t, st.finishedErrMsg)
	})

	t.Run("already claimed job is not retryable and never runs", func(t *testing.T) {
		st := &fakeStorage{claimErr: domain.ErrJobAlreadyClaimed}
		runner := &fakeRunner{}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrJobAlreadyClaimed)
		assert.False(t, runner.called)
		assert.False(t, w.shouldRequeueJob(err))
	})

	t.Run("transient claim failure requeues", func(t *testing.T) {
		st := &fakeStorage{claimErr: errors.New("connection refused")}
		runner := &fakeRunner{}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		require.Error(t, err)
		assert.False(t, runner.called)
		assert.True(t, w.shouldRequeueJob(err))
	})

	t.Run("failed batch marks job failed and never requeues", func(t *testing.T) {
		st := &fakeStorage{}
		runner := &fakeRunner{
			summary: &cert.Summary{TotalCandidates: 5, ProcessedCount: 2},
			err:     &cert.SourceError{Err: errors.New("range unreadable")},
		}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		require.Error(t, err)
		assert.Equal(t, domain.JobStatusFailed, st.finishedStatus)
		assert.Equal(t, 5, st.finishedTotal)
		assert.Equal(t, 2, st.finishedCount)
		assert.Contains(t, st.finishedErrMsg, "range unreadable")
		// Certificates may already have gone out
		assert.False(t, w.shouldRequeueJob(err))
	})

	t.Run("failed batch with nil summary records zero counts", func(t *testing.T) {
		st := &fakeStorage{}
		runner := &fakeRunner{err: errors.New("boom")}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		require.Error(t, err)
		assert.Equal(t, domain.JobStatusFailed, st.finishedStatus)
		assert.Zero(t, st.finishedTotal)
		assert.Zero(t, st.finishedCount)
	})

	t.Run("finish failure after success still acks", func(t *testing.T) {
		st := &fakeStorage{finishErr: errors.New("db down")}
		runner := &fakeRunner{summary: &cert.Summary{TotalCandidates: 1, ProcessedCount: 1}}
		w := newTestWorker(st, runner)

		err := w.processJob(t.Context(), msg)

		assert.NoError(t, err)
	})
}

func TestShouldRequeueJob(t *testing.T) {
	w := newTestWorker(&fakeStorage{}, &fakeRunner{})

	tests := []struct {
		name    string
		err     error
		requeue bool
	}{
		{
			name:    "already claimed",
			err:     fmt.Errorf("job already claimed: %w", domain.ErrJobAlreadyClaimed),
			requeue: false,
		},
		{
			name:    "retryable error",
			err:     domain.NewRetryableError(errors.New("connection reset")),
			requeue: true,
		},
		{
			name:    "wrapped retryable error",
			err:     fmt.Errorf("claim: %w", domain.NewRetryableError(errors.New("timeout"))),
			requeue: true,
		},
		{
			name:    "unknown error",
			err:     errors.New("something else"),
			requeue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.requeue, w.shouldRequeueJob(tt.err))
		})
	}
}
