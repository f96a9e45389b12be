package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luneblaze/certgen/internal/cert"
	"github.com/luneblaze/certgen/internal/worker/domain"
	"github.com/luneblaze/certgen/internal/worker/storage"
	"github.com/luneblaze/certgen/shared/rabbitmq"
)

// BatchRunner executes one certificate batch end to end.
type BatchRunner interface {
	Run(ctx context.Context, params cert.JobParameters) (*cert.Summary, error)
}

// JobStorage is the slice of storage the worker needs.
type JobStorage interface {
	ClaimJob(ctx context.Context, jobID, workerID string) (*domain.Job, error)
	FinishJob(ctx context.Context, jobID, status string, totalCandidates, processedCount int, errorMsg string) error
	UpdateJobHeartbeat(ctx context.Context, jobID string) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Storage       *storage.Storage
	RabbitClient  *rabbitmq.Client
	Runner        BatchRunner
	Concurrency   int
	JobTimeout    time.Duration
	PrefetchCount int
	QueueName     string
}

// Worker consumes certificate job messages and runs the batches. Concurrency
// is fixed at one: the progress record holds a single job's state and the
// remote API is rate limited.
type Worker struct {
	logger        *slog.Logger
	storage       JobStorage
	rabbitClient  *rabbitmq.Client
	runner        BatchRunner
	concurrency   int
	jobTimeout    time.Duration
	prefetchCount int
	queueName     string
	workerID      string
	jobsChan      chan *domain.JobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		storage:       cfg.Storage,
		rabbitClient:  cfg.RabbitClient,
		runner:        cfg.Runner,
		concurrency:   cfg.Concurrency,
		jobTimeout:    cfg.JobTimeout,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		workerID:      fmt.Sprintf("certgen-worker-%s", uuid.New().String()[:8]),
		jobsChan:      make(chan *domain.JobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing jobs. It blocks until the context is
// canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)

	go w.startMessageDispatcher(ctx, deliveries)

	<-ctx.Done()
	w.logger.Info("Worker context canceled, stopping...")

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
