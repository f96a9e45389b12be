package handler

import (
	"context"
	"log/slog"

	"github.com/luneblaze/certgen/internal/api/model"
	"github.com/luneblaze/certgen/internal/api/storage"
	"github.com/luneblaze/certgen/internal/cert"
)

// JobStore is the slice of storage the handlers need.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.CertificateJob) error
	GetJobByID(ctx context.Context, jobID string) (*model.CertificateJob, error)
	UpdateJobStatus(ctx context.Context, jobID, status, errorMsg string) error
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.CertificateJob, error)
	GetProgress(ctx context.Context) (cert.JobProgress, error)
}

// JobPublisher hands a submitted job to the worker queue.
type JobPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Store     JobStore
	Publisher JobPublisher
}

// CertificateHandler handles certificate job HTTP requests
type CertificateHandler struct {
	logger    *slog.Logger
	store     JobStore
	publisher JobPublisher
}

// NewCertificateHandler creates a new CertificateHandler instance
func NewCertificateHandler(deps *Dependencies) *CertificateHandler {
	return &CertificateHandler{
		logger:    deps.Logger,
		store:     deps.Store,
		publisher: deps.Publisher,
	}
}
