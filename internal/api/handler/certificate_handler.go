package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luneblaze/certgen/internal/api/domain"
	"github.com/luneblaze/certgen/internal/api/dto"
	"github.com/luneblaze/certgen/internal/api/model"
	"github.com/luneblaze/certgen/internal/api/storage"
	"github.com/luneblaze/certgen/internal/cert"
)

const sessionDateLayout = "2006-01-02"

// GenerateCertificates handles POST /api/v1/certificates
// Validates the job parameters, persists the job record and hands it to the
// worker queue. The response returns immediately; the batch runs in the
// worker service.
func (h *CertificateHandler) GenerateCertificates(c *gin.Context) {
	var req dto.GenerateCertificatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid certificate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "One or more parameters are missing.",
		})
		return
	}

	sessionDate, err := time.Parse(sessionDateLayout, req.SessionDate)
	if err != nil {
		h.logger.Error("Invalid session date",
			slog.String("session_date", req.SessionDate),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "session_date must be in YYYY-MM-DD format",
		})
		return
	}

	job := model.CertificateJob{
		JobID:       uuid.New().String(),
		SheetID:     req.SheetID,
		SheetRange:  req.SheetRange,
		WebinarName: req.WebinarName,
		SessionDate: sessionDate,
		OrganizedBy: req.OrganizedBy,
		Status:      domain.JobStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.store.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create certificate job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Failed to create certificate job",
		})
		return
	}

	body, _ := json.Marshal(gin.H{"job_id": job.JobID})
	if err := h.publisher.PublishWithRetry(c.Request.Context(), body, "application/json"); err != nil {
		h.logger.Error("Failed to enqueue certificate job",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		if updateErr := h.store.UpdateJobStatus(c.Request.Context(), job.JobID, domain.JobStatusFailed, "failed to enqueue job"); updateErr != nil {
			h.logger.Error("Failed to mark job as failed",
				slog.String("job_id", job.JobID),
				slog.String("error", updateErr.Error()),
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Failed to enqueue certificate job",
		})
		return
	}

	h.logger.Info("Certificate job submitted",
		slog.String("job_id", job.JobID),
		slog.String("webinar", job.WebinarName),
	)

	c.JSON(http.StatusAccepted, gin.H{
		"status": "success",
		"job":    jobToDTO(&job),
	})
}

// GetProgress handles GET /api/v1/certificates/progress
// Returns the active (or last finished) job's progress snapshot.
func (h *CertificateHandler) GetProgress(c *gin.Context) {
	progress, err := h.store.GetProgress(c.Request.Context())
	if err != nil {
		if errors.Is(err, cert.ErrNoProgress) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "no certificate job has run yet",
			})
			return
		}
		h.logger.Error("Failed to fetch progress", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch progress",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProgressResponse{
		PercentComplete: progress.PercentComplete,
		TotalCandidates: progress.TotalCandidates,
		ProcessedCount:  progress.ProcessedCount,
	})
}

// GetJob handles GET /api/v1/certificates/jobs/:job_id
func (h *CertificateHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "certificate job not found",
			})
			return
		}
		h.logger.Error("Failed to get certificate job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get certificate job",
		})
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// ListJobs handles GET /api/v1/certificates/jobs
// Lists jobs with optional status filtering and cursor pagination.
func (h *CertificateHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), storage.JobFilter{
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list certificate jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list certificate jobs",
		})
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	jobResponse := make([]dto.CertificateJobDTO, len(jobs))
	for i, job := range jobs {
		jobResponse[i] = jobToDTO(&job)
	}

	var nextCursor string
	if hasMore {
		lastJob := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: lastJob.CreatedAt,
			JobID:     lastJob.JobID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobResponse,
		NextCursor: nextCursor,
	})
}

func jobToDTO(job *model.CertificateJob) dto.CertificateJobDTO {
	return dto.CertificateJobDTO{
		JobID:           job.JobID,
		SheetID:         job.SheetID,
		SheetRange:      job.SheetRange,
		WebinarName:     job.WebinarName,
		SessionDate:     job.SessionDate.Format(sessionDateLayout),
		OrganizedBy:     job.OrganizedBy,
		Status:          job.Status,
		TotalCandidates: job.TotalCandidates,
		ProcessedCount:  job.ProcessedCount,
		ErrorMessage:    job.ErrorMessage,
		CreatedAt:       job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       job.UpdatedAt.Format(time.RFC3339),
	}
}
