package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luneblaze/certgen/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "certificate-api-service",
		})
	})

	certificateHandler := handler.NewCertificateHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		certificates := v1.Group("/certificates")
		{
			// POST /api/v1/certificates - Submit a certificate generation job
			certificates.POST("", certificateHandler.GenerateCertificates)

			// GET /api/v1/certificates/progress - Poll the active job's progress
			certificates.GET("/progress", certificateHandler.GetProgress)

			// GET /api/v1/certificates/jobs - List jobs with filtering and pagination
			certificates.GET("/jobs", certificateHandler.ListJobs)

			// GET /api/v1/certificates/jobs/:job_id - Get job details
			certificates.GET("/jobs/:job_id", certificateHandler.GetJob)
		}
	}

	return r
}
