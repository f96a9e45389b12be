package dto

type GenerateCertificatesRequest struct {
	SheetID     string `json:"sheet_id" binding:"required"`
	SheetRange  string `json:"sheet_range" binding:"required"`
	WebinarName string `json:"webinar_name" binding:"required"`
	SessionDate string `json:"session_date" binding:"required"` // YYYY-MM-DD
	OrganizedBy string `json:"organized_by" binding:"required"`
}

type ListJobsRequest struct {
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []CertificateJobDTO `json:"jobs"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

type CertificateJobDTO struct {
	JobID           string `json:"job_id"`
	SheetID         string `json:"sheet_id"`
	SheetRange      string `json:"sheet_range"`
	WebinarName     string `json:"webinar_name"`
	SessionDate     string `json:"session_date"`
	OrganizedBy     string `json:"organized_by"`
	Status          string `json:"status"`
	TotalCandidates int    `json:"total_candidates"`
	ProcessedCount  int    `json:"processed_count"`
	ErrorMessage    string `json:"error_message,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ProgressResponse struct {
	PercentComplete float64 `json:"percent_complete"`
	TotalCandidates int     `json:"total_candidates"`
	ProcessedCount  int     `json:"processed_count"`
}
