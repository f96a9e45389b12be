package model

import "time"

// CertificateJob is one submitted certificate-generation batch.
type CertificateJob struct {
	JobID           string    `db:"job_id"`
	SheetID         string    `db:"sheet_id"`
	SheetRange      string    `db:"sheet_range"`
	WebinarName     string    `db:"webinar_name"`
	SessionDate     time.Time `db:"session_date"`
	OrganizedBy     string    `db:"organized_by"`
	Status          string    `db:"status"`
	TotalCandidates int       `db:"total_candidates"`
	ProcessedCount  int       `db:"processed_count"`
	ErrorMessage    string    `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
