package domain

import (
	"errors"
)

const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

var (
	ErrJobNotFound = errors.New("certificate job not found")
)
