package domain

import "time"

// Job is a claimed certificate batch as the worker sees it.
type Job struct {
	JobID       string
	SheetID     string
	SheetRange  string
	WebinarName string
	SessionDate time.Time
	OrganizedBy string
	Status      string
	WorkerID    string
}

// JobMessage represents a job message from RabbitMQ
type JobMessage struct {
	JobID       string `json:"job_id"`
	DeliveryTag uint64 `json:"-"`
}
