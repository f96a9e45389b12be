package cert

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is returned when a required job parameter is absent.
	// The job never starts and no progress record is written.
	ErrMissingParameter = errors.New("missing job parameter")

	// ErrNoProgress is returned by the progress reporter before any job has run.
	ErrNoProgress = errors.New("no progress recorded")
)

// SourceError wraps a failure to read the source range. It aborts the whole
// job before any row is processed.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return "source data: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// RenderError is a row-scoped templating failure carrying the attendee
// identity and the stage that failed.
type RenderError struct {
	Attendee string
	Stage    string // duplicate, substitute, export
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render certificate for %s: %s: %v", e.Attendee, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// DeliveryError is a row-scoped mail failure. The certificate was rendered
// but never reached the attendee.
type DeliveryError struct {
	Attendee string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver certificate to %s: %v", e.Attendee, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
