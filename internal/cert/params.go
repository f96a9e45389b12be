package cert

import (
	"fmt"
	"time"
)

// JobParameters are caller-supplied and immutable for the duration of one
// job.
type JobParameters struct {
	SheetID     string
	SheetRange  string
	WebinarName string
	SessionDate time.Time
	OrganizedBy string
}

// Validate checks every required parameter for presence. A missing field is
// a precondition failure: the job never starts.
func (p JobParameters) Validate() error {
	switch {
	case p.SheetID == "":
		return fmt.Errorf("%w: sheet_id", ErrMissingParameter)
	case p.SheetRange == "":
		return fmt.Errorf("%w: sheet_range", ErrMissingParameter)
	case p.WebinarName == "":
		return fmt.Errorf("%w: webinar_name", ErrMissingParameter)
	case p.SessionDate.IsZero():
		return fmt.Errorf("%w: session_date", ErrMissingParameter)
	case p.OrganizedBy == "":
		return fmt.Errorf("%w: organized_by", ErrMissingParameter)
	}
	return nil
}
