package cert

import "strings"

// AttendeeRecord holds one row's validated fields. Immutable once built.
type AttendeeRecord struct {
	Name              string
	Email             string
	SchoolName        string
	CertificateNumber string
	Location          string // optional
}

// ColumnMapping maps zero-based cell positions to attendee fields. The
// layout is a per-deployment choice carried in configuration.
type ColumnMapping struct {
	Name              int `yaml:"name"`
	Email             int `yaml:"email"`
	SchoolName        int `yaml:"school_name"`
	Location          int `yaml:"location"`
	CertificateNumber int `yaml:"certificate_number"`
}

// DefaultColumnMapping matches the registration sheet layout: column 0 is a
// timestamp, then name, email, two reserved columns, school, location and
// certificate number.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Name:              1,
		Email:             2,
		SchoolName:        4,
		Location:          5,
		CertificateNumber: 6,
	}
}

// NormalizeRow extracts an AttendeeRecord from a raw row. When any required
// field is empty after trimming, it returns a nil record and the skip
// reason. Malformed rows are never an error: they count toward the
// candidate total but not toward the processed count.
func NormalizeRow(row []string, mapping ColumnMapping) (*AttendeeRecord, string) {
	rec := &AttendeeRecord{
		Name:              cellAt(row, mapping.Name),
		Email:             cellAt(row, mapping.Email),
		SchoolName:        strings.ToUpper(cellAt(row, mapping.SchoolName)),
		Location:          strings.ToUpper(cellAt(row, mapping.Location)),
		CertificateNumber: strings.ToUpper(cellAt(row, mapping.CertificateNumber)),
	}

	switch {
	case rec.Name == "":
		return nil, "missing name"
	case rec.Email == "":
		return nil, "missing email"
	case rec.SchoolName == "":
		return nil, "missing school name"
	case rec.CertificateNumber == "":
		return nil, "missing certificate number"
	}

	return rec, ""
}

// cellAt returns the trimmed cell value at idx, or "" when the row is
// shorter than the mapping expects.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
