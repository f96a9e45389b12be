package cert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRow(t *testing.T) {
	mapping := DefaultColumnMapping()

	tests := []struct {
		name       string
		row        []string
		wantRecord *AttendeeRecord
		wantReason string
	}{
		{
			name: "valid row",
			row:  []string{"2024-03-21", "Asha Verma", "asha@example.com", "x", "Sunrise Public School", "Pune", "lb-0042"},
			wantRecord: &AttendeeRecord{
				Name:              "Asha Verma",
				Email:             "asha@example.com",
				SchoolName:        "SUNRISE PUBLIC SCHOOL",
				Location:          "PUNE",
				CertificateNumber: "LB-0042",
			},
		},
		{
			name:       "missing location is not a skip",
			row:        []string{"", "Asha Verma", "asha@example.com", "", "Sunrise Public School", "", "LB-0042"},
			wantRecord: &AttendeeRecord{Name: "Asha Verma", Email: "asha@example.com", SchoolName: "SUNRISE PUBLIC SCHOOL", CertificateNumber: "LB-0042"},
		},
		{
			name:       "missing name",
			row:        []string{"", "", "asha@example.com", "", "Sunrise Public School", "Pune", "LB-0042"},
			wantReason: "missing name",
		},
		{
			name:       "whitespace only name",
			row:        []string{"", "   ", "asha@example.com", "", "Sunrise Public School", "Pune", "LB-0042"},
			wantReason: "missing name",
		},
		{
			name:       "missing email",
			row:        []string{"", "Asha Verma", "", "", "Sunrise Public School", "Pune", "LB-0042"},
			wantReason: "missing email",
		},
		{
			name:       "missing school name",
			row:        []string{"", "Asha Verma", "asha@example.com", "", "", "Pune", "LB-0042"},
			wantReason: "missing school name",
		},
		{
			name:       "missing certificate number",
			row:        []string{"", "Asha Verma", "asha@example.com", "", "Sunrise Public School", "Pune", ""},
			wantReason: "missing certificate number",
		},
		{
			name:       "row shorter than mapping",
			row:        []string{"", "Asha Verma", "asha@example.com"},
			wantReason: "missing school name",
		},
		{
			name:       "empty row",
			row:        []string{},
			wantReason: "missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, reason := NormalizeRow(tt.row, mapping)

			if tt.wantReason != "" {
				assert.Nil(t, rec)
				assert.Equal(t, tt.wantReason, reason)
			} else {
				require.NotNil(t, rec)
				assert.Empty(t, reason)
				assert.Equal(t, tt.wantRecord, rec)
			}
		})
	}
}

func TestNormalizeRow_CustomMapping(t *testing.T) {
	mapping := ColumnMapping{Name: 0, Email: 1, SchoolName: 2, Location: 3, CertificateNumber: 4}

	rec, reason := NormalizeRow([]string{"Ravi", "ravi@example.com", "dps", "", "cn-1"}, mapping)
	require.NotNil(t, rec)
	assert.Empty(t, reason)
	assert.Equal(t, "DPS", rec.SchoolName)
	assert.Equal(t, "CN-1", rec.CertificateNumber)
	assert.Empty(t, rec.Location)
}
