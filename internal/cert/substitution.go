package cert

// Substitution is one literal-text placeholder replacement, applied to all
// occurrences in the working copy.
type Substitution struct {
	Placeholder string
	Value       string
}

// BuildSubstitutions derives the ordered placeholder map for one attendee.
// Recomputed per row, never persisted. The location placeholder is replaced
// with the empty string when the row carries no location.
func BuildSubstitutions(params JobParameters, attendee AttendeeRecord) []Substitution {
	return []Substitution{
		{Placeholder: "{{Name}}", Value: attendee.Name},
		{Placeholder: "{{SchoolName}}", Value: attendee.SchoolName},
		{Placeholder: "{{WebinarName}}", Value: params.WebinarName},
		{Placeholder: "{{Date}}", Value: FormatSessionDate(params.SessionDate)},
		{Placeholder: "{{OrganizedBy}}", Value: params.OrganizedBy},
		{Placeholder: "{{Location}}", Value: attendee.Location},
		{Placeholder: "{{CERT-NUMBER}}", Value: attendee.CertificateNumber},
	}
}
