package cert

import (
	"fmt"
	"strings"
	"time"
)

// FormatSessionDate renders a date the way it appears on the certificate,
// e.g. "MARCH 21st, 2024".
func FormatSessionDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d",
		strings.ToUpper(t.Month().String()),
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Year(),
	)
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}
