// =============================================================================
// Extension Request Processor - Date Utilities
// =============================================================================
//
// Dates travel through the pipeline in one fixed textual form, MM/DD/YYYY,
// both on input (the requested date column) and on output (the DueDate
// column). Due dates are normalized forward to the end of the week (Sunday).
//
// =============================================================================

package dates

import (
	"strings"
	"time"
)

// Layout is the only accepted date text format: two-digit month, two-digit
// day, four-digit year.
const Layout = "01/02/2006"

// WeekEnd is the day of week due dates are normalized to.
const WeekEnd = time.Sunday

// ParseDate parses s strictly against Layout after trimming surrounding
// whitespace. The second return value is false for anything that is not a
// real calendar date in that exact shape (e.g. "13/01/2024", "1/5/2024",
// "02/30/2024", "invalid").
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NextSunday returns t when it already falls on WeekEnd, otherwise the first
// WeekEnd after t. The result is never more than 6 days after t.
func NextSunday(t time.Time) time.Time {
	days := (int(WeekEnd) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		return t
	}
	return t.AddDate(0, 0, days)
}

// FormatDate renders t in Layout, zero-padded.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}
