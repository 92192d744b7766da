package processor

import (
	"github.com/ginjaninja78/extension-requests/internal/dates"
	"github.com/ginjaninja78/extension-requests/internal/types"
)

// AdjustDates returns a copy of records with each due date moved to the
// Sunday on or after the requested date. OriginalDate is set to the
// requested date. records is not modified.
func AdjustDates(records []types.ExtensionRecord) []types.ExtensionRecord {
	adjusted := make([]types.ExtensionRecord, len(records))
	for i, record := range records {
		adjusted[i] = record.WithAdjustedDate(dates.NextSunday(record.RequestedDate))
	}
	return adjusted
}

// KeepRequestedDates is the no-adjustment counterpart of AdjustDates: due
// date and original date are both the requested date.
func KeepRequestedDates(records []types.ExtensionRecord) []types.ExtensionRecord {
	kept := make([]types.ExtensionRecord, len(records))
	for i, record := range records {
		kept[i] = record.WithAdjustedDate(record.RequestedDate)
	}
	return kept
}

// CountAdjusted returns how many records have a due date different from
// their original date.
func CountAdjusted(records []types.ExtensionRecord) int {
	n := 0
	for _, record := range records {
		if !record.DueDate.Equal(record.OriginalDate) {
			n++
		}
	}
	return n
}
