package processor

import "github.com/ginjaninja78/extension-requests/internal/types"

// Deduplicate keeps one record per (assignment, email) pair: the one with
// the latest requested date. When two records share the key and the exact
// date, the one seen first wins.
//
// The result is a new slice ordered by the first appearance of each key.
// records is not modified.
func Deduplicate(records []types.ExtensionRecord) []types.ExtensionRecord {
	position := make(map[types.RecordKey]int, len(records))
	result := make([]types.ExtensionRecord, 0, len(records))

	for _, record := range records {
		key := record.Key()
		i, seen := position[key]
		if !seen {
			position[key] = len(result)
			result = append(result, record)
			continue
		}
		if record.RequestedDate.After(result[i].RequestedDate) {
			result[i] = record
		}
	}

	return result
}
