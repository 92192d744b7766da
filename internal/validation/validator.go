// =============================================================================
// Extension Request Processor - Validation Engine
// =============================================================================
//
// This module provides the checks the table parser runs before it builds an
// extension record:
//   1. Header-level: every required column must be present
//   2. Row-level: every required field must be non-blank
//   3. Row-level: the requested date must parse
//
// ERROR HANDLING:
//   - Problems are returned as values, never panics
//   - Every missing field of a row is reported together in one message
//   - Header problems name every missing column at once
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/extension-requests/internal/dates"
)

// Field labels used in row-level error messages.
const (
	FieldEmail         = "Email"
	FieldName          = "Name"
	FieldAssignment    = "Assignment"
	FieldRequestedDate = "RequestedDate"
)

// =============================================================================
// HEADER VALIDATION
// =============================================================================

// MissingColumns returns the entries of required that are not keys of index,
// in the order they appear in required.
func MissingColumns(index map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// MissingColumnsMessage renders the structural error for missing columns.
func MissingColumnsMessage(missing []string) string {
	return fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", "))
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// RowFields holds the trimmed required values extracted from one row.
type RowFields struct {
	Email      string
	Name       string
	Assignment string
	Date       string
}

// MissingFields returns the labels of every blank required field, in the
// order Email, Name, Assignment, RequestedDate.
func MissingFields(f RowFields) []string {
	var missing []string
	if f.Email == "" {
		missing = append(missing, FieldEmail)
	}
	if f.Name == "" {
		missing = append(missing, FieldName)
	}
	if f.Assignment == "" {
		missing = append(missing, FieldAssignment)
	}
	if f.Date == "" {
		missing = append(missing, FieldRequestedDate)
	}
	return missing
}

// MissingFieldsMessage renders the row-level error for blank fields.
func MissingFieldsMessage(missing []string) string {
	return fmt.Sprintf("Missing fields (%s)", strings.Join(missing, ", "))
}

// InvalidDateMessage renders the row-level error for an unparseable date.
func InvalidDateMessage(text string) string {
	return fmt.Sprintf("Invalid date format '%s' (expected MM/DD/YYYY)", text)
}

// ValidateRow runs every row-level check. It returns an empty message when
// the row is valid.
//
// PARAMETERS:
//   - f: The trimmed required values of the row.
//
// RETURNS:
//   - The error message, or "" when the row passes.
func ValidateRow(f RowFields) string {
	if missing := MissingFields(f); len(missing) > 0 {
		return MissingFieldsMessage(missing)
	}
	if _, ok := dates.ParseDate(f.Date); !ok {
		return InvalidDateMessage(f.Date)
	}
	return ""
}
