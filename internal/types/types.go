// =============================================================================
// Extension Request Processor - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - processor
//   - csvwriter
//   - report
//
// All types are plain values. Pipeline stages return new collections instead
// of editing records they have already handed out.
//
// =============================================================================

package types

import (
	"fmt"
	"time"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// ExtensionRecord is a single validated extension request.
type ExtensionRecord struct {
	// Email is the requester's email address. Together with Assignment it
	// forms the deduplication key.
	Email string

	// Name is the requester's display name.
	Name string

	// Assignment is the free-text assignment name the request targets.
	Assignment string

	// RequestedDate is the date the requester asked for. Always a valid date.
	RequestedDate time.Time

	// RowNumber is the 1-based line number of the source row.
	RowNumber int

	// OriginalDate is set by the date adjuster. Zero until then.
	OriginalDate time.Time

	// DueDate is the normalized due date written to the output files.
	// Zero until the date adjuster runs.
	DueDate time.Time
}

// WithAdjustedDate returns a copy of the record with OriginalDate set to the
// requested date and DueDate set to due. The receiver is left unchanged.
func (r ExtensionRecord) WithAdjustedDate(due time.Time) ExtensionRecord {
	r.OriginalDate = r.RequestedDate
	r.DueDate = due
	return r
}

// Key returns the (assignment, email) deduplication key.
func (r ExtensionRecord) Key() RecordKey {
	return RecordKey{Assignment: r.Assignment, Email: r.Email}
}

// EffectiveDueDate returns DueDate, or RequestedDate when no adjustment has run.
func (r ExtensionRecord) EffectiveDueDate() time.Time {
	if r.DueDate.IsZero() {
		return r.RequestedDate
	}
	return r.DueDate
}

// RecordKey identifies one requester for one assignment.
type RecordKey struct {
	Assignment string
	Email      string
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ParseError describes one rejected input row, or a structurally invalid
// header when Row is zero.
type ParseError struct {
	// Message is a human-readable description of the problem.
	Message string

	// Row is the 1-based source line number. Zero for header-level errors.
	Row int

	// Line is the raw text of the rejected line, if known.
	Line string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

// =============================================================================
// TABLE TYPES
// =============================================================================

// RawRow is one input line split into fields. Immutable once read.
type RawRow struct {
	// Number is the 1-based source line number.
	Number int

	// Fields are the split cell values, right-padded to the header width.
	Fields []string

	// Text is the original line text as read.
	Text string
}

// ColumnMap maps logical column names to their positions in the header row.
// A negative index means the column is absent. Only Done may be absent once
// parsing has started.
type ColumnMap struct {
	Email      int
	Name       int
	Assignment int
	Date       int
	Done       int
}

// HasDone reports whether the optional already-handled column exists.
func (m ColumnMap) HasDone() bool {
	return m.Done >= 0
}

// TableMetadata is retained from parsing so the processed copy can reproduce
// the original input.
type TableMetadata struct {
	// Header holds the cleaned header cells.
	Header []string

	// HeaderText is the header line as read (BOM removed).
	HeaderText string

	// HeaderRow is the 1-based line number of the header.
	HeaderRow int

	// Delimiter is the detected field separator.
	Delimiter rune

	// Rows holds every non-blank data row in source order.
	Rows []RawRow

	// Assignments is every distinct non-empty assignment name observed,
	// including from already-handled rows, sorted lexicographically.
	Assignments []string

	// Columns is the resolved column positions.
	Columns ColumnMap

	// Lines holds every input line by position, blank ones included, so
	// line n is Lines[n-1]. Nil for pre-split (workbook) input.
	Lines []string

	// Layout describes how the input file was stored. Zero when the input
	// did not come from a text file.
	Layout TextLayout
}

// TextLayout records how a text input was stored on disk so a copy can be
// written back the same way.
type TextLayout struct {
	// Encoding is the charset the text was decoded from: "utf-8",
	// "utf-16" (little endian), "utf-16be" or "windows-1252". Empty means
	// UTF-8.
	Encoding string

	// BOM is true when the file started with a byte-order marker.
	BOM bool

	// LineEnding is the first line terminator found: "\r\n", "\n" or "\r".
	// Empty when the text has no terminator at all.
	LineEnding string

	// TrailingNewline is true when the last line was terminated.
	TrailingNewline bool
}

// Newline returns LineEnding, or "\n" when none was recorded.
func (l TextLayout) Newline() string {
	if l.LineEnding == "" {
		return "\n"
	}
	return l.LineEnding
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// NotApplicable is the date sentinel used for assignments with no records.
const NotApplicable = "N/A"

// FileInfo summarizes one per-assignment output file.
type FileInfo struct {
	Assignment string
	Filename   string
	Count      int

	// Earliest and Latest are formatted due dates, or NotApplicable when
	// Count is zero.
	Earliest string
	Latest   string
}
