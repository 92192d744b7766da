package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorError(t *testing.T) {
	assert.Equal(t, "Row 4: Missing fields (Email)", ParseError{Message: "Missing fields (Email)", Row: 4}.Error())
	assert.Equal(t, "Missing required columns: Name", ParseError{Message: "Missing required columns: Name"}.Error())
}

func TestWithAdjustedDateCopies(t *testing.T) {
	requested := time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.February, 4, 0, 0, 0, 0, time.UTC)
	r := ExtensionRecord{Email: "a@example.com", Assignment: "HW1", RequestedDate: requested}

	adjusted := r.WithAdjustedDate(due)

	assert.True(t, r.DueDate.IsZero())
	assert.Equal(t, requested, adjusted.OriginalDate)
	assert.Equal(t, due, adjusted.DueDate)
	assert.Equal(t, due, adjusted.EffectiveDueDate())
	assert.Equal(t, requested, r.EffectiveDueDate())
	assert.Equal(t, RecordKey{Assignment: "HW1", Email: "a@example.com"}, r.Key())
}

func TestColumnMapHasDone(t *testing.T) {
	assert.True(t, ColumnMap{Done: 0}.HasDone())
	assert.False(t, ColumnMap{Done: -1}.HasDone())
}

func TestTextLayoutNewline(t *testing.T) {
	assert.Equal(t, "\n", TextLayout{}.Newline())
	assert.Equal(t, "\r\n", TextLayout{LineEnding: "\r\n"}.Newline())
}
