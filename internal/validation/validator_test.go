package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMissingColumns(t *testing.T) {
	index := map[string]int{"Email": 0, "Name": 1}

	got := MissingColumns(index, []string{"Email", "Name", "Assignment", "Date"})
	if diff := cmp.Diff([]string{"Assignment", "Date"}, got); diff != "" {
		t.Errorf("MissingColumns() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, MissingColumns(index, []string{"Name"}))
	assert.Equal(t, "Missing required columns: Assignment, Date", MissingColumnsMessage(got))
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name string
		row  RowFields
		want string
	}{
		{
			name: "valid",
			row:  RowFields{Email: "a@example.com", Name: "Alice", Assignment: "HW1", Date: "01/30/2024"},
			want: "",
		},
		{
			name: "missing email",
			row:  RowFields{Name: "Alice", Assignment: "HW1", Date: "01/30/2024"},
			want: "Missing fields (Email)",
		},
		{
			name: "missing email and date",
			row:  RowFields{Name: "Alice", Assignment: "HW1"},
			want: "Missing fields (Email, RequestedDate)",
		},
		{
			name: "all missing",
			row:  RowFields{},
			want: "Missing fields (Email, Name, Assignment, RequestedDate)",
		},
		{
			name: "invalid date",
			row:  RowFields{Email: "a@example.com", Name: "Alice", Assignment: "HW1", Date: "13/01/2024"},
			want: "Invalid date format '13/01/2024' (expected MM/DD/YYYY)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateRow(tt.row))
		})
	}
}
