package csvwriter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/extension-requests/internal/types"
)

func TestWriteFailureReportNoErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteFailureReport(nil, dir, false)

	assert.NoError(t, err)
	assert.Empty(t, path)
	assert.NoDirExists(t, dir)
}

func TestWriteFailureReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	errs := []types.ParseError{
		{Message: "Missing fields (Email, RequestedDate)", Row: 3, Line: ",Bob,HW1,,"},
		{Message: "Invalid date format '13/45/2024' (expected MM/DD/YYYY)", Row: 5, Line: "c@example.com,Cy,HW2,13/45/2024"},
	}

	path, err := WriteFailureReport(errs, dir, false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "failures.csv"), path)
	assert.Equal(t, bom+
		"Row,Message,Line\n"+
		`3,"Missing fields (Email, RequestedDate)",",Bob,HW1,,"`+"\n"+
		`5,Invalid date format '13/45/2024' (expected MM/DD/YYYY),"c@example.com,Cy,HW2,13/45/2024"`,
		readFile(t, path))
}

func TestWriteFailureReportDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteFailureReport([]types.ParseError{{Message: "x", Row: 2}}, dir, true)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "failures.csv"), path)
	assert.NoFileExists(t, path)
}

func TestRenderFailureReportHeaderError(t *testing.T) {
	content, err := RenderFailureReport([]types.ParseError{{Message: "Missing required columns: Email, Name"}})

	require.NoError(t, err)
	assert.Equal(t, "Row,Message,Line\n,\"Missing required columns: Email, Name\",", content)
}
