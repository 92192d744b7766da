package xlsxparser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("export.xlsx"))
	assert.True(t, IsSpreadsheet("/x/Export.XLSX"))
	assert.True(t, IsSpreadsheet("macro.xlsm"))
	assert.False(t, IsSpreadsheet("export.csv"))
	assert.False(t, IsSpreadsheet("export"))
}

func TestWriteAndReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	rows := [][]string{
		{"Email", "Name", "DONE?"},
		{"a@example.com", "Alice"},
		{"b@example.com", "Bob", "*"},
	}

	require.NoError(t, WriteRows(path, rows))

	got, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, "Alice", got[1][1])
	assert.Equal(t, "*", got[2][2])
}

func TestMarkRows(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.xlsx")
	dst := filepath.Join(dir, "export_PROCESSED.xlsx")

	require.NoError(t, WriteRows(src, [][]string{
		{"Email", "Name", "DONE?"},
		{"a@example.com", "Alice"},
		{"b@example.com", "Bob"},
	}))

	require.NoError(t, MarkRows(src, dst, 2, []int{2}, "*"))

	got, err := ReadRows(dst)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a@example.com", "Alice", "*"}, got[1])
	assert.Empty(t, cellAt(got[2], 2), "unmarked row keeps its empty done cell")

	original, err := ReadRows(src)
	require.NoError(t, err)
	assert.Empty(t, cellAt(original[1], 2), "source workbook is not modified")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestReadRowsDateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	custom := "dd mmm yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"date", "custom", "number", "text"}))
	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "B2", 45337))
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", style))
	require.NoError(t, f.SetCellValue(sheet, "C2", 42))
	require.NoError(t, f.SetCellStr(sheet, "D2", "02/05/2024"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"01/30/2024", "02/15/2024", "42", "02/05/2024"}, got[1])
}

func TestIsDateFormatCode(t *testing.T) {
	tests := map[string]bool{
		"mm/dd/yyyy":       true,
		"d-mmm-yy":         true,
		"yyyy":             true,
		"[$-409]mmmm d":    true,
		"0.00":             false,
		"h:mm:ss":          false,
		`"day "0`:          false,
		`[Red]#,##0;\d0`: false,
		"General":          false,
	}

	for code, want := range tests {
		assert.Equal(t, want, IsDateFormatCode(code), code)
	}
}
