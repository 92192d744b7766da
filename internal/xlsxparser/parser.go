// =============================================================================
// Extension Request Processor - XLSX Workbook Support
// =============================================================================
//
// Microsoft Forms exports responses as an .xlsx workbook. This module lets
// such a workbook be used directly as input:
//   - ReadRows returns the cells of the first sheet, one slice per sheet row
//   - MarkRows writes a copy of the workbook with the done column set on
//     the given sheet rows, leaving every other cell (and all formatting)
//     untouched
//
// Row numbers are 1-based sheet row numbers, so they line up with the row
// numbers the table parser assigns to rows returned by ReadRows.
//
// DATE CELLS:
//   Excel stores a date as a serial number shown through a date number
//   format. ReadRows converts such cells (and ISO "d" cells) to the
//   MM/DD/YYYY text the date parser accepts, whatever format the sheet
//   displays them in.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/extension-requests/internal/dates"
)

// spreadsheetExtensions are the file extensions read through excelize.
var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// IsSpreadsheet reports whether path names a workbook rather than text.
func IsSpreadsheet(path string) bool {
	return spreadsheetExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadRows reads every row of the first sheet of the workbook at path.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//
// RETURNS:
//   - The cell values, one slice per sheet row. Interior empty rows are kept
//     so index i is sheet row i+1. Date cells are rendered as MM/DD/YYYY.
//   - An error if the file cannot be opened or read.
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	reader, err := newDateReader(f, sheetName)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			date, ok, err := reader.dateText(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if ok {
				row[c] = date
			}
		}
	}

	return rows, nil
}

// =============================================================================
// DATE CELLS
// =============================================================================

// builtInDateFormats are the built-in number format IDs that display a date.
// Time-only formats (18-21, 45-47) are not included.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// dateReader recognizes date cells on one sheet.
type dateReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool

	// styles caches whether a style index uses a date number format.
	styles map[int]bool
}

func newDateReader(f *excelize.File, sheet string) (*dateReader, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}
	return &dateReader{
		f:        f,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		styles:   map[int]bool{},
	}, nil
}

// dateText returns the MM/DD/YYYY text of the cell at col, row (1-based)
// and true if the cell holds a date.
func (d *dateReader) dateText(col, row int) (string, bool, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false, err
	}

	cellType, err := d.f.GetCellType(d.sheet, cell)
	if err != nil {
		return "", false, fmt.Errorf("failed to read cell %s: %w", cell, err)
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeDate:
	default:
		return "", false, nil
	}

	raw, err := d.f.GetCellValue(d.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to read cell %s: %w", cell, err)
	}

	if cellType == excelize.CellTypeDate {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if t, err = time.Parse("2006-01-02", raw); err != nil {
				return "", false, nil
			}
		}
		return t.Format(dates.Layout), true, nil
	}

	isDate, err := d.hasDateFormat(cell)
	if err != nil || !isDate {
		return "", false, err
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false, nil
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false, nil
	}
	return t.Format(dates.Layout), true, nil
}

// hasDateFormat reports whether the style of cell displays a date.
func (d *dateReader) hasDateFormat(cell string) (bool, error) {
	idx, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	if idx == 0 {
		return false, nil
	}
	if isDate, ok := d.styles[idx]; ok {
		return isDate, nil
	}

	style, err := d.f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", idx, err)
	}
	isDate := builtInDateFormats[style.NumFmt]
	if style.CustomNumFmt != nil {
		isDate = IsDateFormatCode(*style.CustomNumFmt)
	}
	d.styles[idx] = isDate
	return isDate, nil
}

// IsDateFormatCode reports whether a custom number format code displays a
// date: it uses a day or year token outside quoted text and brackets.
func IsDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}

// MarkRows copies the workbook at src to dst, setting the cell in column
// doneCol (0-based) of every listed sheet row to marker.
//
// PARAMETERS:
//   - src: The original workbook.
//   - dst: Where the marked copy is written.
//   - doneCol: The 0-based index of the done column.
//   - rowNumbers: 1-based sheet rows to mark.
//   - marker: The value written into the done cell.
//
// RETURNS:
//   - An error if the workbook cannot be opened, edited, or saved.
func MarkRows(src, dst string, doneCol int, rowNumbers []int, marker string) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return fmt.Errorf("workbook has no sheets")
	}

	for _, row := range rowNumbers {
		cell, err := excelize.CoordinatesToCellName(doneCol+1, row)
		if err != nil {
			return fmt.Errorf("invalid cell for row %d: %w", row, err)
		}
		if err := f.SetCellStr(sheetName, cell, marker); err != nil {
			return fmt.Errorf("failed to mark row %d: %w", row, err)
		}
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteRows writes rows to a new single-sheet workbook at path. Row i of
// rows becomes sheet row i+1.
func WriteRows(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
