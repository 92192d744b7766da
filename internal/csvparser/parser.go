// =============================================================================
// Extension Request Processor - CSV Parser Module
// =============================================================================
//
// This module turns an exported table of extension requests into validated
// records. It handles:
//   - Comma- or tab-separated text (delimiter detected from the data)
//   - A byte-order marker and stray whitespace in header cells
//   - Ragged rows (shorter than the header)
//   - Rows already handled in a previous run (done marker)
//   - Quoted fields with embedded separators
//
// OUTPUT:
//   - Records for every row that passed validation
//   - One ParseError per rejected row (all problems of a row in one message)
//   - TableMetadata retaining every raw row for the processed copy
//
// A header missing any required column aborts parsing before any row is
// looked at.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/dates"
	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/internal/validation"
)

// byteOrderMark is stripped from header cells.
const byteOrderMark = "\ufeff"

// MessageNoHeader is the structural error returned when the input has no
// non-blank line.
const MessageNoHeader = "No header row found"

// ErrMissingColumns marks a structurally invalid header. ParseTable reports
// the details as a ParseError; callers that turn a nil metadata result into
// an error wrap this.
var ErrMissingColumns = errors.New("invalid header")

// =============================================================================
// SOURCE ROWS
// =============================================================================

// sourceRow is one input row before validation.
type sourceRow struct {
	number int
	fields []string
	text   string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseTable parses delimited text lines into extension records.
//
// PARAMETERS:
//   - lines: The raw input lines. The first non-blank line is the header.
//     Line numbers in errors and records are 1-based positions in lines.
//   - columns: The expected header texts.
//
// RETURNS:
//   - The records built from valid rows.
//   - Parse errors (row-level, or a single structural error).
//   - Table metadata, or nil when the header is structurally invalid.
func ParseTable(lines []string, columns config.ColumnConfig) ([]types.ExtensionRecord, []types.ParseError, *types.TableMetadata) {
	delimiter := DetectDelimiter(lines)

	rows := make([]sourceRow, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, sourceRow{
			number: i + 1,
			fields: SplitLine(line, delimiter),
			text:   line,
		})
	}

	records, parseErrors, meta := parseRows(rows, delimiter, columns)
	if meta != nil {
		meta.Lines = append([]string(nil), lines...)
	}
	return records, parseErrors, meta
}

// ParseRows parses rows that are already split into cells, such as the rows
// of a spreadsheet. Row numbers are 1-based positions in rows. Raw line text
// is reconstructed by joining cells with delimiter.
func ParseRows(cells [][]string, delimiter rune, columns config.ColumnConfig) ([]types.ExtensionRecord, []types.ParseError, *types.TableMetadata) {
	rows := make([]sourceRow, 0, len(cells))
	for i, fields := range cells {
		rows = append(rows, sourceRow{
			number: i + 1,
			fields: fields,
			text:   strings.Join(fields, string(delimiter)),
		})
	}

	return parseRows(rows, delimiter, columns)
}

// parseRows runs header resolution and row validation over split rows.
func parseRows(rows []sourceRow, delimiter rune, columns config.ColumnConfig) ([]types.ExtensionRecord, []types.ParseError, *types.TableMetadata) {
	// Find the header: the first non-blank row.
	headerPos := -1
	for i, row := range rows {
		if !isRowEmpty(row.fields) {
			headerPos = i
			break
		}
	}
	if headerPos < 0 {
		return nil, []types.ParseError{{Message: MessageNoHeader}}, nil
	}

	headerRow := rows[headerPos]
	header := cleanHeaders(headerRow.fields)

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	if missing := validation.MissingColumns(index, columns.Required()); len(missing) > 0 {
		return nil, []types.ParseError{{Message: validation.MissingColumnsMessage(missing)}}, nil
	}

	colMap := types.ColumnMap{
		Email:      index[columns.Email],
		Name:       index[columns.Name],
		Assignment: index[columns.Assignment],
		Date:       index[columns.Date],
		Done:       -1,
	}
	if i, ok := index[columns.Done]; ok && columns.Done != "" {
		colMap.Done = i
	}

	meta := &types.TableMetadata{
		Header:     header,
		HeaderText: strings.TrimPrefix(headerRow.text, byteOrderMark),
		HeaderRow:  headerRow.number,
		Delimiter:  delimiter,
		Rows:       make([]types.RawRow, 0, len(rows)-headerPos-1),
		Columns:    colMap,
	}

	var records []types.ExtensionRecord
	var parseErrors []types.ParseError
	seen := make(map[string]bool)

	for _, row := range rows[headerPos+1:] {
		if isRowEmpty(row.fields) {
			continue
		}

		fields := padFields(row.fields, len(header))
		meta.Rows = append(meta.Rows, types.RawRow{
			Number: row.number,
			Fields: fields,
			Text:   row.text,
		})

		values := validation.RowFields{
			Email:      cell(fields, colMap.Email),
			Name:       cell(fields, colMap.Name),
			Assignment: cell(fields, colMap.Assignment),
			Date:       cell(fields, colMap.Date),
		}

		if values.Assignment != "" {
			seen[values.Assignment] = true
		}

		if colMap.HasDone() && cell(fields, colMap.Done) == config.DoneMarker {
			continue
		}

		if msg := validation.ValidateRow(values); msg != "" {
			parseErrors = append(parseErrors, types.ParseError{
				Message: msg,
				Row:     row.number,
				Line:    row.text,
			})
			continue
		}

		// ValidateRow has already confirmed the date parses.
		requested, _ := dates.ParseDate(values.Date)

		records = append(records, types.ExtensionRecord{
			Email:         values.Email,
			Name:          values.Name,
			Assignment:    values.Assignment,
			RequestedDate: requested,
			RowNumber:     row.number,
		})
	}

	meta.Assignments = make([]string, 0, len(seen))
	for name := range seen {
		meta.Assignments = append(meta.Assignments, name)
	}
	sort.Strings(meta.Assignments)

	return records, parseErrors, meta
}

// =============================================================================
// LINE SPLITTING
// =============================================================================

// SplitLine splits one line on delimiter, honouring double-quoted fields.
// A line the CSV reader cannot handle is split on the bare delimiter.
func SplitLine(line string, delimiter rune) []string {
	reader := newReader(strings.NewReader(line), delimiter)

	fields, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []string{""}
	}
	if err != nil {
		return strings.Split(line, string(delimiter))
	}
	return fields
}

// newReader configures a CSV reader the way exports need it.
func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter

	// Allow variable number of fields per row. Ragged rows are padded later.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	return reader
}

// =============================================================================
// HELPERS
// =============================================================================

// cleanHeaders strips a byte-order marker and surrounding whitespace from
// each header cell.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), byteOrderMark))
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// padFields returns a copy of fields right-padded with empty strings to width.
func padFields(fields []string, width int) []string {
	n := len(fields)
	if n < width {
		n = width
	}
	padded := make([]string, n)
	copy(padded, fields)
	return padded
}

// cell returns the trimmed value at index i, or "" when out of range.
func cell(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
