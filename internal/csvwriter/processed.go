package csvwriter

import (
	"errors"
	"sort"
	"strings"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/internal/xlsxparser"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// Reasons a processed copy cannot be produced. None of them fail a run.
var (
	ErrNoMetadata   = errors.New("no table metadata available for processed copy")
	ErrNoInputPath  = errors.New("input did not come from a file; processed copy skipped")
	ErrNoDoneColumn = errors.New("input has no done column; processed copy skipped")
)

// =============================================================================
// PROCESSED COPY
// =============================================================================

// WriteProcessedCopy writes a copy of the input beside it with the done
// column set to the done marker on every processed row.
//
// PARAMETERS:
//   - inputPath: The original input file.
//   - meta: Table metadata from the parser.
//   - processed: Source row numbers to mark.
//   - dryRun: Compute the target path without writing.
//
// RETURNS:
//   - The path of the processed copy.
//   - ErrNoMetadata, ErrNoInputPath or ErrNoDoneColumn when a copy cannot be
//     made, or an I/O error.
//
// Rows that are not marked are written exactly as read. Marked rows are
// re-encoded with the original delimiter. The copy keeps the original file's
// format: text stays text in its original encoding, line endings and
// byte-order marker, and a workbook stays a workbook.
func WriteProcessedCopy(inputPath string, meta *types.TableMetadata, processed map[int]bool, dryRun bool) (string, error) {
	if meta == nil {
		return "", ErrNoMetadata
	}
	if inputPath == "" {
		return "", ErrNoInputPath
	}
	if !meta.Columns.HasDone() {
		return "", ErrNoDoneColumn
	}

	target := utils.ProcessedCopyPath(inputPath)
	if dryRun {
		return target, nil
	}

	if xlsxparser.IsSpreadsheet(inputPath) {
		rows := make([]int, 0, len(processed))
		for row, marked := range processed {
			if marked {
				rows = append(rows, row)
			}
		}
		sort.Ints(rows)

		if err := xlsxparser.MarkRows(inputPath, target, meta.Columns.Done, rows, config.DoneMarker); err != nil {
			return "", err
		}
		return target, nil
	}

	content, err := RenderProcessedCopy(meta, processed)
	if err != nil {
		return "", err
	}
	layout := meta.Layout
	if err := utils.WriteEncodedFile(target, content, layout.Encoding, layout.BOM); err != nil {
		return "", err
	}
	return target, nil
}

// RenderProcessedCopy builds the text content of a processed copy.
//
// When the parser kept the input lines, every line is reproduced in place,
// blank lines included, joined with the input's line ending and followed by
// a final line ending if the input had one. Otherwise the header and the
// retained rows are joined with "\n".
func RenderProcessedCopy(meta *types.TableMetadata, processed map[int]bool) (string, error) {
	marked := make(map[int]string, len(processed))
	for _, row := range meta.Rows {
		if !processed[row.Number] {
			continue
		}
		line, err := markRow(row, meta.Columns.Done, meta.Delimiter)
		if err != nil {
			return "", err
		}
		marked[row.Number] = line
	}

	if meta.Lines == nil {
		lines := make([]string, 0, len(meta.Rows)+1)
		lines = append(lines, meta.HeaderText)
		for _, row := range meta.Rows {
			if line, ok := marked[row.Number]; ok {
				lines = append(lines, line)
				continue
			}
			lines = append(lines, row.Text)
		}
		return strings.Join(lines, "\n"), nil
	}

	lines := make([]string, len(meta.Lines))
	for i, line := range meta.Lines {
		number := i + 1
		switch {
		case number == meta.HeaderRow:
			lines[i] = meta.HeaderText
		case marked[number] != "":
			lines[i] = marked[number]
		default:
			lines[i] = line
		}
	}

	newline := meta.Layout.Newline()
	content := strings.Join(lines, newline)
	if meta.Layout.TrailingNewline {
		content += newline
	}
	return content, nil
}

// markRow re-encodes row with the done cell set to the done marker.
func markRow(row types.RawRow, doneCol int, delimiter rune) (string, error) {
	width := len(row.Fields)
	if doneCol >= width {
		width = doneCol + 1
	}
	fields := make([]string, width)
	copy(fields, row.Fields)
	fields[doneCol] = config.DoneMarker

	return encodeRows([][]string{fields}, delimiter)
}
