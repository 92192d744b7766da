package csvwriter

import (
	"path/filepath"
	"strconv"

	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// FailureReportName is the file name of the failure report.
const FailureReportName = "failures.csv"

// FailureHeader is the column row of the failure report.
var FailureHeader = []string{"Row", "Message", "Line"}

// WriteFailureReport writes one row per parse error to failures.csv in
// outputDir.
//
// RETURNS:
//   - "" and nil when errs is empty, so "no failures" is distinguishable
//     from "could not report failures".
//   - The report path. In dry-run mode the path is returned without writing.
//   - An error if the report could not be written.
func WriteFailureReport(errs []types.ParseError, outputDir string, dryRun bool) (string, error) {
	if len(errs) == 0 {
		return "", nil
	}

	path := filepath.Join(outputDir, FailureReportName)
	if dryRun {
		return path, nil
	}

	content, err := RenderFailureReport(errs)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDirectory(outputDir); err != nil {
		return "", err
	}
	if err := utils.WriteBOMFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// RenderFailureReport builds the failure report content. Header-level errors
// have an empty Row cell.
func RenderFailureReport(errs []types.ParseError) (string, error) {
	rows := make([][]string, 0, len(errs)+1)
	rows = append(rows, FailureHeader)
	for _, e := range errs {
		row := ""
		if e.Row > 0 {
			row = strconv.Itoa(e.Row)
		}
		rows = append(rows, []string{row, e.Message, e.Line})
	}
	return encodeRows(rows, ',')
}
