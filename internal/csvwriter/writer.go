// =============================================================================
// Extension Request Processor - CSV Output Writer
// =============================================================================
//
// This module materializes the pipeline's results as CSV files:
//   - One file per assignment, named after the sanitized assignment name
//   - A processed copy of the input with handled rows marked
//   - A failure report listing rejected rows
//
// FILE FORMAT:
//   - UTF-8 with a byte-order marker
//   - "\n" line endings, no trailing newline after the last row
//   - Each file's content is built in memory before anything is written
//
// PREVIEW MODE:
//   Every writer supports dry-run. In dry-run mode all computation
//   (grouping, sorting, naming, statistics) happens, but nothing touches the
//   filesystem.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/extension-requests/internal/dates"
	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// FileSuffix is appended to every sanitized assignment name.
const FileSuffix = "_extensions.csv"

// Header is the column row of every per-assignment file.
var Header = []string{"Email", "Name", "Assignment", "DueDate", "RECORD"}

// recordSeparator joins the fields of the RECORD display column.
const recordSeparator = " - "

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls where and whether files are written.
type Options struct {
	// OutputDir is the directory that receives the per-assignment files.
	OutputDir string

	// DryRun computes everything but writes nothing.
	DryRun bool

	// Logger receives per-file progress and filename collision warnings.
	// Nil means no logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// =============================================================================
// ASSIGNMENT FILES
// =============================================================================

// WriteAssignmentFiles writes one CSV per assignment.
//
// PARAMETERS:
//   - records: Records with due dates set. Not modified.
//   - knownAssignments: Every assignment observed in the input. Each one
//     without surviving records still gets a header-only file.
//   - opts: Output directory and dry-run flag.
//
// RETURNS:
//   - Statistics for every group that was written (or would be, in dry-run
//     mode), ordered by assignment name.
//   - Descriptive I/O error strings. A failure on one file does not stop the
//     remaining files.
func WriteAssignmentFiles(records []types.ExtensionRecord, knownAssignments []string, opts Options) ([]types.FileInfo, []string) {
	groups := GroupByAssignment(records, knownAssignments)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var ioErrors []string
	if !opts.DryRun {
		if err := utils.EnsureDirectory(opts.OutputDir); err != nil {
			return nil, []string{err.Error()}
		}
	}

	log := opts.logger()
	owners := make(map[string]string, len(names))

	infos := make([]types.FileInfo, 0, len(names))
	for _, name := range names {
		group := groups[name]
		filename := SanitizeFilename(name) + FileSuffix

		// Two assignment names can sanitize to the same file. The later
		// group overwrites the earlier one.
		if previous, taken := owners[filename]; taken {
			log.Warn("assignment file overwritten by another assignment",
				zap.String("file", filename),
				zap.String("previous", previous),
				zap.String("assignment", name))
		}
		owners[filename] = name

		content, err := renderAssignment(group)
		if err != nil {
			ioErrors = append(ioErrors, fmt.Sprintf("failed to render %s: %v", filename, err))
			continue
		}

		if !opts.DryRun {
			path := filepath.Join(opts.OutputDir, filename)
			if err := utils.WriteBOMFile(path, content); err != nil {
				ioErrors = append(ioErrors, err.Error())
				log.Error("failed to write assignment file", zap.String("file", path), zap.Error(err))
				continue
			}
			log.Debug("wrote assignment file", zap.String("file", path), zap.Int("records", len(group)))
		}

		infos = append(infos, fileInfo(name, filename, group))
	}

	return infos, ioErrors
}

// GroupByAssignment partitions records by exact assignment name and adds an
// empty group for every known assignment without records. Each group is a
// new slice sorted by email; records is not modified.
func GroupByAssignment(records []types.ExtensionRecord, knownAssignments []string) map[string][]types.ExtensionRecord {
	groups := make(map[string][]types.ExtensionRecord)
	for _, record := range records {
		groups[record.Assignment] = append(groups[record.Assignment], record)
	}
	for _, name := range knownAssignments {
		if _, ok := groups[name]; !ok {
			groups[name] = []types.ExtensionRecord{}
		}
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Email < group[j].Email
		})
	}
	return groups
}

// SanitizeFilename lower-cases text, collapses every run of characters other
// than a-z and 0-9 into one underscore, and trims underscores from both ends.
//
// EXAMPLE:
//
//	"HW#1: Arrays" -> "hw_1_arrays"
func SanitizeFilename(text string) string {
	name := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "_")
	return strings.Trim(name, "_")
}

// renderAssignment builds the full file content for one group.
func renderAssignment(group []types.ExtensionRecord) (string, error) {
	rows := make([][]string, 0, len(group)+1)
	rows = append(rows, Header)
	for _, record := range group {
		due := dates.FormatDate(record.EffectiveDueDate())
		rows = append(rows, []string{
			record.Email,
			record.Name,
			record.Assignment,
			due,
			strings.Join([]string{record.Email, record.Name, record.Assignment, due}, recordSeparator),
		})
	}
	return encodeRows(rows, ',')
}

// fileInfo computes the summary statistics for one group.
func fileInfo(assignment, filename string, group []types.ExtensionRecord) types.FileInfo {
	info := types.FileInfo{
		Assignment: assignment,
		Filename:   filename,
		Count:      len(group),
		Earliest:   types.NotApplicable,
		Latest:     types.NotApplicable,
	}
	if len(group) == 0 {
		return info
	}

	earliest := group[0].EffectiveDueDate()
	latest := earliest
	for _, record := range group[1:] {
		due := record.EffectiveDueDate()
		if due.Before(earliest) {
			earliest = due
		}
		if due.After(latest) {
			latest = due
		}
	}

	info.Earliest = dates.FormatDate(earliest)
	info.Latest = dates.FormatDate(latest)
	return info
}

// =============================================================================
// ENCODING
// =============================================================================

// encodeRows renders rows as delimited text with "\n" line endings and no
// trailing newline.
func encodeRows(rows [][]string, delimiter rune) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	if err := w.WriteAll(rows); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
