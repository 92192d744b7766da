// =============================================================================
// Extension Request Processor - Summary Report
// =============================================================================
//
// This module renders the human-readable report of a run and saves it as
// SUMMARY.txt in the output directory. The report covers:
//   - Totals and the run identifier
//   - One block per assignment file (count and due-date range)
//   - Where the failure report and processed copy went
//   - Output problems and warnings
//   - Every rejected row, or an explicit "no errors" line
//
// The text is always built in memory so it can be printed even when nothing
// is written (dry-run).
//
// =============================================================================

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// FileName is the name of the saved summary.
const FileName = "SUMMARY.txt"

const (
	lineWidth = 70
	heavyRule = "="
	lightRule = "-"
)

// Summary is everything the report describes.
type Summary struct {
	RunID             string
	OutputDir         string
	RecordCount       int
	DuplicatesRemoved int
	AdjustedCount     int
	DryRun            bool

	Files []types.FileInfo

	// FailureReport is the failures.csv path, empty when there were no
	// rejected rows.
	FailureReport string

	// ProcessedCopy is the processed copy path, empty when none was made.
	ProcessedCopy string

	Warnings []string
	IOErrors []string
	Errors   []types.ParseError
}

// Build renders s as plain text.
func Build(s Summary) string {
	heavy := strings.Repeat(heavyRule, lineWidth)
	light := strings.Repeat(lightRule, lineWidth)

	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("\n%s", heavy)
	add("EXTENSION REQUEST PROCESSING SUMMARY")
	add("%s", heavy)
	if s.RunID != "" {
		add("Run ID: %s", s.RunID)
	}
	if s.DryRun {
		add("Mode: dry run (no files written)")
	}
	add("\nTotal Assignments: %d", len(s.Files))
	add("Total Students: %d", s.RecordCount)
	add("Duplicates Removed: %d", s.DuplicatesRemoved)
	add("Dates Adjusted: %d", s.AdjustedCount)
	add("\nOutput Directory: %s", absolute(s.OutputDir))

	add("\n%s", light)
	add("PER-ASSIGNMENT BREAKDOWN")
	add("%s", light)
	for _, info := range s.Files {
		add("\n%s", info.Assignment)
		add("  File: %s", info.Filename)
		add("  Students: %d", info.Count)
		add("  Date Range: %s to %s", info.Earliest, info.Latest)
	}

	if s.FailureReport != "" || s.ProcessedCopy != "" {
		add("\n%s", light)
		add("ARTIFACTS")
		add("%s", light)
		if s.FailureReport != "" {
			add("Failure Report: %s", s.FailureReport)
		}
		if s.ProcessedCopy != "" {
			add("Processed Copy: %s", s.ProcessedCopy)
		}
	}

	if len(s.IOErrors) > 0 {
		add("\n%s", light)
		add("OUTPUT ISSUES (%d found)", len(s.IOErrors))
		add("%s", light)
		for _, issue := range s.IOErrors {
			add("  • %s", issue)
		}
	}

	if len(s.Warnings) > 0 {
		add("\n%s", light)
		add("WARNINGS")
		add("%s", light)
		for _, warning := range s.Warnings {
			add("  • %s", warning)
		}
	}

	add("\n%s", light)
	if len(s.Errors) > 0 {
		add("ERRORS (%d found)", len(s.Errors))
		add("%s", light)
		for _, e := range s.Errors {
			add("  • %s", e.Error())
		}
	} else {
		add("✓ No errors detected")
		add("%s", light)
	}

	add("\n%s", heavy)
	return strings.Join(lines, "\n")
}

// Write saves text as SUMMARY.txt in outputDir and returns its path. In
// dry-run mode the path is returned without writing.
func Write(outputDir, text string, dryRun bool) (string, error) {
	path := filepath.Join(outputDir, FileName)
	if dryRun {
		return path, nil
	}
	if err := utils.EnsureDirectory(outputDir); err != nil {
		return "", err
	}
	if err := utils.WriteTextFile(path, text); err != nil {
		return "", err
	}
	return path, nil
}

// absolute returns dir as an absolute path, or dir itself if that fails.
func absolute(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
