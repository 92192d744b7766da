// =============================================================================
// Extension Request Processor - Pipeline
// =============================================================================
//
// This module runs the whole pipeline for one input document.
//
// PIPELINE:
//   1. Parse the table into records (rejected rows become parse errors)
//   2. Deduplicate: one request per (assignment, email), latest date wins
//   3. Move due dates to the following Sunday (unless disabled)
//   4. Write one CSV per assignment
//   5. Write the processed copy of the input, if the input is a file
//   6. Write failures.csv, if any row was rejected
//   7. Build and save SUMMARY.txt
//
// ERRORS:
//   - No usable data or a structurally invalid header stop the run before
//     anything is written and are returned as errors.
//   - Row-level problems are collected in Result.Errors.
//   - Output problems are collected in Result.IOErrors; processing continues
//     with the next file. Any of them makes Result.Success false.
//   - A processed copy that cannot be made for lack of a done column is a
//     warning only.
//
// =============================================================================

package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/csvparser"
	"github.com/ginjaninja78/extension-requests/internal/csvwriter"
	"github.com/ginjaninja78/extension-requests/internal/input"
	"github.com/ginjaninja78/extension-requests/internal/report"
	"github.com/ginjaninja78/extension-requests/internal/types"
)

// ErrNoData is returned when the input holds no non-blank line.
var ErrNoData = errors.New("no data provided")

// spreadsheetDelimiter is used to reconstruct raw text for workbook rows in
// error reports.
const spreadsheetDelimiter = ','

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options controls one pipeline run.
type Options struct {
	// Columns are the expected header texts.
	Columns config.ColumnConfig

	// OutputDir receives the assignment files, failures.csv and SUMMARY.txt.
	OutputDir string

	// Adjust moves due dates to the following Sunday.
	Adjust bool

	// DryRun computes everything but writes nothing.
	DryRun bool

	// ProcessedCopy writes the marked copy beside a file input.
	ProcessedCopy bool
}

// OptionsFromConfig derives run options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Columns:       cfg.Columns,
		OutputDir:     cfg.OutputDir,
		Adjust:        cfg.Adjust(),
		DryRun:        cfg.DryRun,
		ProcessedCopy: cfg.ProcessedCopy(),
	}
}

// Result is the outcome of one run.
type Result struct {
	// RunID identifies the run in the summary and in log lines.
	RunID string

	// Records are the final records: deduplicated, with due dates set.
	Records []types.ExtensionRecord

	// ParsedCount is the number of records before deduplication.
	ParsedCount int

	DuplicatesRemoved int
	AdjustedCount     int

	// Errors are the rejected rows, or the single header error.
	Errors []types.ParseError

	// Meta is nil when the header was structurally invalid.
	Meta *types.TableMetadata

	Files         []types.FileInfo
	IOErrors      []string
	Warnings      []string
	FailureReport string
	ProcessedCopy string

	// Summary is the rendered report text.
	Summary     string
	SummaryPath string

	Duration time.Duration
}

// Success reports whether every output was written.
func (r *Result) Success() bool {
	return len(r.IOErrors) == 0
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor runs the pipeline with fixed options.
type Processor struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Processor. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{opts: opts, logger: logger}
}

// Run processes doc.
//
// RETURNS:
//   - The run result. It is non-nil whenever parsing was attempted, including
//     for a structurally invalid header, so callers can report the errors.
//   - ErrNoData, or an error wrapping csvparser.ErrMissingColumns. Output
//     problems are not returned as errors; see Result.Success.
func (p *Processor) Run(doc *input.Document) (*Result, error) {
	startTime := time.Now()

	if doc == nil || !doc.HasData() {
		return nil, ErrNoData
	}

	result := &Result{RunID: uuid.New().String()}
	log := p.logger.With(zap.String("run", result.RunID))

	// =========================================================================
	// STEP 1: PARSE
	// =========================================================================

	var records []types.ExtensionRecord
	if doc.IsSpreadsheet() {
		records, result.Errors, result.Meta = csvparser.ParseRows(doc.Rows, spreadsheetDelimiter, p.opts.Columns)
	} else {
		records, result.Errors, result.Meta = csvparser.ParseTable(doc.Lines, p.opts.Columns)
	}

	if result.Meta == nil {
		result.Duration = time.Since(startTime)
		message := "header could not be read"
		if len(result.Errors) > 0 {
			message = result.Errors[0].Message
		}
		log.Error("input rejected", zap.String("reason", message))
		return result, fmt.Errorf("%w: %s", csvparser.ErrMissingColumns, message)
	}

	result.Meta.Layout = doc.Layout
	result.ParsedCount = len(records)
	log.Info("parsed input",
		zap.String("source", doc.Source),
		zap.Int("records", len(records)),
		zap.Int("rejected", len(result.Errors)),
		zap.Int("assignments", len(result.Meta.Assignments)))
	for _, e := range result.Errors {
		log.Warn("row rejected", zap.Int("row", e.Row), zap.String("reason", e.Message))
	}

	// =========================================================================
	// STEP 2: DEDUPLICATE
	// =========================================================================

	unique := Deduplicate(records)
	result.DuplicatesRemoved = len(records) - len(unique)
	log.Debug("deduplicated records", zap.Int("removed", result.DuplicatesRemoved))

	// =========================================================================
	// STEP 3: ADJUST DUE DATES
	// =========================================================================

	if p.opts.Adjust {
		result.Records = AdjustDates(unique)
	} else {
		result.Records = KeepRequestedDates(unique)
	}
	result.AdjustedCount = CountAdjusted(result.Records)
	log.Debug("set due dates", zap.Bool("adjust", p.opts.Adjust), zap.Int("adjusted", result.AdjustedCount))

	// =========================================================================
	// STEP 4: ASSIGNMENT FILES
	// =========================================================================

	files, ioErrors := csvwriter.WriteAssignmentFiles(result.Records, result.Meta.Assignments, csvwriter.Options{
		OutputDir: p.opts.OutputDir,
		DryRun:    p.opts.DryRun,
		Logger:    log,
	})
	result.Files = files
	result.IOErrors = append(result.IOErrors, ioErrors...)
	log.Info("wrote assignment files",
		zap.Int("files", len(files)),
		zap.Int("failed", len(ioErrors)),
		zap.Bool("dry_run", p.opts.DryRun))

	// =========================================================================
	// STEP 5: PROCESSED COPY
	// =========================================================================

	if p.opts.ProcessedCopy && doc.Path != "" {
		p.writeProcessedCopy(log, doc.Path, records, result)
	}

	// =========================================================================
	// STEP 6: FAILURE REPORT
	// =========================================================================

	failures, err := csvwriter.WriteFailureReport(result.Errors, p.opts.OutputDir, p.opts.DryRun)
	if err != nil {
		result.IOErrors = append(result.IOErrors, fmt.Sprintf("failed to write failure report: %v", err))
		log.Error("failed to write failure report", zap.Error(err))
	}
	result.FailureReport = failures

	// =========================================================================
	// STEP 7: SUMMARY
	// =========================================================================

	result.Summary = report.Build(report.Summary{
		RunID:             result.RunID,
		OutputDir:         p.opts.OutputDir,
		RecordCount:       len(result.Records),
		DuplicatesRemoved: result.DuplicatesRemoved,
		AdjustedCount:     result.AdjustedCount,
		DryRun:            p.opts.DryRun,
		Files:             result.Files,
		FailureReport:     result.FailureReport,
		ProcessedCopy:     result.ProcessedCopy,
		Warnings:          result.Warnings,
		IOErrors:          result.IOErrors,
		Errors:            result.Errors,
	})

	summaryPath, err := report.Write(p.opts.OutputDir, result.Summary, p.opts.DryRun)
	if err != nil {
		result.IOErrors = append(result.IOErrors, fmt.Sprintf("failed to write summary: %v", err))
		log.Error("failed to write summary", zap.Error(err))
	}
	result.SummaryPath = summaryPath

	result.Duration = time.Since(startTime)
	log.Info("run complete",
		zap.Int("records", len(result.Records)),
		zap.Int("output_errors", len(result.IOErrors)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// writeProcessedCopy marks every row that produced a record, before
// deduplication, in a copy of the input file.
func (p *Processor) writeProcessedCopy(log *zap.Logger, path string, records []types.ExtensionRecord, result *Result) {
	processed := make(map[int]bool, len(records))
	for _, record := range records {
		processed[record.RowNumber] = true
	}

	target, err := csvwriter.WriteProcessedCopy(path, result.Meta, processed, p.opts.DryRun)
	switch {
	case err == nil:
		result.ProcessedCopy = target
		log.Info("wrote processed copy", zap.String("file", target), zap.Int("marked", len(processed)))
	case errors.Is(err, csvwriter.ErrNoDoneColumn),
		errors.Is(err, csvwriter.ErrNoMetadata),
		errors.Is(err, csvwriter.ErrNoInputPath):
		result.Warnings = append(result.Warnings, err.Error())
		log.Warn("processed copy skipped", zap.Error(err))
	default:
		result.IOErrors = append(result.IOErrors, fmt.Sprintf("failed to write processed copy: %v", err))
		log.Error("failed to write processed copy", zap.Error(err))
	}
}
