// =============================================================================
// Extension Request Processor - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the extension request
// pipeline on one input.
//
// COMMAND USAGE:
//   extensions process [flags]
//
// INPUT (exactly one):
//   --input-file, -f : Path to an exported .csv/.tsv/.txt or .xlsx file
//   --clipboard      : Read copied spreadsheet rows from the clipboard
//   (neither)        : Read pasted rows from standard input until EOF
//
// EXIT STATUS:
//   0 - the run completed; some rows may have been rejected (see failures.csv)
//   1 - no data, missing input file, missing required columns, or an output
//       file could not be written
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/input"
	"github.com/ginjaninja78/extension-requests/internal/processor"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile is the file to process.
var inputFile string

// useClipboard reads the input from the clipboard.
var useClipboard bool

// noAdjust keeps the requested dates instead of moving them to Sunday.
var noAdjust bool

// noProcessedCopy skips writing the marked copy of the input file.
var noProcessedCopy bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process extension requests into per-assignment CSV files",
	Long: `The process command reads extension requests, keeps the latest request per
student and assignment, moves due dates to the following Sunday and writes
one CSV file per assignment into the output directory.

Also written to the output directory:
  - failures.csv listing every rejected row (only when rows were rejected)
  - SUMMARY.txt describing the run

When the input is a file with a done column ("DONE?" by default), a copy
named <file>_PROCESSED<ext> is written beside it with every processed row
marked "*". Marked rows are skipped on the next run.`,

	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	flags := processCmd.Flags()

	flags.StringVarP(&inputFile, "input-file", "f", "", "Path to the exported requests file")
	flags.BoolVar(&useClipboard, "clipboard", false, "Read the requests from the clipboard")
	flags.BoolVar(&noAdjust, "no-adjust", false, "Keep requested dates instead of moving them to Sunday")
	flags.BoolVar(&noProcessedCopy, "no-processed-copy", false, "Do not write the marked copy of the input file")

	// These flags override configuration keys; see flagKeys.
	flags.StringP("output-dir", "o", config.DefaultOutputDir, "Directory for the output files")
	flags.Bool("dry-run", false, "Show what would be written without writing anything")
	flags.String("encoding", "utf-8", "Input text encoding (utf-8, utf-16, windows-1252)")
	flags.String("email-column", config.DefaultEmailColumn, "Header of the email column")
	flags.String("name-column", config.DefaultNameColumn, "Header of the name column")
	flags.String("assignment-column", config.DefaultAssignmentColumn, "Header of the assignment column")
	flags.String("date-column", config.DefaultDateColumn, "Header of the requested date column")
	flags.String("done-column", config.DefaultDoneColumn, "Header of the already-handled column")

	processCmd.MarkFlagsMutuallyExclusive("input-file", "clipboard")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess resolves the configuration and input, runs the pipeline and
// prints the summary.
func runProcess(cmd *cobra.Command) error {
	cfg, err := effectiveConfig(settings)
	if err != nil {
		return err
	}
	if noAdjust {
		adjust := false
		cfg.AdjustToSunday = &adjust
	}
	if noProcessedCopy {
		processedCopy := false
		cfg.WriteProcessedCopy = &processedCopy
	}

	doc, err := readInput(cmd.InOrStdin(), cmd.ErrOrStderr(), cfg.InputEncoding)
	if err != nil {
		return err
	}

	logger.Debug("resolved input",
		zap.String("source", doc.Source),
		zap.String("path", doc.Path),
		zap.String("output_dir", cfg.OutputDir))

	result, err := processor.New(processor.OptionsFromConfig(cfg), logger).Run(doc)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
	if result.SummaryPath != "" && !cfg.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSummary saved to: %s\n", result.SummaryPath)
	}

	if !result.Success() {
		return fmt.Errorf("%d output file(s) could not be written", len(result.IOErrors))
	}
	return nil
}

// readInput returns the document selected by the input flags.
func readInput(stdin io.Reader, prompt io.Writer, encoding string) (*input.Document, error) {
	switch {
	case inputFile != "":
		doc, err := input.ReadFile(inputFile, encoding)
		if err != nil {
			var notFound *input.NotFoundError
			if errors.As(err, &notFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return doc, nil

	case useClipboard:
		doc, err := input.ReadClipboard()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return doc, nil

	default:
		fmt.Fprintln(prompt, "Paste the requests (header row first), then press Ctrl-D (Ctrl-Z Enter on Windows):")
		doc, err := input.ReadStream(stdin, encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return doc, nil
	}
}
