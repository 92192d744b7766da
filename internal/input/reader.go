// =============================================================================
// Extension Request Processor - Input Sources
// =============================================================================
//
// This module resolves an input source into rows of text the table parser
// can consume. Supported sources:
//   - A file on disk (delimited text, or an .xlsx workbook)
//   - Text pasted on standard input, terminated by EOF
//   - The system clipboard
//
// Text is decoded with the configured encoding. A byte-order marker, if
// present, overrides it and is removed.
//
// =============================================================================

package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/internal/xlsxparser"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// Source kinds recorded on a Document.
const (
	SourceFile      = "file"
	SourceStdin     = "stdin"
	SourceClipboard = "clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility is present.
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is an input resolved to rows of text.
type Document struct {
	// Source is one of SourceFile, SourceStdin, SourceClipboard.
	Source string

	// Path is the file that was read. Empty for stdin and clipboard.
	Path string

	// Lines holds delimited text lines. Nil for workbooks.
	Lines []string

	// Rows holds pre-split workbook rows. Nil for text.
	Rows [][]string

	// Layout describes how a text file was stored. Zero for workbooks,
	// stdin and clipboard input.
	Layout types.TextLayout
}

// IsSpreadsheet reports whether the document came from a workbook.
func (d *Document) IsSpreadsheet() bool {
	return d.Rows != nil
}

// HasData reports whether the document contains at least one non-blank line
// or row.
func (d *Document) HasData() bool {
	for _, line := range d.Lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	for _, row := range d.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// FILE INPUT
// =============================================================================

// NotFoundError lists every location tried for a missing input file.
type NotFoundError struct {
	Name      string
	Attempted []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %q not found (tried: %s)", e.Name, strings.Join(e.Attempted, ", "))
}

// ReadFile reads an input file.
//
// PARAMETERS:
//   - name: The file path. A leading "~" is expanded to the home directory.
//     Relative paths not found in the working directory are also looked up
//     beside the executable.
//   - encodingName: The text encoding ("utf-8", "utf-16", "windows-1252").
//     Ignored for workbooks.
//
// RETURNS:
//   - The document.
//   - A *NotFoundError when no candidate exists, or a read error.
func ReadFile(name, encodingName string) (*Document, error) {
	expanded, err := homedir.Expand(name)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", name, err)
	}

	candidates := utils.CandidatePaths(expanded)
	path := ""
	for _, candidate := range candidates {
		if utils.FileExists(candidate) {
			path = candidate
			break
		}
	}
	if path == "" {
		return nil, &NotFoundError{Name: name, Attempted: candidates}
	}

	if xlsxparser.IsSpreadsheet(path) {
		rows, err := xlsxparser.ReadRows(path)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = [][]string{}
		}
		return &Document{Source: SourceFile, Path: path, Rows: rows}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	lines, layout, err := readLines(file, encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Document{Source: SourceFile, Path: path, Lines: lines, Layout: layout}, nil
}

// =============================================================================
// STREAM AND CLIPBOARD INPUT
// =============================================================================

// ReadStream reads pasted text from r until EOF.
func ReadStream(r io.Reader, encodingName string) (*Document, error) {
	lines, _, err := readLines(r, encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return &Document{Source: SourceStdin, Lines: lines}, nil
}

// clipboardRead is swapped out in tests.
var clipboardRead = clipboard.ReadAll

// ReadClipboard reads the clipboard's text content.
func ReadClipboard() (*Document, error) {
	if clipboard.Unsupported {
		return nil, ErrClipboardUnavailable
	}

	text, err := clipboardRead()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}

	return &Document{Source: SourceClipboard, Lines: SplitLines(strings.TrimPrefix(text, "\ufeff"))}, nil
}

// =============================================================================
// DECODING
// =============================================================================

// Byte-order markers recognized at the start of a text file.
var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// readLines decodes r, splits it into lines and reports how the text was
// stored.
func readLines(r io.Reader, encodingName string) ([]string, types.TextLayout, error) {
	layout := types.TextLayout{}

	canonical, err := canonicalEncoding(encodingName)
	if err != nil {
		return nil, layout, err
	}
	decoder, err := newDecoder(canonical)
	if err != nil {
		return nil, layout, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, layout, err
	}

	layout.Encoding = canonical
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		layout.Encoding, layout.BOM = "utf-8", true
	case bytes.HasPrefix(raw, bomUTF16LE):
		layout.Encoding, layout.BOM = "utf-16", true
	case bytes.HasPrefix(raw, bomUTF16BE):
		layout.Encoding, layout.BOM = "utf-16be", true
	}

	data, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return nil, layout, err
	}
	text := string(data)

	layout.LineEnding = lineEnding(text)
	layout.TrailingNewline = strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r")

	return SplitLines(text), layout, nil
}

// lineEnding returns the first line terminator in text, or "" if none.
func lineEnding(text string) string {
	i := strings.IndexAny(text, "\r\n")
	switch {
	case i < 0:
		return ""
	case strings.HasPrefix(text[i:], "\r\n"):
		return "\r\n"
	default:
		return text[i : i+1]
	}
}

// canonicalEncoding maps the accepted spellings of an encoding name to the
// name recorded in a TextLayout.
func canonicalEncoding(encodingName string) (string, error) {
	switch strings.ToLower(encodingName) {
	case "", "utf-8", "utf8":
		return "utf-8", nil
	case "utf-16", "utf16":
		return "utf-16", nil
	case "windows-1252", "cp1252":
		return "windows-1252", nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encodingName)
	}
}

// newDecoder returns a decoder for a canonical encoding name that honours a
// byte-order marker when one is present.
func newDecoder(canonical string) (transform.Transformer, error) {
	enc, err := utils.LookupEncoding(canonical)
	if err != nil {
		return nil, err
	}
	if canonical == "utf-8" {
		enc = unicode.UTF8BOM
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

// SplitLines splits text into lines, accepting \n, \r\n and \r endings. A
// single trailing line ending does not produce an extra empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
