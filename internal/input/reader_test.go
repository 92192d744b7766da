package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/internal/xlsxparser"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSplitLines(t *testing.T) {
	tests := map[string][]string{
		"":                {},
		"a":               {"a"},
		"a\n":             {"a"},
		"a\r\nb\r\n":      {"a", "b"},
		"a\rb":            {"a", "b"},
		"a\n\nb":          {"a", "", "b"},
		"header\nrow\n\n": {"header", "row", ""},
	}

	for in, want := range tests {
		assert.Equal(t, want, SplitLines(in), "%q", in)
	}
}

func TestReadFileStripsBOMAndCRLF(t *testing.T) {
	path := writeFile(t, "COMM 495 - Project Management F2025.csv",
		[]byte("\xef\xbb\xbfEmail,Name\r\na@example.com,Alice\r\n"))

	doc, err := ReadFile(path, "utf-8")
	require.NoError(t, err)

	assert.Equal(t, SourceFile, doc.Source)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, []string{"Email,Name", "a@example.com,Alice"}, doc.Lines)
	assert.False(t, doc.IsSpreadsheet())
	assert.True(t, doc.HasData())
	assert.Equal(t, types.TextLayout{Encoding: "utf-8", BOM: true, LineEnding: "\r\n", TrailingNewline: true}, doc.Layout)
}

func TestReadFileLayout(t *testing.T) {
	tests := map[string]struct {
		data     []byte
		encoding string
		want     types.TextLayout
	}{
		"plain lf": {
			data: []byte("a\nb"),
			want: types.TextLayout{Encoding: "utf-8", LineEnding: "\n"},
		},
		"crlf with trailing newline": {
			data: []byte("a\r\nb\r\n"),
			want: types.TextLayout{Encoding: "utf-8", LineEnding: "\r\n", TrailingNewline: true},
		},
		"old mac": {
			data: []byte("a\rb\r"),
			want: types.TextLayout{Encoding: "utf-8", LineEnding: "\r", TrailingNewline: true},
		},
		"single line": {
			data: []byte("a"),
			want: types.TextLayout{Encoding: "utf-8"},
		},
		"utf-16 big-endian marker": {
			data:     []byte{0xfe, 0xff, 0, 'A', 0, '\n', 0, 'B'},
			encoding: "utf-16",
			want:     types.TextLayout{Encoding: "utf-16be", BOM: true, LineEnding: "\n"},
		},
		"windows-1252": {
			data:     []byte("Zo\xeb\n"),
			encoding: "cp1252",
			want:     types.TextLayout{Encoding: "windows-1252", LineEnding: "\n", TrailingNewline: true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.encoding == "" {
				tt.encoding = "utf-8"
			}
			doc, err := ReadFile(writeFile(t, "in.csv", tt.data), tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Layout)
		})
	}
}

func TestReadFileWindows1252(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("Name\nZo\xeb\n"))

	doc, err := ReadFile(path, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Zoë"}, doc.Lines)
}

func TestReadFileUTF16WithBOM(t *testing.T) {
	// "A\nB" in UTF-16LE with a BOM.
	path := writeFile(t, "in.csv", []byte{0xff, 0xfe, 'A', 0, '\n', 0, 'B', 0})

	doc, err := ReadFile(path, "utf-16")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, doc.Lines)
}

func TestReadFileUnsupportedEncoding(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("x"))

	_, err := ReadFile(path, "ebcdic")
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	_, err := ReadFile(missing, "utf-8")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{missing}, notFound.Attempted)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestReadFileWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, xlsxparser.WriteRows(path, [][]string{
		{"Email", "Name"},
		{"a@example.com", "Alice"},
	}))

	doc, err := ReadFile(path, "utf-8")
	require.NoError(t, err)

	assert.True(t, doc.IsSpreadsheet())
	assert.Nil(t, doc.Lines)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"a@example.com", "Alice"}, doc.Rows[1])
}

func TestReadStream(t *testing.T) {
	doc, err := ReadStream(strings.NewReader("header\nrow1\nrow2\n"), "utf-8")
	require.NoError(t, err)

	assert.Equal(t, SourceStdin, doc.Source)
	assert.Empty(t, doc.Path)
	assert.Equal(t, []string{"header", "row1", "row2"}, doc.Lines)
}

func TestHasData(t *testing.T) {
	assert.False(t, (&Document{}).HasData())
	assert.False(t, (&Document{Lines: []string{"", "  "}}).HasData())
	assert.False(t, (&Document{Rows: [][]string{{"", " "}}}).HasData())
	assert.True(t, (&Document{Rows: [][]string{{"", "x"}}}).HasData())
}

func TestReadClipboard(t *testing.T) {
	original := clipboardRead
	t.Cleanup(func() { clipboardRead = original })
	clipboardRead = func() (string, error) {
		return "\ufeffEmail\r\na@example.com", nil
	}

	doc, err := ReadClipboard()
	if clipboard.Unsupported {
		assert.ErrorIs(t, err, ErrClipboardUnavailable)
		return
	}

	require.NoError(t, err)
	assert.Equal(t, SourceClipboard, doc.Source)
	assert.Equal(t, []string{"Email", "a@example.com"}, doc.Lines)
}
