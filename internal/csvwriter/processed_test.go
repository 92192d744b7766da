package csvwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/csvparser"
	"github.com/ginjaninja78/extension-requests/internal/input"
	"github.com/ginjaninja78/extension-requests/internal/types"
	"github.com/ginjaninja78/extension-requests/internal/xlsxparser"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

func formsHeader(delimiter string, withDone bool) string {
	cols := config.DefaultColumns()
	names := []string{cols.Email, cols.Name, cols.Assignment, cols.Date}
	if withDone {
		names = append(names, cols.Done)
	}
	return strings.Join(names, delimiter)
}

func parse(t *testing.T, lines []string) *types.TableMetadata {
	t.Helper()
	_, _, meta := csvparser.ParseTable(lines, config.DefaultColumns())
	require.NotNil(t, meta)
	return meta
}

func TestRenderProcessedCopy(t *testing.T) {
	meta := parse(t, []string{
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,",
		"b@example.com,Bob,HW1,02/05/2024,*",
		`c@example.com,"Carr, Cy",HW2,02/06/2024`,
		"d@example.com,Dee,HW2,bad,",
	})

	content, err := RenderProcessedCopy(meta, map[int]bool{2: true, 4: true})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,*",
		"b@example.com,Bob,HW1,02/05/2024,*",
		`c@example.com,"Carr, Cy",HW2,02/06/2024,*`,
		"d@example.com,Dee,HW2,bad,",
	}, "\n"), content)
}

func TestRenderProcessedCopyKeepsTabs(t *testing.T) {
	meta := parse(t, []string{
		formsHeader("\t", true),
		"a@example.com\tSmith, Al\tHW1\t01/30/2024\t",
	})

	content, err := RenderProcessedCopy(meta, map[int]bool{2: true})
	require.NoError(t, err)

	assert.Equal(t, formsHeader("\t", true)+"\na@example.com\tSmith, Al\tHW1\t01/30/2024\t*", content)
}

func TestWriteProcessedCopy(t *testing.T) {
	input := filepath.Join(t.TempDir(), "requests.csv")
	meta := parse(t, []string{
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,",
	})

	path, err := WriteProcessedCopy(input, meta, map[int]bool{2: true}, false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(input), "requests_PROCESSED.csv"), path)
	assert.Equal(t, formsHeader(",", true)+"\na@example.com,Alice,HW1,01/30/2024,*", readFile(t, path))
}

func TestWriteProcessedCopyKeepsLayout(t *testing.T) {
	original := strings.Join([]string{
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,",
		"b@example.com,Bob,HW1,02/05/2024,",
		"",
	}, "\r\n")
	meta := parse(t, input.SplitLines(original))
	meta.Layout = types.TextLayout{Encoding: "utf-8", LineEnding: "\r\n", TrailingNewline: true}
	path := filepath.Join(t.TempDir(), "requests.csv")

	got, err := WriteProcessedCopy(path, meta, map[int]bool{2: true, 3: true}, false)
	require.NoError(t, err)

	want := strings.ReplaceAll(original, "2024,\r\n", "2024,*\r\n")
	assert.Equal(t, want, readFile(t, got))
}

func TestWriteProcessedCopyEncodings(t *testing.T) {
	tests := map[string]struct {
		layout types.TextLayout
		want   []byte
	}{
		"utf-8 with marker": {
			layout: types.TextLayout{Encoding: "utf-8", BOM: true, LineEnding: "\n"},
			want:   []byte(bom + "Done?\n*"),
		},
		"utf-16 with marker": {
			layout: types.TextLayout{Encoding: "utf-16", BOM: true, LineEnding: "\n"},
			want:   []byte{0xff, 0xfe, 'D', 0, 'o', 0, 'n', 0, 'e', 0, '?', 0, '\n', 0, '*', 0},
		},
		"windows-1252": {
			layout: types.TextLayout{Encoding: "windows-1252", LineEnding: "\n"},
			want:   []byte("Done?\n*"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			meta := &types.TableMetadata{
				Delimiter:  ',',
				Columns:    types.ColumnMap{Done: 0},
				HeaderText: "Done?",
				HeaderRow:  1,
				Rows:       []types.RawRow{{Number: 2, Fields: []string{""}, Text: ""}},
				Lines:      []string{"Done?", ""},
				Layout:     tt.layout,
			}
			path := filepath.Join(t.TempDir(), "requests.csv")

			got, err := WriteProcessedCopy(path, meta, map[int]bool{2: true}, false)
			require.NoError(t, err)

			data, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestRenderProcessedCopyKeepsBlankLines(t *testing.T) {
	meta := parse(t, []string{
		"",
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,",
		"",
		"b@example.com,Bob,HW1,02/05/2024,",
	})

	content, err := RenderProcessedCopy(meta, map[int]bool{5: true})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"",
		formsHeader(",", true),
		"a@example.com,Alice,HW1,01/30/2024,",
		"",
		"b@example.com,Bob,HW1,02/05/2024,*",
	}, "\n"), content)
}

func TestWriteProcessedCopyDryRun(t *testing.T) {
	input := filepath.Join(t.TempDir(), "requests.csv")
	meta := parse(t, []string{formsHeader(",", true)})

	path, err := WriteProcessedCopy(input, meta, nil, true)
	require.NoError(t, err)

	assert.Equal(t, utils.ProcessedCopyPath(input), path)
	assert.NoFileExists(t, path)
}

func TestWriteProcessedCopyUnavailable(t *testing.T) {
	withDone := parse(t, []string{formsHeader(",", true)})
	withoutDone := parse(t, []string{formsHeader(",", false)})

	_, err := WriteProcessedCopy("in.csv", nil, nil, false)
	assert.ErrorIs(t, err, ErrNoMetadata)

	_, err = WriteProcessedCopy("", withDone, nil, false)
	assert.ErrorIs(t, err, ErrNoInputPath)

	_, err = WriteProcessedCopy("in.csv", withoutDone, nil, false)
	assert.ErrorIs(t, err, ErrNoDoneColumn)
}

func TestWriteProcessedCopyWorkbook(t *testing.T) {
	input := filepath.Join(t.TempDir(), "export.xlsx")
	cols := config.DefaultColumns()
	rows := [][]string{
		{cols.Email, cols.Name, cols.Assignment, cols.Date, cols.Done},
		{"a@example.com", "Alice", "HW1", "01/30/2024"},
		{"b@example.com", "Bob", "HW1", "02/05/2024"},
	}
	require.NoError(t, xlsxparser.WriteRows(input, rows))
	_, _, meta := csvparser.ParseRows(rows, ',', cols)
	require.NotNil(t, meta)

	path, err := WriteProcessedCopy(input, meta, map[int]bool{3: true}, false)
	require.NoError(t, err)
	assert.Equal(t, utils.ProcessedCopyPath(input), path)

	got, err := xlsxparser.ReadRows(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b@example.com", "Bob", "HW1", "02/05/2024", "*"}, got[2])
	assert.Len(t, got[1], 4)
}
