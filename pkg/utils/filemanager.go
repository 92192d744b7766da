// =============================================================================
// Extension Request Processor - File Manager Utility
// =============================================================================
//
// This module provides file management utilities shared by the writers:
//   - Directory management
//   - Whole-file writes with a UTF-8 byte-order marker
//   - Whole-file writes in a named text encoding
//   - Processed-copy path derivation
//   - Input file lookup
//
// WRITE STRATEGY:
//   - Every file's content is built fully in memory before it is written
//   - A file is created, written, and closed before the next one is opened
//   - CSV artifacts start with a byte-order marker so spreadsheet programs
//     detect UTF-8 and keep accented names intact
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ProcessedSuffix is inserted before the extension of the processed copy.
const ProcessedSuffix = "_PROCESSED"

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectory creates dir and any missing parents.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteBOMFile writes content to path as UTF-8 preceded by a byte-order
// marker. An existing file is truncated.
//
// PARAMETERS:
//   - path: The destination file.
//   - content: The complete file content, without a BOM.
//
// RETURNS:
//   - An error if the file cannot be created, written, or closed.
func WriteBOMFile(path, content string) error {
	return writeEncoded(path, content, unicode.UTF8BOM.NewEncoder())
}

// WriteTextFile writes content to path as plain UTF-8.
func WriteTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteEncodedFile writes content to path in the named encoding.
//
// PARAMETERS:
//   - path: The destination file.
//   - content: The complete file content, without a BOM.
//   - encodingName: "utf-8", "utf-16", "utf-16be" or "windows-1252".
//     Empty means UTF-8.
//   - bom: Start the file with a byte-order marker. Ignored for
//     windows-1252, which has none.
//
// RETURNS:
//   - An error for an unknown encoding, a character the encoding cannot
//     represent, or a failed write.
func WriteEncodedFile(path, content, encodingName string, bom bool) error {
	var enc encoding.Encoding
	switch strings.ToLower(encodingName) {
	case "", "utf-8", "utf8":
		if bom {
			return WriteBOMFile(path, content)
		}
		return WriteTextFile(path, content)
	case "utf-16", "utf16":
		enc = unicode.UTF16(unicode.LittleEndian, bomPolicy(bom))
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, bomPolicy(bom))
	default:
		var err error
		if enc, err = LookupEncoding(encodingName); err != nil {
			return err
		}
	}
	return writeEncoded(path, content, enc.NewEncoder())
}

// LookupEncoding returns the text encoding for a name accepted by the
// input_encoding setting. UTF-16 without a byte-order marker is read as
// little-endian.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

func bomPolicy(bom bool) unicode.BOMPolicy {
	if bom {
		return unicode.UseBOM
	}
	return unicode.IgnoreBOM
}

// writeEncoded creates path and writes content through encoder.
func writeEncoded(path, content string, encoder *encoding.Encoder) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	buffered := bufio.NewWriter(file)
	writer := transform.NewWriter(buffered, encoder)

	if _, err := writer.Write([]byte(content)); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// ProcessedCopyPath derives the processed-copy path by inserting
// ProcessedSuffix before the extension of inputPath.
//
// EXAMPLE:
//
//	"exports/COMM 495.csv" -> "exports/COMM 495_PROCESSED.csv"
//	"requests"             -> "requests_PROCESSED"
func ProcessedCopyPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + ProcessedSuffix + ext
}

// =============================================================================
// INPUT LOOKUP
// =============================================================================

// CandidatePaths returns the locations tried when opening name: name itself,
// then, for relative names, the same name beside the running executable.
func CandidatePaths(name string) []string {
	paths := []string{name}
	if filepath.IsAbs(name) {
		return paths
	}

	exe, err := os.Executable()
	if err != nil {
		return paths
	}

	beside := filepath.Join(filepath.Dir(exe), name)
	if beside != name {
		paths = append(paths, beside)
	}
	return paths
}

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
