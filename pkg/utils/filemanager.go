// =============================================================================
// Regional Climate CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides the filesystem helpers used by the converter:
//   - Input/output path construction from file stems
//   - Atomic file writes (temp file + rename)
//   - Directory management
//
// All helpers take an afero.Fs so the converter runs unchanged against the
// OS filesystem or an in-memory filesystem in tests.
//
// ATOMIC WRITE STRATEGY:
//   - Data is written to ".<name>.<uuid>.tmp" in the destination directory
//   - The temp file is renamed over the destination on success
//   - The temp file is removed on any failure
//   A reader never observes a half-written output file.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// =============================================================================
// PATHS
// =============================================================================

const (
	// InputExt is the extension of the source text files.
	InputExt = ".txt"

	// CSVExt is the extension of the converted files.
	CSVExt = ".csv"

	// XLSXExt is the extension of the optional spreadsheet export.
	XLSXExt = ".xlsx"
)

// FileManager resolves file stems to paths and writes outputs.
type FileManager struct {
	// Fs is the filesystem all operations go through.
	Fs afero.Fs

	// InputDir is the directory containing <stem>.txt files.
	InputDir string

	// OutputDir is the directory receiving <stem>.csv files.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(fs afero.Fs, inputDir, outputDir string) *FileManager {
	return &FileManager{
		Fs:        fs,
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// InputPath returns <InputDir>/<stem>.txt.
func (fm *FileManager) InputPath(stem string) string {
	return filepath.Join(fm.InputDir, stem+InputExt)
}

// OutputPath returns <OutputDir>/<stem><ext>.
func (fm *FileManager) OutputPath(stem, ext string) string {
	return filepath.Join(fm.OutputDir, stem+ext)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureOutputDir creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := fm.Fs.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// READING
// =============================================================================

// Open opens the input file for a stem. A missing file yields an error
// matching fs.ErrNotExist.
func (fm *FileManager) Open(stem string) (afero.File, error) {
	file, err := fm.Fs.Open(fm.InputPath(stem))
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return file, nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path through a temporary file in the same
// directory and renames it into place.
//
// PARAMETERS:
//   - fs: The filesystem to write to.
//   - path: The destination path. Overwritten if it exists.
//   - data: The complete file contents.
//
// RETURNS:
//   - An error if the temp file cannot be written or renamed. The
//     destination is left untouched in that case.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir, name := filepath.Split(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.New().String()))

	file, err := fs.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
