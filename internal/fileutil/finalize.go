// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OwnerReadWrite is the mode of every file written by vault.
const OwnerReadWrite os.FileMode = 0o600

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	OutPath string
	TmpFile *os.File
	TmpName string
}

// NewTempContext creates a temp file next to outPath for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(outPath string) (*TempContext, error) {
	dir := filepath.Dir(outPath)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking output directory %q: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %q is not a directory", dir)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		OutPath: outPath,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:gosec // best-effort cleanup
	}
}

// Commit sets permissions, closes the temp file and renames it over OutPath.
func (tc *TempContext) Commit() error {
	if err := os.Chmod(tc.TmpName, OwnerReadWrite); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Sync(); err != nil {
		return fmt.Errorf("syncing temporary file: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, tc.OutPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// FinalizeOutput optionally preserves timestamps and returns the output file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps && !modTime.IsZero() {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}
