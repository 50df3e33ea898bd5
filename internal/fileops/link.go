// Package fileops implements the filesystem side of the pipeline:
// hardlink creation with identity-based duplicate detection, rename
// sequencing that keeps sidecars consistent, and the flat processed
// log used to skip work across runs.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// EnsureHardlink links source into destDir under its original name.
// Before linking, destDir is scanned for any regular file sharing the
// source's filesystem identity; a match means the file was linked (and
// possibly renamed) by an earlier run, and an empty path is returned to
// signal skip. A same-named file with a different identity is a
// conflicting pre-existing file and is also skipped, never overwritten.
// This identity check is what keeps repeated runs idempotent even after
// the link has been renamed.
func EnsureHardlink(sourcePath, destDir string, logger *logrus.Logger) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcInfo, err := os.Stat(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat source: %w", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to read destination directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if os.SameFile(srcInfo, info) {
			logger.WithFields(logrus.Fields{
				"source":   sourcePath,
				"existing": filepath.Join(destDir, entry.Name()),
			}).Debug("Source already linked into destination, skipping")
			return "", nil
		}
	}

	destPath := filepath.Join(destDir, filepath.Base(sourcePath))
	if _, err := os.Lstat(destPath); err == nil {
		// same name, different file identity
		logger.WithField("path", destPath).Warn("Destination exists with a different identity, skipping")
		return "", nil
	}

	if err := os.Link(sourcePath, destPath); err != nil {
		return "", fmt.Errorf("failed to create hardlink: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"source": sourcePath,
		"dest":   destPath,
	}).Info("Created hardlink")
	return destPath, nil
}
