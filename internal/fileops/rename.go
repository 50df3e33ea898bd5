package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// sidecarSuffixes are the sidecar file suffixes that share a media
// file's base stem and must follow it through a rename
var sidecarSuffixes = []string{".nfo", "-poster.jpg", "-thumb.jpg"}

// RenameWithSidecars renames the media file at currentPath to
// newBase (extension preserved) inside dir, then moves every sidecar
// matching the old base to the new base. Sidecars are only touched
// after the primary rename succeeds, and a stale old-named sidecar is
// removed when a new-named one already exists, so old and new sidecars
// never coexist after a successful call.
func RenameWithSidecars(currentPath, newBase, dir string, logger *logrus.Logger) (string, error) {
	ext := filepath.Ext(currentPath)
	oldName := filepath.Base(currentPath)
	oldBase := strings.TrimSuffix(oldName, ext)
	newName := newBase + ext
	newPath := filepath.Join(dir, newName)

	if newName == oldName {
		return currentPath, nil
	}

	if _, err := os.Lstat(newPath); err == nil {
		return "", fmt.Errorf("rename target already exists: %s", newPath)
	}

	if err := os.Rename(currentPath, newPath); err != nil {
		return "", fmt.Errorf("failed to rename media file: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"from": currentPath,
		"to":   newPath,
	}).Info("Renamed media file")

	for _, suffix := range sidecarSuffixes {
		oldSidecar := filepath.Join(dir, oldBase+suffix)
		if _, err := os.Lstat(oldSidecar); err != nil {
			continue
		}
		newSidecar := filepath.Join(dir, newBase+suffix)
		if _, err := os.Lstat(newSidecar); err == nil {
			if err := os.Remove(oldSidecar); err != nil {
				logger.WithError(err).WithField("sidecar", oldSidecar).Warn("Failed to remove stale sidecar")
			}
			continue
		}
		if err := os.Rename(oldSidecar, newSidecar); err != nil {
			logger.WithError(err).WithField("sidecar", oldSidecar).Warn("Failed to move sidecar")
		}
	}

	return newPath, nil
}
