package fileops

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestEnsureHardlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "downloads", "movie.mkv")
	destDir := filepath.Join(dir, "library")
	writeFile(t, source, "video-bytes")

	linked, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "movie.mkv"), linked)

	srcInfo, err := os.Stat(source)
	require.NoError(t, err)
	dstInfo, err := os.Stat(linked)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo))
}

// A second call finds the existing link by filesystem identity and skips
func TestEnsureHardlinkIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "downloads", "movie.mkv")
	destDir := filepath.Join(dir, "library")
	writeFile(t, source, "video-bytes")

	_, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)

	linked, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)
	assert.Empty(t, linked)
}

// The identity check still matches after the linked file was renamed
func TestEnsureHardlinkSkipsAfterRename(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "downloads", "movie.mkv")
	destDir := filepath.Join(dir, "library")
	writeFile(t, source, "video-bytes")

	linked, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)
	require.NoError(t, os.Rename(linked, filepath.Join(destDir, "The Movie.2020.mkv")))

	again, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)
	assert.Empty(t, again)

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// A same-named file with a different identity is never overwritten
func TestEnsureHardlinkConflict(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "downloads", "movie.mkv")
	destDir := filepath.Join(dir, "library")
	writeFile(t, source, "video-bytes")
	writeFile(t, filepath.Join(destDir, "movie.mkv"), "someone else")

	linked, err := EnsureHardlink(source, destDir, testLogger())
	require.NoError(t, err)
	assert.Empty(t, linked)

	data, err := os.ReadFile(filepath.Join(destDir, "movie.mkv"))
	require.NoError(t, err)
	assert.Equal(t, "someone else", string(data))
}

func TestEnsureHardlinkMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := EnsureHardlink(filepath.Join(dir, "nope.mkv"), filepath.Join(dir, "out"), testLogger())
	assert.Error(t, err)
}
