package fileops

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedLogMissingFileIsEmpty(t *testing.T) {
	log := NewProcessedLog(filepath.Join(t.TempDir(), "processed.log"))
	set, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestProcessedLogAppendAndLoad(t *testing.T) {
	log := NewProcessedLog(filepath.Join(t.TempDir(), "processed.log"))

	require.NoError(t, log.Append("/downloads/a.mkv"))
	require.NoError(t, log.Append("/downloads/b.mkv"))
	require.NoError(t, log.Append("  /downloads/c.mkv  "))

	set, err := log.Load()
	require.NoError(t, err)
	assert.Len(t, set, 3)
	assert.Contains(t, set, "/downloads/a.mkv")
	assert.Contains(t, set, "/downloads/c.mkv")
}

func TestProcessedLogConcurrentAppends(t *testing.T) {
	log := NewProcessedLog(filepath.Join(t.TempDir(), "processed.log"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, log.Append(filepath.Join("/downloads", string(rune('a'+n))+".mkv")))
		}(i)
	}
	wg.Wait()

	set, err := log.Load()
	require.NoError(t, err)
	assert.Len(t, set, 20)
}
