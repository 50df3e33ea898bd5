package fileops

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ProcessedLog is the flat append-only record of fully processed source
// paths. It is an optimization on top of the identity-based duplicate
// check, not a correctness mechanism: membership is an exact match on
// the trimmed source path, with no alias normalization.
type ProcessedLog struct {
	path string
	mu   sync.Mutex
}

// NewProcessedLog creates a processed log backed by the given file
func NewProcessedLog(path string) *ProcessedLog {
	return &ProcessedLog{path: path}
}

// Load reads the log into an in-memory set, once per run.
// A missing file is an empty set, not an error.
func (l *ProcessedLog) Load() (map[string]struct{}, error) {
	set := make(map[string]struct{})

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("failed to open processed log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read processed log: %w", err)
	}

	return set, nil
}

// Append records one fully processed source path
func (l *ProcessedLog) Append(sourcePath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open processed log: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, strings.TrimSpace(sourcePath)); err != nil {
		return fmt.Errorf("failed to append to processed log: %w", err)
	}
	return nil
}
