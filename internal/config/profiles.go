package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/linkarr/linkarr/internal/models"
	"github.com/linkarr/linkarr/internal/renamer"
)

const (
	defaultMaxConcurrency = 4
	maxConcurrencyLimit   = 16
)

// defaultExtensions is the extension filter applied when a profile
// leaves its own filter empty
var defaultExtensions = []string{".mp4", ".mkv", ".avi", ".mov"}

// ProfileStore persists scan profiles as a JSON file.
// Validation happens here, at the save boundary, so bad templates and
// malformed profiles never reach the pipeline.
type ProfileStore struct {
	path          string
	defaultAPIKey string
	mu            sync.Mutex
}

// NewProfileStore creates a profile store backed by the given file.
// defaultAPIKey fills in profiles that carry no key of their own.
func NewProfileStore(path, defaultAPIKey string) *ProfileStore {
	return &ProfileStore{path: path, defaultAPIKey: defaultAPIKey}
}

// Load returns the persisted profiles in order.
// A missing file yields an empty list.
func (s *ProfileStore) Load() ([]models.ScanProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var profiles []models.ScanProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	for i := range profiles {
		applyDefaults(&profiles[i], s.defaultAPIKey)
	}
	return profiles, nil
}

// Save validates and persists the full profile list atomically
func (s *ProfileStore) Save(profiles []models.ScanProfile) error {
	seen := make(map[string]struct{}, len(profiles))
	for i := range profiles {
		applyDefaults(&profiles[i], s.defaultAPIKey)
		if err := validateProfile(&profiles[i]); err != nil {
			return fmt.Errorf("profile %q: %w", profiles[i].Name, err)
		}
		if _, dup := seen[profiles[i].Name]; dup {
			return fmt.Errorf("duplicate profile name %q", profiles[i].Name)
		}
		seen[profiles[i].Name] = struct{}{}
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profiles-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move profiles into place: %w", err)
	}
	return nil
}

// Get returns one profile by name
func (s *ProfileStore) Get(name string) (*models.ScanProfile, error) {
	profiles, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile %q not found", name)
}

func applyDefaults(p *models.ScanProfile, defaultAPIKey string) {
	if p.CatalogAPIKey == "" {
		p.CatalogAPIKey = defaultAPIKey
	}
	if len(p.FileExtensions) == 0 {
		p.FileExtensions = append([]string(nil), defaultExtensions...)
	}
	if p.MediaTypeHint == "" {
		p.MediaTypeHint = models.MediaTypeMovie
	}
	if p.MaxConcurrency <= 0 {
		p.MaxConcurrency = defaultMaxConcurrency
	}
	if p.MaxConcurrency > maxConcurrencyLimit {
		p.MaxConcurrency = maxConcurrencyLimit
	}
}

func validateProfile(p *models.ScanProfile) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.PathMappings) == 0 {
		return fmt.Errorf("at least one source/target path mapping is required")
	}
	for _, m := range p.PathMappings {
		if m.Source == "" || m.Target == "" {
			return fmt.Errorf("path mappings need both source and target")
		}
	}
	if p.MediaTypeHint != models.MediaTypeMovie && p.MediaTypeHint != models.MediaTypeShow {
		return fmt.Errorf("media_type must be %q or %q", models.MediaTypeMovie, models.MediaTypeShow)
	}
	if err := renamer.Validate(p.RenameTemplate); err != nil {
		return fmt.Errorf("invalid rename template: %w", err)
	}
	if p.IntervalMinutes < 0 {
		return fmt.Errorf("schedule_interval must not be negative")
	}
	return nil
}
