package models

import "strings"

// PathMapping pairs a scan source directory with its hardlink target root
type PathMapping struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ScanProfile is a named, independently schedulable scan configuration
type ScanProfile struct {
	Name            string        `json:"name"`
	MediaTypeHint   MediaType     `json:"media_type"`
	FileExtensions  []string      `json:"file_extensions"`
	CatalogAPIKey   string        `json:"tmdb_api_key"`
	PathMappings    []PathMapping `json:"paths"`
	RenameTemplate  string        `json:"rename_template"`
	ScrapeMetadata  bool          `json:"scrape_metadata"`
	RenameFile      bool          `json:"rename_file"`
	MaxConcurrency  int           `json:"max_concurrency"`
	IntervalMinutes int           `json:"schedule_interval"`
	Enabled         bool          `json:"enabled"`
}

// ExtensionSet returns the extension filter as a lowercase lookup set.
// Entries are normalized to carry a leading dot.
func (p *ScanProfile) ExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.FileExtensions))
	for _, ext := range p.FileExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
