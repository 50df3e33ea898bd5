// Package parser turns loosely structured media filenames into a
// typed identity (movie, episode or unknown). Parsing is pure and
// never fails; the worst case is an Unknown identity with a cleaned
// best-effort title.
package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/linkarr/linkarr/internal/models"
)

var (
	// Breaking.Bad.S01E01.Pilot.1080p -> title="Breaking Bad", season="01", episode="01"
	episodeRe = regexp.MustCompile(`(?i)^(.*?)[\s._-]*s(\d{1,2})[\s._-]*e(\d{1,3})`)

	// The.Matrix.1999 or The Matrix (1999) -> title="The Matrix", year="1999"
	movieRe = regexp.MustCompile(`^(.*?)(?:[\s._-]*\((\d{4})\)|[\s._-](\d{4}))[\s._-]*$`)

	// Trailing year fragment stripped from candidate titles
	trailingYearRe = regexp.MustCompile(`[\s._-]*\(?\d{4}\)?[\s._-]*$`)
)

// Parse extracts a media identity from a raw filename.
// Patterns are attempted in priority order: episode marker, trailing
// movie year, then a cleaned-title fallback. A title that becomes empty
// after stripping abandons that pattern and the next one is attempted,
// so a file literally named S01E01.mkv falls through to Unknown.
func Parse(filename string) models.MediaIdentity {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	name := strings.NewReplacer(".", " ", "_", " ").Replace(stem)

	if id, ok := parseEpisode(name); ok {
		return id
	}
	if id, ok := parseMovie(name); ok {
		return id
	}

	title := cleanTitle(trailingYearRe.ReplaceAllString(name, ""))
	if title == "" {
		title = strings.TrimSpace(stem)
	}
	return models.MediaIdentity{Kind: models.KindUnknown, Title: title}
}

// parseEpisode matches an SxxEyy marker anywhere in the name.
// Season and episode digits are preserved verbatim, zero padding included.
func parseEpisode(name string) (models.MediaIdentity, bool) {
	m := episodeRe.FindStringSubmatch(name)
	if m == nil {
		return models.MediaIdentity{}, false
	}

	title := cleanTitle(trailingYearRe.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	if title == "" {
		return models.MediaIdentity{}, false
	}

	return models.MediaIdentity{
		Kind:    models.KindEpisode,
		Title:   title,
		Season:  m[2],
		Episode: m[3],
	}, true
}

// parseMovie matches a trailing 4-digit year, optionally parenthesized
func parseMovie(name string) (models.MediaIdentity, bool) {
	m := movieRe.FindStringSubmatch(name)
	if m == nil {
		return models.MediaIdentity{}, false
	}

	title := cleanTitle(m[1])
	if title == "" {
		return models.MediaIdentity{}, false
	}

	year := m[2]
	if year == "" {
		year = m[3]
	}

	return models.MediaIdentity{
		Kind:  models.KindMovie,
		Title: title,
		Year:  year,
	}, true
}

// cleanTitle strips trailing separator punctuation left over from matching
func cleanTitle(title string) string {
	return strings.TrimRight(strings.TrimSpace(title), " .-_")
}
