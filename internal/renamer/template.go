// Package renamer renders output base names from user-supplied
// templates. Templates are validated once at profile-save time; a bad
// template that still reaches a run falls back to the built-in default
// for the media kind instead of aborting the file.
package renamer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/linkarr/linkarr/internal/models"
)

const (
	// DefaultMovieTemplate names movies as Title.Year
	DefaultMovieTemplate = "{title}.{year}"
	// DefaultEpisodeTemplate names episodes as Title.SxxEyy
	DefaultEpisodeTemplate = "{title}.{season_episode}"
	// DefaultUnknownTemplate keeps just the title
	DefaultUnknownTemplate = "{title}"
)

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// knownPlaceholders is the full placeholder set templates may use
var knownPlaceholders = map[string]struct{}{
	"title":          {},
	"year":           {},
	"season":         {},
	"episode":        {},
	"season_episode": {},
	"episode_title":  {},
}

// unsafeChars are characters never allowed in a rendered file name
var unsafeChars = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")

// Validate checks a template against the known placeholder set.
// Called at the profile-save boundary so bad templates are rejected
// before they can cost a run-time fallback on every file.
func Validate(template string) error {
	if strings.TrimSpace(template) == "" {
		return nil // empty means use the per-kind default
	}
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if _, ok := knownPlaceholders[m[1]]; !ok {
			return fmt.Errorf("unknown placeholder {%s}", m[1])
		}
	}
	return nil
}

// DefaultTemplate returns the built-in template for an identity kind
func DefaultTemplate(kind models.MediaKind) string {
	switch kind {
	case models.KindEpisode:
		return DefaultEpisodeTemplate
	case models.KindMovie:
		return DefaultMovieTemplate
	default:
		return DefaultUnknownTemplate
	}
}

// Render expands a template into a sanitized file base name.
// Metadata values win over parsed identity values when present.
// An unknown placeholder returns an error so the caller can fall back
// to the default template and log the template problem.
func Render(template string, meta *models.MediaMetadata, identity models.MediaIdentity) (string, error) {
	values := placeholderValues(meta, identity)

	var bad string
	rendered := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok {
			bad = name
			return m
		}
		return v
	})
	if bad != "" {
		return "", fmt.Errorf("unknown placeholder {%s}", bad)
	}

	rendered = strings.TrimSpace(unsafeChars.Replace(rendered))
	if rendered == "" {
		return "", fmt.Errorf("template %q rendered an empty name", template)
	}
	return rendered, nil
}

// placeholderValues assembles the substitution map for one file
func placeholderValues(meta *models.MediaMetadata, identity models.MediaIdentity) map[string]string {
	title := identity.Title
	year := identity.Year
	episodeTitle := ""

	if meta != nil {
		if meta.Title != "" {
			title = meta.Title
		}
		if meta.Year != "" {
			year = meta.Year
		}
		episodeTitle = meta.EpisodeTitle()
	}
	if year == "" {
		year = "Unknown"
	}

	season := identity.Season
	if season == "" {
		season = "00"
	}
	episode := identity.Episode
	if episode == "" {
		episode = "00"
	}

	seasonEpisode := ""
	if identity.Kind == models.KindEpisode {
		seasonEpisode = identity.SeasonEpisode()
	} else {
		seasonEpisode = "S" + season + "E" + episode
	}

	return map[string]string{
		"title":          title,
		"year":           year,
		"season":         season,
		"episode":        episode,
		"season_episode": seasonEpisode,
		"episode_title":  episodeTitle,
	}
}
