package controllers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/fileops"
	"github.com/linkarr/linkarr/internal/models"
	"github.com/linkarr/linkarr/internal/nfo"
	"github.com/linkarr/linkarr/internal/parser"
	"github.com/linkarr/linkarr/internal/renamer"
)

// processFile drives one source file through the full pipeline:
// hardlink, identity parse, metadata resolution, template rename with
// sidecar sequencing, then sidecar generation and image downloads.
// A true skipped return means the file needed no work (already linked
// or conflicting); an error return is recorded as a per-file failure.
func (c *ScanController) processFile(ctx context.Context, profile *models.ScanProfile, t task) (skipped bool, err error) {
	filename := filepath.Base(t.sourcePath)
	destDir := filepath.Join(t.targetRoot, t.relDir)

	linked, err := fileops.EnsureHardlink(t.sourcePath, destDir, c.logger)
	if err != nil {
		return false, err
	}
	if linked == "" {
		return true, nil
	}

	identity := parser.Parse(filename)
	mediaType := resolveMediaType(identity, profile)
	c.logger.WithFields(logrus.Fields{
		"file":  filename,
		"kind":  identity.Kind,
		"title": identity.Title,
		"type":  mediaType,
	}).Debug("Parsed filename")

	var meta *models.MediaMetadata
	if profile.ScrapeMetadata {
		// shows are searched without a year filter; first-air-date
		// search is too unreliable to gate on
		year := ""
		if mediaType == models.MediaTypeMovie {
			year = identity.Year
		}
		meta = c.tmdbClient.SearchAndFetch(ctx, identity.Title, year, profile.CatalogAPIKey, mediaType)
		if meta == nil {
			return false, fmt.Errorf("metadata unavailable for %q", filename)
		}
		if identity.Kind == models.KindEpisode {
			if detail := c.tmdbClient.FetchEpisodeDetail(ctx, meta.CatalogID, identity.Season, identity.Episode, profile.CatalogAPIKey); detail != nil {
				meta = meta.WithEpisode(detail)
			}
		}
	}

	currentPath := linked
	if profile.RenameFile {
		newBase, renderErr := c.renderName(profile, mediaType, meta, identity)
		if renderErr != nil {
			return false, renderErr
		}
		newPath, renameErr := fileops.RenameWithSidecars(currentPath, newBase, destDir, c.logger)
		if renameErr != nil {
			return false, renameErr
		}
		currentPath = newPath
	}

	if profile.ScrapeMetadata {
		if err := c.writeArtifacts(ctx, profile, mediaType, meta, identity, filename, currentPath, t); err != nil {
			return false, err
		}
	}

	if err := c.processed.Append(t.sourcePath); err != nil {
		c.logger.WithError(err).WithField("file", t.sourcePath).Warn("Failed to record processed file")
	}
	return false, nil
}

// renderName expands the profile template, falling back to the per-kind
// default when the template references an unknown placeholder. The
// fallback is logged so the operator can fix the profile.
func (c *ScanController) renderName(profile *models.ScanProfile, mediaType models.MediaType, meta *models.MediaMetadata, identity models.MediaIdentity) (string, error) {
	template := strings.TrimSpace(profile.RenameTemplate)
	defaultTemplate := renamer.DefaultTemplate(effectiveKind(identity, mediaType))
	if template == "" {
		template = defaultTemplate
	}

	newBase, err := renamer.Render(template, meta, identity)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"profile":  profile.Name,
			"template": template,
		}).Warn("Rename template error, using default template")
		return renamer.Render(defaultTemplate, meta, identity)
	}
	return newBase, nil
}

// writeArtifacts generates the NFO sidecar and downloads poster images
// next to the media file. Image failures degrade to warnings; the NFO
// itself is required for the file to count as processed.
func (c *ScanController) writeArtifacts(ctx context.Context, profile *models.ScanProfile, mediaType models.MediaType, meta *models.MediaMetadata, identity models.MediaIdentity, originalFilename, mediaPath string, t task) error {
	destDir := filepath.Dir(mediaPath)
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	nfoPath := filepath.Join(destDir, stem+".nfo")
	var err error
	if mediaType == models.MediaTypeMovie {
		err = nfo.WriteMovie(meta, originalFilename, nfoPath)
	} else {
		err = nfo.WriteEpisode(meta, identity, originalFilename, nfoPath)
	}
	if err != nil {
		return fmt.Errorf("failed to write metadata document: %w", err)
	}

	posterPath := filepath.Join(destDir, stem+"-poster.jpg")
	if err := c.tmdbClient.DownloadImage(ctx, meta.PosterPath, posterPath); err != nil {
		c.logger.WithError(err).WithField("file", originalFilename).Warn("Poster download failed")
	}

	if meta.Episode != nil && meta.Episode.StillPath != "" {
		thumbPath := filepath.Join(destDir, stem+"-thumb.jpg")
		if err := c.tmdbClient.DownloadImage(ctx, meta.Episode.StillPath, thumbPath); err != nil {
			c.logger.WithError(err).WithField("file", originalFilename).Warn("Episode still download failed")
		}
	}

	if mediaType == models.MediaTypeShow {
		c.writeShowAssets(ctx, meta, t)
	}
	return nil
}

// writeShowAssets generates the one-per-show tvshow.nfo and poster.jpg
// at the show's destination root, guarded by an existence check so the
// pair is written once no matter how many episodes are processed.
func (c *ScanController) writeShowAssets(ctx context.Context, meta *models.MediaMetadata, t task) {
	root := showRoot(t)
	nfoPath := filepath.Join(root, "tvshow.nfo")
	if _, err := os.Stat(nfoPath); err == nil {
		return
	}

	if err := nfo.WriteShow(meta, nfoPath); err != nil {
		c.logger.WithError(err).WithField("path", nfoPath).Warn("Failed to write tvshow.nfo")
		return
	}
	if err := c.tmdbClient.DownloadImage(ctx, meta.PosterPath, filepath.Join(root, "poster.jpg")); err != nil {
		c.logger.WithError(err).WithField("path", root).Warn("Show poster download failed")
	}
}

// showRoot maps a task to the top-level directory its show lives in
func showRoot(t task) string {
	rel := filepath.Clean(t.relDir)
	if rel == "." || rel == "" {
		return t.targetRoot
	}
	parts := strings.Split(rel, string(filepath.Separator))
	return filepath.Join(t.targetRoot, parts[0])
}

// resolveMediaType picks the catalog media type for a parsed identity.
// A parsed kind wins; the profile hint only decides Unknown files.
func resolveMediaType(identity models.MediaIdentity, profile *models.ScanProfile) models.MediaType {
	switch identity.Kind {
	case models.KindEpisode:
		return models.MediaTypeShow
	case models.KindMovie:
		return models.MediaTypeMovie
	default:
		if profile.MediaTypeHint == models.MediaTypeShow {
			return models.MediaTypeShow
		}
		return models.MediaTypeMovie
	}
}

// effectiveKind maps an identity to the kind used for default-template
// selection, resolving Unknown through the chosen media type
func effectiveKind(identity models.MediaIdentity, mediaType models.MediaType) models.MediaKind {
	if identity.Kind != models.KindUnknown {
		return identity.Kind
	}
	if mediaType == models.MediaTypeShow {
		return models.KindEpisode
	}
	return models.KindMovie
}
