package controllers

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/linkarr/linkarr/internal/fileops"
	"github.com/linkarr/linkarr/internal/metrics"
	"github.com/linkarr/linkarr/internal/models"
	"github.com/linkarr/linkarr/internal/services/tmdb"
)

// task is one discovered source file annotated with its relative
// subdirectory and the target root it maps to
type task struct {
	sourcePath string
	relDir     string
	targetRoot string
}

// ScanController drives the scan pipeline for a profile: discover
// files, dispatch them across a bounded worker pool, collect results
// and finalize aggregate progress. Runs are serialized per profile,
// never globally, so independent profiles can scan concurrently.
type ScanController struct {
	tmdbClient *tmdb.Client
	processed  *fileops.ProcessedLog
	logger     *logrus.Logger

	mu       sync.Mutex
	inflight map[string]bool
	progress map[string]*models.RunProgress
}

// NewScanController creates a new scan controller
func NewScanController(tmdbClient *tmdb.Client, processed *fileops.ProcessedLog, logger *logrus.Logger) *ScanController {
	return &ScanController{
		tmdbClient: tmdbClient,
		processed:  processed,
		logger:     logger,
		inflight:   make(map[string]bool),
		progress:   make(map[string]*models.RunProgress),
	}
}

// Run executes one scan of the profile, reporting through sink (which
// may be nil). A failing file never aborts the run; partial failure is
// the normal mode given the network-dependent steps. The returned error
// is run-level only: a pre-flight rejection or an in-progress overlap.
func (c *ScanController) Run(ctx context.Context, profile *models.ScanProfile, sink models.ProgressSink) error {
	if !c.acquire(profile.Name) {
		c.logger.WithField("profile", profile.Name).Warn("Run already in progress, skipping trigger")
		return ErrRunInProgress
	}
	defer c.release(profile.Name)

	progress := models.NewRunProgress(profile.Name)
	c.mu.Lock()
	c.progress[profile.Name] = progress
	c.mu.Unlock()

	sinks := fanOut(progress, sink)
	log := c.logger.WithField("profile", profile.Name)

	// Pre-flight gate: abort the whole run before touching any file
	// when the catalog cannot be used at all.
	if profile.CatalogAPIKey == "" {
		progress.Fail(models.RunStatusMissingAPIKey)
		metrics.RunsTotal.WithLabelValues(profile.Name, string(models.RunStatusMissingAPIKey)).Inc()
		log.Error("No TMDB API key configured for profile")
		return ErrMissingAPIKey
	}
	if profile.ScrapeMetadata && !c.tmdbClient.CheckConnectivity(ctx, profile.CatalogAPIKey) {
		progress.Fail(models.RunStatusCatalogUnreachable)
		metrics.RunsTotal.WithLabelValues(profile.Name, string(models.RunStatusCatalogUnreachable)).Inc()
		log.Error("TMDB unreachable or API key rejected")
		return ErrCatalogUnreachable
	}

	processedSet, err := c.processed.Load()
	if err != nil {
		log.WithError(err).Warn("Failed to load processed log, continuing without it")
		processedSet = make(map[string]struct{})
	}

	tasks, skipped := c.discover(profile, processedSet)
	progress.AddSkipped(skipped)
	sinks.Initialize(len(tasks))

	log.WithFields(logrus.Fields{
		"total":   len(tasks),
		"skipped": skipped,
	}).Info("Scan discovery complete")

	limit := profile.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			c.runTask(ctx, profile, t, sinks, progress)
			return nil
		})
	}
	g.Wait()

	sinks.Complete()
	metrics.RunsTotal.WithLabelValues(profile.Name, string(models.RunStatusCompleted)).Inc()

	snap := progress.Snapshot()
	log.WithFields(logrus.Fields{
		"succeeded": snap.Succeeded,
		"failed":    snap.Failed,
		"skipped":   snap.Skipped,
	}).Info("Scan run finished")
	return nil
}

// runTask processes one file and records its outcome. Any panic or
// unexpected error is caught here, at the task boundary, so sibling
// tasks are never aborted.
func (c *ScanController) runTask(ctx context.Context, profile *models.ScanProfile, t task, sinks models.ProgressSink, progress *models.RunProgress) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"file":  t.sourcePath,
				"panic": r,
			}).Error("Unexpected error while processing file")
			sinks.Update(false, &models.TaskError{
				File:    t.sourcePath,
				Message: fmt.Sprintf("unexpected error: %v", r),
			})
			metrics.FilesTotal.WithLabelValues(profile.Name, "failed").Inc()
		}
	}()

	skipped, err := c.processFile(ctx, profile, t)
	switch {
	case err != nil:
		c.logger.WithError(err).WithField("file", t.sourcePath).Warn("File processing failed")
		sinks.Update(false, &models.TaskError{File: t.sourcePath, Message: err.Error()})
		metrics.FilesTotal.WithLabelValues(profile.Name, "failed").Inc()
	case skipped:
		progress.AddSkipped(1)
		sinks.Update(true, nil)
		metrics.FilesTotal.WithLabelValues(profile.Name, "skipped").Inc()
	default:
		sinks.Update(true, nil)
		metrics.FilesTotal.WithLabelValues(profile.Name, "succeeded").Inc()
	}
}

// discover walks every configured path mapping and builds the task
// list, filtering by the profile's extension set and dropping paths
// already present in the processed log. The returned count is the
// number of processed-log hits bypassed entirely.
func (c *ScanController) discover(profile *models.ScanProfile, processedSet map[string]struct{}) ([]task, int) {
	extensions := profile.ExtensionSet()
	var tasks []task
	skipped := 0

	for _, mapping := range profile.PathMappings {
		source := mapping.Source
		err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				c.logger.WithError(err).WithField("path", path).Warn("Skipping unreadable path")
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := extensions[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			if _, done := processedSet[strings.TrimSpace(path)]; done {
				skipped++
				return nil
			}
			rel, relErr := filepath.Rel(source, filepath.Dir(path))
			if relErr != nil {
				rel = "."
			}
			tasks = append(tasks, task{
				sourcePath: path,
				relDir:     rel,
				targetRoot: mapping.Target,
			})
			return nil
		})
		if err != nil {
			c.logger.WithError(err).WithField("source", source).Warn("Failed to walk source directory")
		}
	}

	return tasks, skipped
}

// Snapshots returns the latest progress for every profile that has run
func (c *ScanController) Snapshots() []models.ProgressSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snaps := make([]models.ProgressSnapshot, 0, len(c.progress))
	for _, p := range c.progress {
		snaps = append(snaps, p.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Profile < snaps[j].Profile })
	return snaps
}

func (c *ScanController) acquire(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[name] {
		return false
	}
	c.inflight[name] = true
	return true
}

func (c *ScanController) release(name string) {
	c.mu.Lock()
	delete(c.inflight, name)
	c.mu.Unlock()
}

// multiSink fans progress events out to several sinks
type multiSink []models.ProgressSink

func fanOut(sinks ...models.ProgressSink) models.ProgressSink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Initialize(total int) {
	for _, s := range m {
		s.Initialize(total)
	}
}

func (m multiSink) Update(success bool, detail *models.TaskError) {
	for _, s := range m {
		s.Update(success, detail)
	}
}

func (m multiSink) Complete() {
	for _, s := range m {
		s.Complete()
	}
}
