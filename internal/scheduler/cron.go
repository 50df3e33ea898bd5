package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/config"
	"github.com/linkarr/linkarr/internal/controllers"
	"github.com/linkarr/linkarr/internal/models"
)

// Scheduler manages the periodic scan jobs. Each enabled profile with a
// positive interval gets its own cron entry; Reload rebuilds the entry
// set after profiles change so edits take effect without a restart.
type Scheduler struct {
	cron     *cron.Cron
	store    *config.ProfileStore
	scanCtrl *controllers.ScanController
	logger   *logrus.Logger

	mu      sync.Mutex
	entries []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(store *config.ProfileStore, scanCtrl *controllers.ScanController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		scanCtrl: scanCtrl,
		logger:   logger,
	}
}

// Start registers the scan jobs and starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	if err := s.Reload(); err != nil {
		return fmt.Errorf("failed to register scan jobs: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// Reload replaces the registered jobs with the current profile list.
// Called at startup and after every profile save.
func (s *Scheduler) Reload() error {
	profiles, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = s.entries[:0]

	for i := range profiles {
		profile := profiles[i]
		if !profile.Enabled || profile.IntervalMinutes <= 0 {
			continue
		}

		spec := fmt.Sprintf("@every %dm", profile.IntervalMinutes)
		id, err := s.cron.AddFunc(spec, func() {
			s.runScan(&profile)
		})
		if err != nil {
			return fmt.Errorf("failed to add scan job for %q: %w", profile.Name, err)
		}
		s.entries = append(s.entries, id)

		s.logger.WithFields(logrus.Fields{
			"profile":  profile.Name,
			"interval": profile.IntervalMinutes,
		}).Info("Registered scan job")
	}

	return nil
}

// runScan executes one scheduled scan for a profile
func (s *Scheduler) runScan(profile *models.ScanProfile) {
	s.logger.WithField("profile", profile.Name).Info("Running scheduled scan")
	ctx := context.Background()

	if err := s.scanCtrl.Run(ctx, profile, nil); err != nil {
		if errors.Is(err, controllers.ErrRunInProgress) {
			s.logger.WithField("profile", profile.Name).Debug("Previous run still in progress")
			return
		}
		s.logger.WithError(err).WithField("profile", profile.Name).Error("Scheduled scan failed")
		return
	}
	s.logger.WithField("profile", profile.Name).Info("Scheduled scan completed")
}
