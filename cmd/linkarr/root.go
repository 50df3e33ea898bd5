package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linkarr/linkarr/internal/config"
	"github.com/linkarr/linkarr/internal/controllers"
	"github.com/linkarr/linkarr/internal/fileops"
	"github.com/linkarr/linkarr/internal/services/tmdb"
	"github.com/linkarr/linkarr/internal/utils"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkarr",
		Short: "Hardlink-based media library organizer",
		Long: "Linkarr scans download directories for video files, hardlinks them " +
			"into a media library, fetches TMDB metadata and writes Kodi-compatible " +
			"NFO sidecars and artwork.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	return cmd
}

// app bundles the wired components shared by the serve and scan commands
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	store    *config.ProfileStore
	scanCtrl *controllers.ScanController
}

// newApp loads configuration and wires the shared component graph
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	tmdbClient := tmdb.NewClient(logger,
		tmdb.WithBaseURL(cfg.TMDBBaseURL),
		tmdb.WithImageBaseURL(cfg.TMDBImageBaseURL),
		tmdb.WithLanguage(cfg.TMDBLanguage),
	)

	store := config.NewProfileStore(cfg.ProfilesFile, cfg.TMDBAPIKey)
	processed := fileops.NewProcessedLog(cfg.ProcessedLogFile)
	scanCtrl := controllers.NewScanController(tmdbClient, processed, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		scanCtrl: scanCtrl,
	}, nil
}
