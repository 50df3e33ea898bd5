package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linkarr/linkarr/internal/api"
	"github.com/linkarr/linkarr/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the control panel server and scan scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	logger := a.logger
	logger.Info("Starting linkarr")

	sched := scheduler.NewScheduler(a.store, a.scanCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	onProfileSave := func() {
		if err := sched.Reload(); err != nil {
			logger.WithError(err).Error("Failed to reload scheduler")
		}
	}
	server := api.NewServer(a.cfg, a.store, a.scanCtrl, onProfileSave, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Linkarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Linkarr stopped")
	return nil
}
