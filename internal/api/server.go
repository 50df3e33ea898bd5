package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/api/handlers"
	"github.com/linkarr/linkarr/internal/api/middleware"
	"github.com/linkarr/linkarr/internal/config"
	"github.com/linkarr/linkarr/internal/controllers"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	store     *config.ProfileStore
	scanCtrl  *controllers.ScanController
	onProfile func()
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server. onProfileSave runs after every
// successful profile update, typically to reload the scheduler.
func NewServer(cfg *config.Config, store *config.ProfileStore, scanCtrl *controllers.ScanController, onProfileSave func(), logger *logrus.Logger) *Server {
	s := &Server{
		store:     store,
		scanCtrl:  scanCtrl,
		onProfile: onProfileSave,
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Run progress
	statusHandler := handlers.NewStatusHandler(s.scanCtrl, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Profile management
	profilesHandler := handlers.NewProfilesHandler(s.store, s.onProfile, s.logger)
	mux.HandleFunc("/api/profiles", profilesHandler.ServeHTTP)

	// Manual scan trigger
	runHandler := handlers.NewRunHandler(s.store, s.scanCtrl, s.logger)
	mux.HandleFunc("/api/run", runHandler.ServeHTTP)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
