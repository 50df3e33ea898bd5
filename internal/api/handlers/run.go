package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/config"
	"github.com/linkarr/linkarr/internal/controllers"
)

// RunHandler triggers a scan for one profile. The scan runs in the
// background; callers poll /status for progress.
type RunHandler struct {
	store    *config.ProfileStore
	scanCtrl *controllers.ScanController
	logger   *logrus.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(store *config.ProfileStore, scanCtrl *controllers.ScanController, logger *logrus.Logger) *RunHandler {
	return &RunHandler{
		store:    store,
		scanCtrl: scanCtrl,
		logger:   logger,
	}
}

// ServeHTTP handles the run trigger endpoint
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("profile")
	if name == "" {
		http.Error(w, "profile query parameter is required", http.StatusBadRequest)
		return
	}

	profile, err := h.store.Get(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.logger.WithField("profile", name).Info("Manual scan triggered")
	go func() {
		if err := h.scanCtrl.Run(context.Background(), profile, nil); err != nil {
			if errors.Is(err, controllers.ErrRunInProgress) {
				return
			}
			h.logger.WithError(err).WithField("profile", name).Error("Manual scan failed")
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}
