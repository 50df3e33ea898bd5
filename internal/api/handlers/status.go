package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/controllers"
	"github.com/linkarr/linkarr/internal/models"
)

// StatusHandler reports per-profile run progress
type StatusHandler struct {
	scanCtrl *controllers.ScanController
	logger   *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(scanCtrl *controllers.ScanController, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		scanCtrl: scanCtrl,
		logger:   logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Runs []models.ProgressSnapshot `json:"runs"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := StatusResponse{
		Runs: h.scanCtrl.Snapshots(),
	}
	if response.Runs == nil {
		response.Runs = []models.ProgressSnapshot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
