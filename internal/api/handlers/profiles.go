package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/config"
	"github.com/linkarr/linkarr/internal/models"
)

// ProfilesHandler serves and replaces the scan profile list. PUT takes
// the full list; validation failures reject the whole request so the
// persisted file is never half-valid.
type ProfilesHandler struct {
	store  *config.ProfileStore
	onSave func()
	logger *logrus.Logger
}

// NewProfilesHandler creates a new profiles handler. onSave runs after
// every successful save, giving the scheduler a chance to reload.
func NewProfilesHandler(store *config.ProfileStore, onSave func(), logger *logrus.Logger) *ProfilesHandler {
	return &ProfilesHandler{
		store:  store,
		onSave: onSave,
		logger: logger,
	}
}

// ServeHTTP handles the profiles endpoint
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w)
	case http.MethodPut:
		h.replace(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ProfilesHandler) list(w http.ResponseWriter) {
	profiles, err := h.store.Load()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load profiles")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []models.ScanProfile{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

func (h *ProfilesHandler) replace(w http.ResponseWriter, r *http.Request) {
	var profiles []models.ScanProfile
	if err := json.NewDecoder(r.Body).Decode(&profiles); err != nil {
		h.logger.WithError(err).Error("Failed to decode profiles payload")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.store.Save(profiles); err != nil {
		h.logger.WithError(err).Warn("Rejected profile save")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.WithField("count", len(profiles)).Info("Profiles saved")
	if h.onSave != nil {
		h.onSave()
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
