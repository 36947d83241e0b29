package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/mvoisin/mediaserv/internal/models"
	"github.com/sirupsen/logrus"
)

// WatchStateHandler exposes per-user playback state
type WatchStateHandler struct {
	tracker *controllers.WatchStateController
	logger  *logrus.Logger
}

// NewWatchStateHandler creates a new watch state handler
func NewWatchStateHandler(tracker *controllers.WatchStateController, logger *logrus.Logger) *WatchStateHandler {
	return &WatchStateHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// WatchStateResponse is the client view of a watch state record
type WatchStateResponse struct {
	UserID         string             `json:"user_id"`
	VideoID        string             `json:"video_id"`
	CurrentTime    float64            `json:"current_time"`
	SubtitleDelays map[string]float64 `json:"subtitle_delays"`
}

func toResponse(state *models.WatchState) WatchStateResponse {
	delays := state.SubtitleDelays
	if delays == nil {
		delays = map[string]float64{}
	}
	return WatchStateResponse{
		UserID:         state.UserID,
		VideoID:        state.VideoID,
		CurrentTime:    state.CurrentTime,
		SubtitleDelays: delays,
	}
}

// List handles GET /watchstate/{userId}. Videos the user never touched
// have no record and do not appear.
func (h *WatchStateHandler) List(w http.ResponseWriter, r *http.Request) {
	states, err := h.tracker.ListByUser(r.PathValue("userId"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list watch states")
		writeError(w, err)
		return
	}

	response := make([]WatchStateResponse, 0, len(states))
	for _, state := range states {
		response = append(response, toResponse(state))
	}
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /watchstate/{userId}/{videoId}
func (h *WatchStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.tracker.GetOrCreate(r.PathValue("userId"), r.PathValue("videoId"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watch state")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(state))
}

// SaveProgress handles POST /watchstate/{userId}/{videoId}/progress
func (h *WatchStateHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Time float64 `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	state, err := h.tracker.GetOrCreate(r.PathValue("userId"), r.PathValue("videoId"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watch state")
		writeError(w, err)
		return
	}
	if err := h.tracker.SaveProgress(state, payload.Time); err != nil {
		h.logger.WithError(err).Error("Failed to save progress")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(state))
}

// SaveSubtitleDelays handles POST /watchstate/{userId}/{videoId}/subtitles
func (h *WatchStateHandler) SaveSubtitleDelays(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delays map[string]float64 `json:"delays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Delays == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	state, err := h.tracker.GetOrCreate(r.PathValue("userId"), r.PathValue("videoId"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watch state")
		writeError(w, err)
		return
	}
	if err := h.tracker.SaveSubtitleDelays(state, payload.Delays); err != nil {
		h.logger.WithError(err).Error("Failed to save subtitle delays")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(state))
}
