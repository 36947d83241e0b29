package handlers

import (
	"net/http"
	"strconv"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/sirupsen/logrus"
)

// SubtitlesHandler serves subtitle tracks as WebVTT
type SubtitlesHandler struct {
	delivery *controllers.DeliveryController
	logger   *logrus.Logger
}

// NewSubtitlesHandler creates a new subtitles handler
func NewSubtitlesHandler(delivery *controllers.DeliveryController, logger *logrus.Logger) *SubtitlesHandler {
	return &SubtitlesHandler{
		delivery: delivery,
		logger:   logger,
	}
}

// ServeHTTP handles GET /catalog/subtitles/{videoId}/{lang}
func (h *SubtitlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	lang := r.PathValue("lang")

	body, err := h.delivery.Subtitle(r.Context(), videoID, lang)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
