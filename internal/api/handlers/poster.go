package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/sirupsen/logrus"
)

// PosterHandler serves poster images
type PosterHandler struct {
	delivery *controllers.DeliveryController
	logger   *logrus.Logger
}

// NewPosterHandler creates a new poster handler
func NewPosterHandler(delivery *controllers.DeliveryController, logger *logrus.Logger) *PosterHandler {
	return &PosterHandler{
		delivery: delivery,
		logger:   logger,
	}
}

// ServeHTTP handles GET /catalog/poster/{id}
func (h *PosterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	reader, size, contentType, err := h.delivery.OpenPoster(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		// Client went away mid-transfer; nothing to answer anymore
		h.logger.WithError(err).WithField("id", id).Debug("Poster stream aborted")
	}
}
