package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/sirupsen/logrus"
)

// VideoHandler serves video bytes with range semantics
type VideoHandler struct {
	delivery *controllers.DeliveryController
	logger   *logrus.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(delivery *controllers.DeliveryController, logger *logrus.Logger) *VideoHandler {
	return &VideoHandler{
		delivery: delivery,
		logger:   logger,
	}
}

// ServeHTTP handles GET /catalog/video/{id}. The answer is always a
// 206 partial content whose chunk is clamped server-side; clients seek
// by issuing sequential range requests.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	chunk, err := h.delivery.OpenVideo(r.Context(), id, r.Header.Get("Range"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer chunk.Reader.Close()

	length := chunk.End - chunk.Start + 1
	if length < 0 {
		length = 0
	}

	w.Header().Set("Content-Type", chunk.ContentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	if length == 0 {
		// Empty resource: no satisfiable byte range to describe
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", chunk.Total))
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", chunk.Start, chunk.End, chunk.Total))
	}
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.Copy(w, chunk.Reader); err != nil {
		// Aborted range reads are routine during seeking; the deferred
		// close releases the file handle either way
		h.logger.WithError(err).WithField("id", id).Debug("Video stream aborted")
	}
}
