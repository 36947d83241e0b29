package handlers

import (
	"context"
	"net/http"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/sirupsen/logrus"
)

// RescanHandler triggers a catalog rebuild
type RescanHandler struct {
	scanCtrl *controllers.ScanController
	logger   *logrus.Logger
}

// NewRescanHandler creates a new rescan handler
func NewRescanHandler(scanCtrl *controllers.ScanController, logger *logrus.Logger) *RescanHandler {
	return &RescanHandler{
		scanCtrl: scanCtrl,
		logger:   logger,
	}
}

// ServeHTTP handles POST /catalog/rescan. The rebuild runs in the
// background; readers keep the current snapshot until it completes.
func (h *RescanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.scanCtrl.Rebuild(context.Background()); err != nil {
			h.logger.WithError(err).Error("Catalog rebuild failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "rescan started"})
}
