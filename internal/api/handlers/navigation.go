package handlers

import (
	"net/http"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/sirupsen/logrus"
)

// NavigationHandler resolves next/prev episode navigation
type NavigationHandler struct {
	navigator *catalog.Navigator
	logger    *logrus.Logger
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(navigator *catalog.Navigator, logger *logrus.Logger) *NavigationHandler {
	return &NavigationHandler{
		navigator: navigator,
		logger:    logger,
	}
}

// NavigationResponse carries the resolved neighbor, null when there is none
type NavigationResponse struct {
	VideoID *string `json:"videoId"`
}

// ServeHTTP handles GET /catalog/navigation/{videoId}/{direction}
func (h *NavigationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	direction := r.PathValue("direction")

	var neighbor string
	var err error
	switch direction {
	case "next":
		neighbor, err = h.navigator.Next(videoID)
	case "prev":
		neighbor, err = h.navigator.Prev(videoID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be next or prev"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	response := NavigationResponse{}
	if neighbor != "" {
		response.VideoID = &neighbor
	}
	writeJSON(w, http.StatusOK, response)
}
