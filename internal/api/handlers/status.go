package handlers

import (
	"net/http"
	"time"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/sirupsen/logrus"
)

// StatusHandler summarizes the published catalog
type StatusHandler struct {
	library *catalog.Library
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(library *catalog.Library, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		library: library,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalProductions    int            `json:"total_productions"`
	Seasons             int            `json:"seasons"`
	Episodes            int            `json:"episodes"`
	ProductionsByType   map[string]int `json:"productions_by_type"`
	ProductionsByFormat map[string]int `json:"productions_by_format"`
	BuiltAt             time.Time      `json:"built_at"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.library.Current()

	response := StatusResponse{
		TotalProductions:    len(snapshot.Productions),
		ProductionsByType:   make(map[string]int),
		ProductionsByFormat: make(map[string]int),
		BuiltAt:             snapshot.BuiltAt,
	}

	for _, production := range snapshot.Productions {
		response.ProductionsByType[string(production.Details.Type)]++
		response.ProductionsByFormat[string(production.Details.VideoFormat)]++

		response.Seasons += len(production.Seasons)
		for _, season := range production.Seasons {
			response.Episodes += len(season.Episodes)
		}
	}

	writeJSON(w, http.StatusOK, response)
}
