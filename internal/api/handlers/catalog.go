package handlers

import (
	"net/http"
	"sort"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/sirupsen/logrus"
)

// CatalogHandler lists the published productions
type CatalogHandler struct {
	library *catalog.Library
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog listing handler
func NewCatalogHandler(library *catalog.Library, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		library: library,
		logger:  logger,
	}
}

// EpisodeResponse is one episode of a season listing
type EpisodeResponse struct {
	Name     string `json:"name"`
	VideoID  string `json:"video_id,omitempty"`
	PosterID string `json:"poster_id,omitempty"`
	Playable bool   `json:"playable"`
}

// SeasonResponse is one season of a production listing
type SeasonResponse struct {
	Name     string            `json:"name"`
	Episodes []EpisodeResponse `json:"episodes"`
}

// ProductionResponse is one production of the catalog listing
type ProductionResponse struct {
	ID       string                    `json:"id"`
	Name     string                    `json:"name"`
	Details  catalog.ProductionDetails `json:"details"`
	PosterID string                    `json:"poster_id,omitempty"`
	VideoIDs []string                  `json:"video_ids,omitempty"`
	Seasons  []SeasonResponse          `json:"seasons,omitempty"`
}

// ServeHTTP handles the catalog listing endpoint
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.library.Current()

	response := make([]ProductionResponse, 0, len(snapshot.Productions))
	for _, production := range snapshot.Productions {
		item := ProductionResponse{
			ID:      production.ID,
			Name:    production.Name,
			Details: production.Details,
		}
		if production.Poster != nil {
			item.PosterID = production.Poster.ID
		}

		for _, video := range production.Videos {
			item.VideoIDs = append(item.VideoIDs, video.ID)
		}

		for _, season := range production.Seasons {
			seasonItem := SeasonResponse{Name: season.Folder.Name}
			for _, episode := range season.Episodes {
				episodeItem := EpisodeResponse{
					Name:     episode.Folder.Name,
					Playable: episode.Playable(),
				}
				if episode.Video != nil {
					episodeItem.VideoID = episode.Video.ID
				}
				if episode.Poster != nil {
					episodeItem.PosterID = episode.Poster.ID
				}
				seasonItem.Episodes = append(seasonItem.Episodes, episodeItem)
			}
			item.Seasons = append(item.Seasons, seasonItem)
		}

		response = append(response, item)
	}

	sort.Slice(response, func(i, j int) bool { return response[i].Name < response[j].Name })
	writeJSON(w, http.StatusOK, response)
}
