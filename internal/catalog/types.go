package catalog

import (
	"github.com/mvoisin/mediaserv/internal/services/fileindex"
)

// ProductionType discriminates what kind of production a main folder holds
type ProductionType string

const (
	TypeMovie    ProductionType = "movie"
	TypeTVSeries ProductionType = "tv_series"
	TypeOther    ProductionType = "other"
)

// VideoFormat discriminates how the production's video files are laid out
type VideoFormat string

const (
	FormatMP4 VideoFormat = "MP4"
	FormatHLS VideoFormat = "HLS"
)

// ProductionDetails is the parsed per-production metadata file.
// Parsed once per production during a build; immutable afterwards.
type ProductionDetails struct {
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Type             ProductionType `json:"type"`
	VideoFormat      VideoFormat    `json:"videoFormat"`
	AudioLang        string         `json:"audioLang,omitempty"`
	ReleaseYearStart int            `json:"releaseYearStart,omitempty"`
	ReleaseYearEnd   int            `json:"releaseYearEnd,omitempty"`
	Categories       []string       `json:"categories"`
	Tags             []string       `json:"tags"`
	Country          string         `json:"country,omitempty"`
	Rating           float64        `json:"rating,omitempty"`
}

// Production is one catalog entry rooted at a single main folder. The
// concrete shape is the closed set {movie, tv_series} x {MP4, HLS},
// discriminated by Details.Type and Details.VideoFormat: movies carry
// Videos/Subtitles, series carry Seasons.
type Production struct {
	ID      string
	Name    string
	Folder  fileindex.Entry
	Poster  *fileindex.Entry // nil when the folder has no poster file
	Details ProductionDetails

	// Movie shape
	Videos    []fileindex.Entry
	Subtitles map[string]fileindex.Entry // language -> subtitle entry

	// Series shape
	Seasons []Season
}

// Season is one season folder of a series production
type Season struct {
	Folder   fileindex.Entry
	Episodes []Episode
}

// Episode is a leaf playable unit within a season. A missing video file
// keeps the episode in the tree but makes it unplayable.
type Episode struct {
	Folder    fileindex.Entry
	Video     *fileindex.Entry
	Poster    *fileindex.Entry // nil means render with the production poster
	Subtitles map[string]fileindex.Entry
}

// Playable reports whether the episode has a video to serve
func (e Episode) Playable() bool {
	return e.Video != nil
}
