package catalog

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mvoisin/mediaserv/internal/services/fileindex"
	"github.com/sirupsen/logrus"
)

// Builder assembles production trees from the external file index
type Builder struct {
	index  fileindex.Index
	logger *logrus.Logger
}

// NewBuilder creates a new catalog builder
func NewBuilder(index fileindex.Index, logger *logrus.Logger) *Builder {
	return &Builder{
		index:  index,
		logger: logger,
	}
}

// buckets holds the direct children of one folder, partitioned by role
type buckets struct {
	poster    *fileindex.Entry
	details   *fileindex.Entry
	videos    []fileindex.Entry
	subtitles map[string]fileindex.Entry
	dirs      []fileindex.Entry
}

var videoExtensions = map[string]bool{
	"mp4":  true,
	"m3u8": true, // HLS playlist, carried as the video reference
}

// Subtitle files are cataloged by extension; only srt and vtt are
// servable, the rest surface as unsupported at delivery time
var subtitleExtensions = map[string]bool{
	"srt": true,
	"vtt": true,
	"ass": true,
	"ssa": true,
	"sub": true,
}

var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// Build scans the whole index and assembles a new catalog snapshot.
// Each production folder is processed independently: a broken one is
// logged and skipped, never failing the build as a whole.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	entries, err := b.index.ListUnder(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list file index: %w", err)
	}

	// Group direct children by owning folder
	children := make(map[string][]fileindex.Entry)
	for _, entry := range entries {
		key := entry.Dir.Join()
		children[key] = append(children[key], entry)
	}

	productions := make(map[string]*Production)
	for _, entry := range children[""] {
		if !entry.IsDir {
			continue
		}

		production, err := b.buildProduction(ctx, entry, children)
		if err != nil {
			b.logger.WithError(err).WithField("folder", entry.Name).Warn("Skipping production")
			continue
		}

		productions[production.Name] = production
	}

	snapshot := newSnapshot(productions, children, time.Now())
	b.logger.WithFields(logrus.Fields{
		"productions": len(productions),
		"entries":     len(entries),
	}).Info("Catalog built")

	return snapshot, nil
}

// buildProduction assembles one production from its main folder
func (b *Builder) buildProduction(ctx context.Context, folder fileindex.Entry, children map[string][]fileindex.Entry) (*Production, error) {
	bk := classify(children[folder.Path().Join()])
	if bk.details == nil {
		return nil, fmt.Errorf("no %s in folder", DetailsFileName)
	}

	details, err := parseDetails(ctx, b.index, *bk.details)
	if err != nil {
		return nil, err
	}

	production := &Production{
		ID:      folder.ID,
		Name:    details.Name,
		Folder:  folder,
		Poster:  bk.poster,
		Details: details,
	}

	switch details.Type {
	case TypeTVSeries:
		b.buildSeasons(production, bk, children)
	case TypeMovie, TypeOther:
		// Single-video production: videos and subtitles live directly
		// under the main folder
		production.Videos = bk.videos
		production.Subtitles = bk.subtitles
	}

	return production, nil
}

// buildSeasons attaches the season/episode tree of a series production.
// Direct directory children of the main folder are seasons, their
// directory children are episodes, both in discovery order.
func (b *Builder) buildSeasons(production *Production, bk buckets, children map[string][]fileindex.Entry) {
	for _, seasonDir := range bk.dirs {
		season := Season{Folder: seasonDir}
		seasonBuckets := classify(children[seasonDir.Path().Join()])

		for _, episodeDir := range seasonBuckets.dirs {
			eb := classify(children[episodeDir.Path().Join()])
			episode := Episode{
				Folder:    episodeDir,
				Poster:    eb.poster,
				Subtitles: eb.subtitles,
			}
			if len(eb.videos) > 0 {
				episode.Video = &eb.videos[0]
			} else {
				b.logger.WithFields(logrus.Fields{
					"production": production.Name,
					"season":     seasonDir.Name,
					"episode":    episodeDir.Name,
				}).Warn("Episode folder has no video file")
			}
			season.Episodes = append(season.Episodes, episode)
		}

		production.Seasons = append(production.Seasons, season)
	}
}

// classify partitions the direct children of a folder into role buckets
func classify(entries []fileindex.Entry) buckets {
	bk := buckets{subtitles: make(map[string]fileindex.Entry)}

	for _, entry := range entries {
		switch {
		case entry.IsDir:
			bk.dirs = append(bk.dirs, entry)
		case isPosterName(entry.Name):
			bk.poster = &entry
		case entry.Name == DetailsFileName:
			bk.details = &entry
		case videoExtensions[entry.Ext]:
			bk.videos = append(bk.videos, entry)
		case subtitleExtensions[entry.Ext]:
			bk.subtitles[SubtitleLanguage(entry.Name)] = entry
		}
	}

	sort.Slice(bk.videos, func(i, j int) bool { return bk.videos[i].Name < bk.videos[j].Name })
	sort.Slice(bk.dirs, func(i, j int) bool { return bk.dirs[i].Name < bk.dirs[j].Name })
	return bk
}

func isPosterName(name string) bool {
	return name == "poster.png" || name == "poster.jpg"
}

var languageSuffixRegex = regexp.MustCompile(`[._-]([a-zA-Z]{2,3})$`)

// SubtitleLanguage infers the track language from the filename suffix
// convention ("Movie_en.srt" -> "en"). Tracks without a recognizable
// suffix are keyed "und" (undetermined).
func SubtitleLanguage(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	if m := languageSuffixRegex.FindStringSubmatch(base); m != nil {
		return strings.ToLower(m[1])
	}
	return "und"
}
