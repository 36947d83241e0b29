package catalog

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/mvoisin/mediaserv/internal/services/fileindex"
)

// ErrNotFound is returned when an id resolves to zero or more than one
// catalog entry
var ErrNotFound = errors.New("not found in catalog")

// VideoRef locates a video inside the production tree. SeasonIndex and
// EpisodeIndex are -1 for single-video (movie shape) productions.
type VideoRef struct {
	Production   *Production
	SeasonIndex  int
	EpisodeIndex int
}

// Subtitles returns the language map owning the referenced video
func (r VideoRef) Subtitles() map[string]fileindex.Entry {
	if r.SeasonIndex < 0 {
		return r.Production.Subtitles
	}
	return r.Production.Seasons[r.SeasonIndex].Episodes[r.EpisodeIndex].Subtitles
}

// Snapshot is one immutable published catalog: the production trees plus
// the id indexes derived from them. Snapshots are never mutated after
// publication; a rebuild replaces the whole snapshot.
type Snapshot struct {
	Productions map[string]*Production
	BuiltAt     time.Time

	children    map[string][]fileindex.Entry
	entriesByID map[string][]fileindex.Entry
	videosByID  map[string]VideoRef
}

func newSnapshot(productions map[string]*Production, children map[string][]fileindex.Entry, builtAt time.Time) *Snapshot {
	s := &Snapshot{
		Productions: productions,
		BuiltAt:     builtAt,
		children:    children,
		entriesByID: make(map[string][]fileindex.Entry),
		videosByID:  make(map[string]VideoRef),
	}

	for _, entries := range children {
		for _, entry := range entries {
			s.entriesByID[entry.ID] = append(s.entriesByID[entry.ID], entry)
		}
	}

	for _, production := range productions {
		for _, video := range production.Videos {
			s.videosByID[video.ID] = VideoRef{Production: production, SeasonIndex: -1, EpisodeIndex: -1}
		}
		for si, season := range production.Seasons {
			for ei, episode := range season.Episodes {
				if episode.Video != nil {
					s.videosByID[episode.Video.ID] = VideoRef{Production: production, SeasonIndex: si, EpisodeIndex: ei}
				}
			}
		}
	}

	return s
}

func emptySnapshot() *Snapshot {
	return newSnapshot(map[string]*Production{}, map[string][]fileindex.Entry{}, time.Time{})
}

// Resolve returns the single entry with the given id. Zero matches and
// duplicate matches both fail with ErrNotFound.
func (s *Snapshot) Resolve(id string) (fileindex.Entry, error) {
	matches := s.entriesByID[id]
	if len(matches) != 1 {
		return fileindex.Entry{}, ErrNotFound
	}
	return matches[0], nil
}

// Video resolves a video id to its entry and its place in the tree
func (s *Snapshot) Video(id string) (fileindex.Entry, VideoRef, error) {
	ref, ok := s.videosByID[id]
	if !ok {
		return fileindex.Entry{}, VideoRef{}, ErrNotFound
	}
	entry, err := s.Resolve(id)
	if err != nil {
		return fileindex.Entry{}, VideoRef{}, err
	}
	return entry, ref, nil
}

// Children returns the direct children of a folder entry
func (s *Snapshot) Children(folder fileindex.Entry) []fileindex.Entry {
	return s.children[folder.Path().Join()]
}

// PosterIn returns the poster file directly owned by a folder, if any
func (s *Snapshot) PosterIn(folder fileindex.Entry) (fileindex.Entry, bool) {
	for _, child := range s.Children(folder) {
		if !child.IsDir && isPosterName(child.Name) {
			return child, true
		}
	}
	return fileindex.Entry{}, false
}

// Library is the process-wide published catalog: a single reference,
// swapped atomically on rebuild. Readers never take a lock.
type Library struct {
	current atomic.Pointer[Snapshot]
}

// NewLibrary creates a library holding an empty snapshot
func NewLibrary() *Library {
	l := &Library{}
	l.current.Store(emptySnapshot())
	return l
}

// Current returns the currently published snapshot
func (l *Library) Current() *Snapshot {
	return l.current.Load()
}

// Publish atomically replaces the published snapshot
func (l *Library) Publish(s *Snapshot) {
	l.current.Store(s)
}
