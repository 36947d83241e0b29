package catalog

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Navigator resolves the next/previous episode relative to a video,
// crossing season boundaries. Movies are terminal: they have no
// neighbors in either direction.
type Navigator struct {
	library *Library
	logger  *logrus.Logger
}

// NewNavigator creates a new navigator over the published catalog
func NewNavigator(library *Library, logger *logrus.Logger) *Navigator {
	return &Navigator{
		library: library,
		logger:  logger,
	}
}

// Next returns the video id of the episode following the given video.
// Returns ("", nil) when the video is the last playable episode.
func (n *Navigator) Next(videoID string) (string, error) {
	return n.neighbor(videoID, 1)
}

// Prev returns the video id of the episode preceding the given video.
// Returns ("", nil) when the video is the first playable episode.
func (n *Navigator) Prev(videoID string) (string, error) {
	return n.neighbor(videoID, -1)
}

func (n *Navigator) neighbor(videoID string, step int) (string, error) {
	snapshot := n.library.Current()
	_, ref, err := snapshot.Video(videoID)
	if err != nil {
		return "", err
	}

	if ref.SeasonIndex < 0 {
		// Single-video production, nothing to navigate to
		return "", nil
	}

	// Flatten the production into its authoritative playable order:
	// seasons in discovery order, episodes in Episode-N order, episodes
	// without a video skipped.
	var sequence []string
	position := -1
	for _, season := range ref.Production.Seasons {
		for _, episode := range n.orderEpisodes(ref.Production.Name, season) {
			if !episode.Playable() {
				continue
			}
			if episode.Video.ID == videoID {
				position = len(sequence)
			}
			sequence = append(sequence, episode.Video.ID)
		}
	}

	if position < 0 {
		// The video exists but its episode folder matched no position in
		// the Episode-N sequence
		return "", nil
	}

	target := position + step
	if target < 0 || target >= len(sequence) {
		return "", nil
	}
	return sequence[target], nil
}

// orderEpisodes orders a season's episodes by matching folder names
// against "Episode N"/"Ep N" for N = 1..len(episodes). Folders that match
// no position are excluded from the sequence; each exclusion is logged so
// the drop is visible.
func (n *Navigator) orderEpisodes(productionName string, season Season) []Episode {
	ordered := make([]Episode, 0, len(season.Episodes))
	used := make(map[int]bool)

	for num := 1; num <= len(season.Episodes); num++ {
		pattern := episodePattern(num)
		for i, episode := range season.Episodes {
			if used[i] {
				continue
			}
			if pattern.MatchString(episode.Folder.Name) {
				ordered = append(ordered, episode)
				used[i] = true
				break
			}
		}
	}

	for i, episode := range season.Episodes {
		if !used[i] {
			n.logger.WithFields(logrus.Fields{
				"production": productionName,
				"season":     season.Folder.Name,
				"episode":    episode.Folder.Name,
			}).Warn("Episode folder matches no position in the Episode-N sequence")
		}
	}

	return ordered
}

// episodePattern matches "Episode N" or "Ep N" where N is not followed
// by another digit or letter ("Episode 1" must not match "Episode 12")
func episodePattern(num int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)\b(?:episode|ep)\.?\s*%d(?:[^0-9a-z]|$)`, num))
}
