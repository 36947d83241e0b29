package models

import "time"

// WatchState tracks one user's playback position and subtitle offsets for
// one video. At most one live record exists per (user, video) pair.
type WatchState struct {
	ID      uint64 `boltholdKey:"ID"`
	UserID  string `boltholdIndex:"UserID"`
	VideoID string `boltholdIndex:"VideoID"`

	// Playback
	CurrentTime    float64            // seconds from the start, >= 0
	SubtitleDelays map[string]float64 // language -> signed offset in seconds

	// Soft delete, owned by the persistence layer
	Deleted bool

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}
