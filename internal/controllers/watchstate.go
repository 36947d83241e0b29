package controllers

import (
	"fmt"

	"github.com/mvoisin/mediaserv/internal/models"
	"github.com/sirupsen/logrus"
)

// WatchStateController tracks per-user, per-video playback state. It adds
// no locking of its own: concurrent writers to the same pair resolve by
// last-write-wins through the store's per-key atomicity.
type WatchStateController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewWatchStateController creates a new watch state controller
func NewWatchStateController(db *models.Database, logger *logrus.Logger) *WatchStateController {
	return &WatchStateController{
		db:     db,
		logger: logger,
	}
}

// GetOrCreate returns the live watch state for a (user, video) pair,
// creating a zeroed record on first access
func (c *WatchStateController) GetOrCreate(userID, videoID string) (*models.WatchState, error) {
	state, err := c.db.GetWatchState(userID, videoID)
	if err == nil {
		return state, nil
	}
	if !models.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get watch state: %w", err)
	}

	state = &models.WatchState{
		UserID:         userID,
		VideoID:        videoID,
		CurrentTime:    0,
		SubtitleDelays: make(map[string]float64),
	}
	if err := c.db.CreateWatchState(state); err != nil {
		return nil, fmt.Errorf("failed to create watch state: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"video_id": videoID,
	}).Debug("Created watch state")

	return state, nil
}

// ListByUser returns every live watch state recorded for a user
func (c *WatchStateController) ListByUser(userID string) ([]*models.WatchState, error) {
	states, err := c.db.GetWatchStatesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch states: %w", err)
	}
	return states, nil
}

// SaveProgress unconditionally overwrites the current playback time.
// Callers are expected to throttle their reports; no policy is enforced
// here.
func (c *WatchStateController) SaveProgress(state *models.WatchState, seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	state.CurrentTime = seconds
	if err := c.db.UpdateWatchState(state); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// SaveSubtitleDelays overwrites the supplied language offsets, leaving
// offsets for other languages untouched
func (c *WatchStateController) SaveSubtitleDelays(state *models.WatchState, delays map[string]float64) error {
	if state.SubtitleDelays == nil {
		state.SubtitleDelays = make(map[string]float64)
	}
	for lang, delay := range delays {
		state.SubtitleDelays[lang] = delay
	}
	if err := c.db.UpdateWatchState(state); err != nil {
		return fmt.Errorf("failed to save subtitle delays: %w", err)
	}
	return nil
}
