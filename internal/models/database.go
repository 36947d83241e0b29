package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// WatchState operations

// CreateWatchState creates a new watch state record
func (db *Database) CreateWatchState(state *WatchState) error {
	state.CreatedAt = time.Now()
	state.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), state)
}

// UpdateWatchState updates an existing watch state record
func (db *Database) UpdateWatchState(state *WatchState) error {
	state.UpdatedAt = time.Now()
	return db.store.Update(state.ID, state)
}

// GetWatchState retrieves the live watch state for a (user, video) pair
func (db *Database) GetWatchState(userID, videoID string) (*WatchState, error) {
	var state WatchState
	err := db.store.FindOne(&state,
		bolthold.Where("UserID").Eq(userID).
			And("VideoID").Eq(videoID).
			And("Deleted").Eq(false))
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// GetWatchStatesByUser retrieves all live watch states for a user
func (db *Database) GetWatchStatesByUser(userID string) ([]*WatchState, error) {
	var states []*WatchState
	err := db.store.Find(&states,
		bolthold.Where("UserID").Eq(userID).And("Deleted").Eq(false))
	return states, err
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return err == bolthold.ErrNotFound
}
