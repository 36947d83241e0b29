package controllers

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/sirupsen/logrus"
)

// ScanController rebuilds the catalog from the file index and publishes
// the result. Readers keep seeing the previous snapshot until the swap.
type ScanController struct {
	builder *catalog.Builder
	library *catalog.Library
	logger  *logrus.Logger

	running atomic.Bool
}

// NewScanController creates a new scan controller
func NewScanController(builder *catalog.Builder, library *catalog.Library, logger *logrus.Logger) *ScanController {
	return &ScanController{
		builder: builder,
		library: library,
		logger:  logger,
	}
}

// Rebuild scans the index, builds a fresh snapshot and publishes it.
// Only one rebuild runs at a time; overlapping triggers are dropped.
func (c *ScanController) Rebuild(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		c.logger.Debug("Catalog rebuild already in progress, skipping")
		return nil
	}
	defer c.running.Store(false)

	c.logger.Info("Starting catalog rebuild")

	snapshot, err := c.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("catalog rebuild failed: %w", err)
	}

	c.library.Publish(snapshot)
	c.logger.WithField("productions", len(snapshot.Productions)).Info("Catalog published")
	return nil
}
