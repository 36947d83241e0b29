package scheduler

import (
	"context"
	"fmt"

	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages the periodic catalog rescan
type Scheduler struct {
	cron     *cron.Cron
	scanCtrl *controllers.ScanController
	spec     string
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(scanCtrl *controllers.ScanController, spec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		scanCtrl: scanCtrl,
		spec:     spec,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.WithField("cron", s.spec).Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRescan()
	})
	if err != nil {
		return fmt.Errorf("failed to add rescan job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRescan executes the catalog rebuild job
func (s *Scheduler) runRescan() {
	s.logger.Info("Running scheduled catalog rescan")

	if err := s.scanCtrl.Rebuild(context.Background()); err != nil {
		s.logger.WithError(err).Error("Scheduled rescan failed")
	} else {
		s.logger.Info("Scheduled rescan completed successfully")
	}
}
