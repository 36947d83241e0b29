package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvoisin/mediaserv/internal/api"
	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/mvoisin/mediaserv/internal/config"
	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/mvoisin/mediaserv/internal/models"
	"github.com/mvoisin/mediaserv/internal/scheduler"
	"github.com/mvoisin/mediaserv/internal/services/fileindex"
	"github.com/mvoisin/mediaserv/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting mediaserv")
	logger.WithField("media_root", cfg.MediaRoot).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Load scan ignore list
	ignore, err := utils.LoadIgnoreList(cfg.IgnoreFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load ignore list, continuing without it")
		ignore = &utils.IgnoreList{}
	}

	// 5. Initialize file index
	index, err := fileindex.NewLocalIndex(cfg.MediaRoot, ignore)
	if err != nil {
		return fmt.Errorf("failed to initialize file index: %w", err)
	}
	logger.Info("File index initialized")

	// 6. Initialize catalog and controllers
	library := catalog.NewLibrary()
	builder := catalog.NewBuilder(index, logger)
	navigator := catalog.NewNavigator(library, logger)

	scanCtrl := controllers.NewScanController(builder, library, logger)
	delivery := controllers.NewDeliveryController(library, index,
		time.Duration(cfg.SubtitleCacheMinutes)*time.Minute, logger)
	tracker := controllers.NewWatchStateController(db, logger)
	logger.Info("Controllers initialized")

	// 7. Initial catalog build; a failure leaves an empty catalog until
	// the next rescan rather than preventing startup
	if err := scanCtrl.Rebuild(context.Background()); err != nil {
		logger.WithError(err).Error("Initial catalog build failed")
	}

	// 8. Initialize scheduler
	sched := scheduler.NewScheduler(scanCtrl, cfg.RescanCron, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 9. Initialize HTTP server
	server := api.NewServer(cfg, library, navigator, delivery, tracker, scanCtrl, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("mediaserv is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("mediaserv stopped")
	return nil
}
