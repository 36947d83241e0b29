package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mvoisin/mediaserv/internal/api/handlers"
	"github.com/mvoisin/mediaserv/internal/api/middleware"
	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/mvoisin/mediaserv/internal/config"
	"github.com/mvoisin/mediaserv/internal/controllers"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	library   *catalog.Library
	navigator *catalog.Navigator
	delivery  *controllers.DeliveryController
	tracker   *controllers.WatchStateController
	scanCtrl  *controllers.ScanController
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	library *catalog.Library,
	navigator *catalog.Navigator,
	delivery *controllers.DeliveryController,
	tracker *controllers.WatchStateController,
	scanCtrl *controllers.ScanController,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		library:   library,
		navigator: navigator,
		delivery:  delivery,
		tracker:   tracker,
		scanCtrl:  scanCtrl,
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     middleware.Logging(mux, logger),
		ReadTimeout: 15 * time.Second,
		// Range responses are clamped to one streaming window, so even
		// video requests finish well inside the write timeout
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	// Catalog summary and listing
	statusHandler := handlers.NewStatusHandler(s.library, s.logger)
	mux.Handle("GET /status", statusHandler)
	catalogHandler := handlers.NewCatalogHandler(s.library, s.logger)
	mux.Handle("GET /catalog", catalogHandler)
	rescanHandler := handlers.NewRescanHandler(s.scanCtrl, s.logger)
	mux.Handle("POST /catalog/rescan", rescanHandler)

	// Media delivery
	posterHandler := handlers.NewPosterHandler(s.delivery, s.logger)
	mux.Handle("GET /catalog/poster/{id}", posterHandler)
	videoHandler := handlers.NewVideoHandler(s.delivery, s.logger)
	mux.Handle("GET /catalog/video/{id}", videoHandler)
	subtitlesHandler := handlers.NewSubtitlesHandler(s.delivery, s.logger)
	mux.Handle("GET /catalog/subtitles/{videoId}/{lang}", subtitlesHandler)

	// Navigation
	navigationHandler := handlers.NewNavigationHandler(s.navigator, s.logger)
	mux.Handle("GET /catalog/navigation/{videoId}/{direction}", navigationHandler)

	// Watch state
	watchStateHandler := handlers.NewWatchStateHandler(s.tracker, s.logger)
	mux.HandleFunc("GET /watchstate/{userId}", watchStateHandler.List)
	mux.HandleFunc("GET /watchstate/{userId}/{videoId}", watchStateHandler.Get)
	mux.HandleFunc("POST /watchstate/{userId}/{videoId}/progress", watchStateHandler.SaveProgress)
	mux.HandleFunc("POST /watchstate/{userId}/{videoId}/subtitles", watchStateHandler.SaveSubtitleDelays)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
