// Package api exposes the read-only snapshot endpoints consumed by the
// dashboard and the score submission endpoint that drives the scoring
// pipeline.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/config"
	applogger "github.com/yourusername/football-elo/internal/logger"
	"github.com/yourusername/football-elo/internal/service"
)

// Server wires the HTTP routes to the service layer.
type Server struct {
	cfg       *config.ServerConfig
	season    int
	snapshots *service.SnapshotService
	scoring   *service.ScoringService
	regen     *service.PredictionService
	hub       *Hub
	audit     *applogger.AuditLogger
	logger    *logrus.Logger
	server    *http.Server
}

// NewServer creates the API server. The hub may be nil when the live
// stream is disabled.
func NewServer(
	cfg *config.ServerConfig,
	season int,
	snapshots *service.SnapshotService,
	scoring *service.ScoringService,
	regen *service.PredictionService,
	hub *Hub,
	audit *applogger.AuditLogger,
	logger *logrus.Logger,
) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		cfg:       cfg,
		season:    season,
		snapshots: snapshots,
		scoring:   scoring,
		regen:     regen,
		hub:       hub,
		audit:     audit,
		logger:    logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ratings", s.handleRatings).Methods(http.MethodGet)
	api.HandleFunc("/teams/{name}", s.handleTeam).Methods(http.MethodGet)
	api.HandleFunc("/standings", s.handleStandings).Methods(http.MethodGet)
	api.HandleFunc("/accuracy", s.handleAccuracy).Methods(http.MethodGet)
	api.HandleFunc("/matches/pending", s.handlePendingMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/completed", s.handleCompletedMatches).Methods(http.MethodGet)
	api.HandleFunc("/predictions", s.handlePredictions).Methods(http.MethodGet)

	write := api.NewRoute().Subrouter()
	write.Use(s.writeAuth, s.writeRateLimit)
	write.HandleFunc("/matches", s.handleCreateMatch).Methods(http.MethodPost)
	write.HandleFunc("/matches/{id}/score", s.handleSubmitScore).Methods(http.MethodPost)
	write.HandleFunc("/predictions/regenerate", s.handleRegenerate).Methods(http.MethodPost)

	if s.hub != nil {
		r.HandleFunc("/ws", s.hub.HandleUpgrade)
	}

	return r
}

// Start runs the API server; it blocks until the server stops.
func (s *Server) Start() error {
	timeout := time.Duration(s.cfg.RequestTimeoutSeconds) * time.Second
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	s.logger.WithField("port", s.cfg.Port).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
