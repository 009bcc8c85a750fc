package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/config"
	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/live"
	"github.com/hoopfeed/courtside/internal/upstream"
	"github.com/hoopfeed/courtside/internal/ws"
)

type Server struct {
	registry *live.Registry
	games    *games.Service
	hub      *ws.Hub
	config   *config.Config
	logger   *zap.Logger
	started  time.Time
}

func NewServer(registry *live.Registry, svc *games.Service, hub *ws.Hub, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		games:    svc,
		hub:      hub,
		config:   cfg,
		logger:   logger,
		started:  time.Now(),
	}
}

type healthResponse struct {
	Status         string `json:"status"`
	UptimeSec      int64  `json:"uptimeSec"`
	ActiveSessions int    `json:"activeSessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		UptimeSec:      int64(time.Since(s.started).Seconds()),
		ActiveSessions: len(s.registry.Active()),
	})
}

func (s *Server) handleScoreboardToday(w http.ResponseWriter, r *http.Request) {
	today, err := s.games.Today(r.Context())
	if err != nil {
		s.upstreamError(w, "fetch scoreboard", err)
		return
	}
	writeJSON(w, http.StatusOK, today)
}

func (s *Server) handleGamesOngoing(w http.ResponseWriter, r *http.Request) {
	ongoing, err := s.games.Ongoing(r.Context())
	if err != nil {
		s.upstreamError(w, "fetch ongoing games", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games": ongoing,
		"count": len(ongoing),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.registry.Active()
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.registry.Cancel(id)
	s.logger.Info("session cancel requested", zap.String("sessionID", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) upstreamError(w http.ResponseWriter, action string, err error) {
	s.logger.Warn(action+" failed", zap.Error(err))
	status := http.StatusBadGateway
	if errors.Is(err, upstream.ErrGameNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
