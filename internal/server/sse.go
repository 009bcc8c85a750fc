package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/live"
)

// handleLiveEvents streams one game's play-by-play as server-sent events.
// The session is tied to the request context, so a client disconnect stops
// the polling loop.
func (s *Server) handleLiveEvents(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	handle, err := s.registry.Start(r.Context(), gameID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	defer s.registry.Cancel(handle.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Info("sse stream opened",
		zap.String("gameID", gameID),
		zap.String("sessionID", handle.ID),
	)

	for u := range handle.Updates {
		var event string
		var payload any
		switch u.Kind {
		case live.UpdatePlay:
			event = "play"
			payload = u.Event
		case live.UpdateNotice:
			event = "notice"
			payload = u.Notice
		default:
			continue
		}

		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("marshal sse payload", zap.Error(err))
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return
		}
		flusher.Flush()
	}

	s.logger.Info("sse stream closed",
		zap.String("gameID", gameID),
		zap.String("sessionID", handle.ID),
	)
}
