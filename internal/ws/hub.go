package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/live"
	"github.com/hoopfeed/courtside/internal/telemetry"
)

// Hub manages WebSocket connections and the scoreboard subscription group.
// Live watches are per-client and routed through the session registry, so the
// hub only tracks connection lifecycle and broadcast fan-out.
type Hub struct {
	registry   *live.Registry
	encoder    *Encoder
	clients    map[*Client]bool
	scoreboard map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	ctx        context.Context
	logger     *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(registry *live.Registry, logger *zap.Logger) (*Hub, error) {
	enc, err := NewEncoder()
	if err != nil {
		return nil, err
	}

	return &Hub{
		registry:   registry,
		encoder:    enc,
		clients:    make(map[*Client]bool),
		scoreboard: make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}, nil
}

// Run processes hub events. Call this in a goroutine.
// Returns when context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down")
			h.shutdown()
			h.encoder.Close()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			telemetry.AddGauge(telemetry.WSClients, 1)
			h.logger.Debug("client registered", zap.String("connID", client.connID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.scoreboard, client)
				client.close()
				telemetry.AddGauge(telemetry.WSClients, -1)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("connID", client.connID))
		}
	}
}

// sessionContext is the parent context for sessions started by clients.
// Falls back to Background when the hub has not started yet (tests).
func (h *Hub) sessionContext() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.ctx != nil {
		return h.ctx
	}
	return context.Background()
}

// shutdown gracefully closes all client connections.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.close()
		delete(h.clients, client)
		telemetry.AddGauge(telemetry.WSClients, -1)
	}
	h.scoreboard = make(map[*Client]bool)
}

// SetScoreboard toggles a client's scoreboard subscription.
func (h *Hub) SetScoreboard(client *Client, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if enabled {
		h.scoreboard[client] = true
	} else {
		delete(h.scoreboard, client)
	}

	h.logger.Debug("scoreboard subscription changed",
		zap.String("connID", client.connID),
		zap.Bool("enabled", enabled),
	)
}

// ScoreboardSubscribers returns the number of clients awaiting scoreboard pushes.
func (h *Hub) ScoreboardSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scoreboard)
}

// BroadcastScoreboard pushes today's slate to every subscribed client,
// encoding per each client's negotiated protocol.
func (h *Hub) BroadcastScoreboard(today *games.TodayGames) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.scoreboard))
	for client := range h.scoreboard {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	msg := scoreboardMessage(today)
	for _, client := range subscribers {
		payload, err := h.encoder.Encode(msg, client.protocol)
		if err != nil {
			h.logger.Warn("failed to encode scoreboard", zap.Error(err))
			return
		}
		client.enqueue(payload)
	}
}
