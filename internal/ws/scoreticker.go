package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/games"
)

// ScoreTicker periodically pushes today's scoreboard to subscribed clients.
type ScoreTicker struct {
	hub      *Hub
	games    *games.Service
	interval time.Duration
	logger   *zap.Logger
}

// NewScoreTicker creates a scoreboard ticker with the given push interval.
func NewScoreTicker(hub *Hub, svc *games.Service, interval time.Duration, logger *zap.Logger) *ScoreTicker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ScoreTicker{
		hub:      hub,
		games:    svc,
		interval: interval,
		logger:   logger,
	}
}

// Run pushes the scoreboard on each tick until the context is cancelled.
// Upstream errors are logged and the loop continues.
func (t *ScoreTicker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("scoreboard ticker started",
		zap.Duration("interval", t.interval),
	)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("scoreboard ticker stopped")
			return
		case <-ticker.C:
			t.push(ctx)
		}
	}
}

func (t *ScoreTicker) push(ctx context.Context) {
	// No subscribers, skip the upstream fetch entirely.
	if t.hub.ScoreboardSubscribers() == 0 {
		return
	}

	today, err := t.games.Today(ctx)
	if err != nil {
		t.logger.Warn("scoreboard fetch failed", zap.Error(err))
		return
	}

	t.hub.BroadcastScoreboard(today)
}
