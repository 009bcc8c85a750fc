package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/players"
	"github.com/hoopfeed/courtside/internal/telemetry"
)

// ErrEmptyGameID is returned when Start is called without a game id.
var ErrEmptyGameID = errors.New("game id is required")

// Handle routes lifecycle calls for one started session. The update channel
// is closed when the session reaches a terminal state or is cancelled.
type Handle struct {
	ID      string
	GameID  string
	Updates <-chan Update
}

// SessionInfo is a point-in-time snapshot of a running session.
type SessionInfo struct {
	ID            string    `json:"id"`
	GameID        string    `json:"gameId"`
	State         State     `json:"state"`
	StartTime     time.Time `json:"startTime"`
	LastEventTime time.Time `json:"lastEventTime,omitzero"`
	Watermark     int       `json:"watermark"`
}

// Registry owns all running live sessions. Handles are keyed by fresh UUIDs,
// never by game id: the same game watched twice yields two fully independent
// sessions with their own watermarks.
type Registry struct {
	upstream   Upstream
	directory  players.Directory
	watermarks *Watermarks
	cfg        Config
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*registered
}

type registered struct {
	session *Session
	cancel  context.CancelFunc
}

func NewRegistry(up Upstream, dir players.Directory, cfg Config, logger *zap.Logger) *Registry {
	return &Registry{
		upstream:   up,
		directory:  dir,
		watermarks: NewWatermarks(),
		cfg:        cfg,
		logger:     logger,
		sessions:   make(map[string]*registered),
	}
}

// Start creates a session for gameID and begins polling. The session runs
// until a terminal state, Cancel, or cancellation of ctx.
func (r *Registry) Start(ctx context.Context, gameID string) (*Handle, error) {
	if gameID == "" {
		return nil, ErrEmptyGameID
	}

	id := uuid.New().String()
	sctx, cancel := context.WithCancel(ctx)
	sess := newSession(id, gameID, r.upstream, r.directory, r.watermarks, r.cfg, r.logger)

	r.mu.Lock()
	r.sessions[id] = &registered{session: sess, cancel: cancel}
	r.mu.Unlock()

	telemetry.IncCounter(telemetry.SessionsStarted)
	telemetry.AddGauge(telemetry.ActiveSessions, 1)

	go func() {
		sess.run(sctx)
		cancel()
		r.remove(id)
	}()

	return &Handle{ID: id, GameID: gameID, Updates: sess.updates}, nil
}

// Cancel signals a session to stop at its next checkpoint. Idempotent, and
// safe to race with the session's own completion.
func (r *Registry) Cancel(handleID string) {
	r.mu.Lock()
	reg, ok := r.sessions[handleID]
	r.mu.Unlock()
	if !ok {
		return
	}
	reg.cancel()
}

// Active returns snapshots of all sessions still registered.
func (r *Registry) Active() []SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]SessionInfo, 0, len(r.sessions))
	for _, reg := range r.sessions {
		infos = append(infos, reg.session.snapshot())
	}
	return infos
}

// Shutdown cancels every running session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	regs := make([]*registered, 0, len(r.sessions))
	for _, reg := range r.sessions {
		regs = append(regs, reg)
	}
	r.mu.Unlock()

	for _, reg := range regs {
		reg.cancel()
	}
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		telemetry.AddGauge(telemetry.ActiveSessions, -1)
	}
}
