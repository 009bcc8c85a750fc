package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/players"
	"github.com/hoopfeed/courtside/internal/telemetry"
	"github.com/hoopfeed/courtside/internal/upstream"
)

// State names the session state machine's positions. Terminal states are
// final: a session never resumes polling once it reaches one.
type State string

const (
	StatePolling         State = "polling"
	StateEmitting        State = "emitting"
	StateEndedNoActivity State = "ended_no_activity"
	StateEndedGameOver   State = "ended_game_over"
	StateEndedError      State = "ended_error"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	switch s {
	case StateEndedNoActivity, StateEndedGameOver, StateEndedError:
		return true
	}
	return false
}

// Config holds the session loop tunables.
type Config struct {
	// PollInterval is the delay between upstream polls.
	PollInterval time.Duration
	// InactivityTimeout ends a session that has produced no new events for
	// this long.
	InactivityTimeout time.Duration
}

const (
	defaultPollInterval      = 3 * time.Second
	defaultInactivityTimeout = 25 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = defaultInactivityTimeout
	}
	return c
}

// Upstream is the narrow slice of the feed client the session core needs.
type Upstream interface {
	FetchPlayByPlay(ctx context.Context, gameID string) ([]upstream.RawAction, error)
	FetchScoreboard(ctx context.Context) ([]upstream.RawGame, error)
}

// Session drives one game's live polling from start to a terminal state. It
// owns its watermark key exclusively and is discarded after termination.
type Session struct {
	id         string
	gameID     string
	upstream   Upstream
	directory  players.Directory
	watermarks *Watermarks
	cfg        Config
	logger     *zap.Logger
	updates    chan Update

	mu            sync.Mutex
	state         State
	startTime     time.Time
	lastEventTime time.Time // zero until first emit
}

func newSession(id, gameID string, up Upstream, dir players.Directory, wm *Watermarks, cfg Config, logger *zap.Logger) *Session {
	return &Session{
		id:         id,
		gameID:     gameID,
		upstream:   up,
		directory:  dir,
		watermarks: wm,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		updates:    make(chan Update), // unbuffered: delivery gates the next fetch
		state:      StatePolling,
		startTime:  time.Now(),
	}
}

// run executes the polling loop until a terminal state or cancellation. The
// update channel is closed on every exit path.
func (s *Session) run(ctx context.Context) {
	defer close(s.updates)
	defer s.watermarks.Drop(s.id)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.logger.Info("live session started",
		zap.String("sessionID", s.id),
		zap.String("gameID", s.gameID),
		zap.Duration("pollInterval", s.cfg.PollInterval),
	)

	for {
		// Cancellation checkpoint before each upstream fetch.
		if ctx.Err() != nil {
			s.logger.Info("live session cancelled", zap.String("sessionID", s.id))
			return
		}

		telemetry.IncCounter(telemetry.PollsTotal)
		actions, err := s.upstream.FetchPlayByPlay(ctx, s.gameID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.fail(ctx, err)
			return
		}

		events, next := Normalize(actions, s.watermarks.Get(s.id), s.directory)
		if len(events) > 0 {
			s.setState(StateEmitting)
			for i := range events {
				if !s.emit(ctx, Update{Kind: UpdatePlay, Event: &events[i]}) {
					return
				}
			}
			s.watermarks.Commit(s.id, next)
			s.markActivity(time.Now())
			telemetry.AddCounter(telemetry.EventsEmitted, float64(len(events)))
			s.setState(StatePolling)
		} else {
			ended, err := s.handleEmptyPoll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.fail(ctx, err)
				return
			}
			if ended {
				return
			}
		}

		select {
		case <-ctx.Done():
			s.logger.Info("live session cancelled", zap.String("sessionID", s.id))
			return
		case <-ticker.C:
		}
	}
}

// handleEmptyPoll decides whether an event-less poll ends the session: the
// game reaching a final status wins over the inactivity timeout.
func (s *Session) handleEmptyPoll(ctx context.Context) (bool, error) {
	games, err := s.upstream.FetchScoreboard(ctx)
	if err != nil {
		return false, err
	}

	for _, g := range games {
		if g.GameID != s.gameID {
			continue
		}
		if g.GameStatus == upstream.StatusFinal {
			notice := finalNotice(g.HomeTeam.TeamName, g.AwayTeam.TeamName, g.HomeTeam.Score, g.AwayTeam.Score)
			s.end(ctx, StateEndedGameOver, notice)
			return true, nil
		}
		break
	}

	if s.inactiveFor() > s.cfg.InactivityTimeout {
		s.end(ctx, StateEndedNoActivity, TerminalNotice{
			Reason:  NoticeNoActivity,
			Message: fmt.Sprintf("no new plays for %s, closing the live feed", s.cfg.InactivityTimeout),
		})
		return true, nil
	}

	return false, nil
}

// fail surfaces one diagnostic notice and ends the session. Upstream failures
// are not retried within a session.
func (s *Session) fail(ctx context.Context, err error) {
	telemetry.IncCounter(telemetry.UpstreamErrors)
	s.logger.Warn("live session upstream failure",
		zap.String("sessionID", s.id),
		zap.String("gameID", s.gameID),
		zap.Error(err),
	)
	s.end(ctx, StateEndedError, TerminalNotice{
		Reason:  NoticeError,
		Message: fmt.Sprintf("live feed error: %v", err),
	})
}

func (s *Session) end(ctx context.Context, terminal State, notice TerminalNotice) {
	s.emit(ctx, Update{Kind: UpdateNotice, Notice: &notice})
	s.setState(terminal)
	telemetry.IncReason(string(notice.Reason))
	s.logger.Info("live session ended",
		zap.String("sessionID", s.id),
		zap.String("gameID", s.gameID),
		zap.String("state", string(terminal)),
	)
}

// emit delivers one update, blocking until the consumer takes it. Returns
// false if the session was cancelled while waiting.
func (s *Session) emit(ctx context.Context, u Update) bool {
	select {
	case s.updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// inactiveFor measures time since the last emitted event, or since session
// start when nothing has ever been emitted.
func (s *Session) inactiveFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchor := s.startTime
	if !s.lastEventTime.IsZero() {
		anchor = s.lastEventTime
	}
	return time.Since(anchor)
}

func (s *Session) markActivity(t time.Time) {
	s.mu.Lock()
	s.lastEventTime = t
	s.mu.Unlock()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// snapshot returns a copy of the session's observable state.
func (s *Session) snapshot() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:            s.id,
		GameID:        s.gameID,
		State:         s.state,
		StartTime:     s.startTime,
		LastEventTime: s.lastEventTime,
		Watermark:     s.watermarks.Get(s.id),
	}
}
