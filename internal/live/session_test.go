package live

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/upstream"
)

// fakeUpstream scripts poll results. playByPlay receives the 1-based poll
// number so tests can hand out different batches per cycle.
type fakeUpstream struct {
	mu         sync.Mutex
	polls      int
	playByPlay func(poll int) ([]upstream.RawAction, error)
	scoreboard func() ([]upstream.RawGame, error)
}

func (f *fakeUpstream) FetchPlayByPlay(ctx context.Context, gameID string) ([]upstream.RawAction, error) {
	f.mu.Lock()
	f.polls++
	poll := f.polls
	f.mu.Unlock()
	return f.playByPlay(poll)
}

func (f *fakeUpstream) FetchScoreboard(ctx context.Context) ([]upstream.RawGame, error) {
	if f.scoreboard == nil {
		return nil, nil
	}
	return f.scoreboard()
}

func liveGame(gameID string) []upstream.RawGame {
	return []upstream.RawGame{{
		GameID:     gameID,
		GameStatus: upstream.StatusLive,
		HomeTeam:   upstream.RawTeam{TeamName: "Celtics", Score: 78},
		AwayTeam:   upstream.RawTeam{TeamName: "Knicks", Score: 71},
	}}
}

func fastConfig() Config {
	return Config{PollInterval: 5 * time.Millisecond, InactivityTimeout: time.Minute}
}

// startTestSession wires a registry around the fake and starts one session.
func startTestSession(t *testing.T, fake *fakeUpstream, cfg Config) (*Registry, *Handle) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	reg := NewRegistry(fake, testDirectory(t), cfg, logger)
	handle, err := reg.Start(context.Background(), "0022400123")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return reg, handle
}

func TestSession_DedupAcrossOverlappingBatches(t *testing.T) {
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) {
			switch poll {
			case 1:
				return []upstream.RawAction{{ActionNumber: 3}, {ActionNumber: 1}, {ActionNumber: 2}}, nil
			case 2:
				return []upstream.RawAction{{ActionNumber: 2}, {ActionNumber: 3}, {ActionNumber: 5}, {ActionNumber: 4}}, nil
			default:
				// Repeat the full history forever; nothing new should emerge.
				return []upstream.RawAction{{ActionNumber: 1}, {ActionNumber: 2}, {ActionNumber: 3}, {ActionNumber: 4}, {ActionNumber: 5}}, nil
			}
		},
		scoreboard: func() ([]upstream.RawGame, error) { return liveGame("0022400123"), nil },
	}

	reg, handle := startTestSession(t, fake, fastConfig())

	var events []PlayEvent
	timeout := time.After(5 * time.Second)
	for len(events) < 5 {
		select {
		case u, ok := <-handle.Updates:
			if !ok {
				t.Fatalf("updates closed early with %d events", len(events))
			}
			if u.Kind == UpdatePlay {
				events = append(events, *u.Event)
			}
		case <-timeout:
			t.Fatalf("timed out with %d events", len(events))
		}
	}

	reg.Cancel(handle.ID)
	for range handle.Updates {
		// Drain anything already in flight; duplicates would surface below.
	}

	seen := make(map[int]bool)
	for _, ev := range events {
		if seen[ev.ActionNumber] {
			t.Errorf("action %d emitted twice", ev.ActionNumber)
		}
		seen[ev.ActionNumber] = true
	}
	for n := 1; n <= 5; n++ {
		if !seen[n] {
			t.Errorf("action %d never emitted", n)
		}
	}

	// Within the first batch, events arrive most recent first.
	if events[0].ActionNumber != 3 || events[1].ActionNumber != 2 || events[2].ActionNumber != 1 {
		t.Errorf("first batch out of order: %d %d %d", events[0].ActionNumber, events[1].ActionNumber, events[2].ActionNumber)
	}
	if events[3].ActionNumber != 5 || events[4].ActionNumber != 4 {
		t.Errorf("second batch out of order: %d %d", events[3].ActionNumber, events[4].ActionNumber)
	}
}

func TestSession_GameOverEmitsFinalNotice(t *testing.T) {
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) { return nil, nil },
		scoreboard: func() ([]upstream.RawGame, error) {
			return []upstream.RawGame{{
				GameID:     "0022400123",
				GameStatus: upstream.StatusFinal,
				HomeTeam:   upstream.RawTeam{TeamName: "Celtics", Score: 110},
				AwayTeam:   upstream.RawTeam{TeamName: "Knicks", Score: 102},
			}}, nil
		},
	}

	_, handle := startTestSession(t, fake, fastConfig())

	var notices []TerminalNotice
	for u := range handle.Updates {
		if u.Kind != UpdateNotice {
			t.Errorf("unexpected update kind %q", u.Kind)
			continue
		}
		notices = append(notices, *u.Notice)
	}

	if len(notices) != 1 {
		t.Fatalf("expected exactly one terminal notice, got %d", len(notices))
	}
	n := notices[0]
	if n.Reason != NoticeGameOver {
		t.Errorf("expected game_over, got %s", n.Reason)
	}
	if n.Score != "102 - 110" {
		t.Errorf("expected score '102 - 110', got %q", n.Score)
	}
	if n.Winner != "Celtics" {
		t.Errorf("expected home team win, got winner %q", n.Winner)
	}
}

func TestSession_TieReportedExplicitly(t *testing.T) {
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) { return nil, nil },
		scoreboard: func() ([]upstream.RawGame, error) {
			return []upstream.RawGame{{
				GameID:     "0022400123",
				GameStatus: upstream.StatusFinal,
				HomeTeam:   upstream.RawTeam{TeamName: "Celtics", Score: 100},
				AwayTeam:   upstream.RawTeam{TeamName: "Knicks", Score: 100},
			}}, nil
		},
	}

	_, handle := startTestSession(t, fake, fastConfig())

	u, ok := <-handle.Updates
	if !ok {
		t.Fatal("updates closed without a notice")
	}
	if u.Notice.Winner != "" {
		t.Errorf("tie must not declare a winner, got %q", u.Notice.Winner)
	}
	if !strings.Contains(u.Notice.Message, "tie") {
		t.Errorf("expected explicit tie message, got %q", u.Notice.Message)
	}
}

func TestSession_InactivityTimeout(t *testing.T) {
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) { return nil, nil },
		scoreboard: func() ([]upstream.RawGame, error) { return liveGame("0022400123"), nil },
	}

	cfg := Config{PollInterval: 5 * time.Millisecond, InactivityTimeout: 40 * time.Millisecond}
	_, handle := startTestSession(t, fake, cfg)

	var notices []TerminalNotice
	for u := range handle.Updates {
		if u.Kind == UpdateNotice {
			notices = append(notices, *u.Notice)
		}
	}

	if len(notices) != 1 {
		t.Fatalf("expected exactly one terminal notice, got %d", len(notices))
	}
	if notices[0].Reason != NoticeNoActivity {
		t.Errorf("expected no_activity, got %s", notices[0].Reason)
	}
}

func TestSession_UpstreamFailureEndsSession(t *testing.T) {
	fetchErr := errors.New("connection reset")
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) { return nil, fetchErr },
	}

	_, handle := startTestSession(t, fake, fastConfig())

	var notices []TerminalNotice
	for u := range handle.Updates {
		if u.Kind == UpdateNotice {
			notices = append(notices, *u.Notice)
		}
	}

	if len(notices) != 1 {
		t.Fatalf("expected exactly one error notice, got %d", len(notices))
	}
	if notices[0].Reason != NoticeError {
		t.Errorf("expected upstream_error, got %s", notices[0].Reason)
	}

	// One failed fetch, no retries within the session.
	fake.mu.Lock()
	polls := fake.polls
	fake.mu.Unlock()
	if polls != 1 {
		t.Errorf("expected a single poll, got %d", polls)
	}
}

func TestSession_WatermarkMonotonicAcrossPolls(t *testing.T) {
	// Action numbers arrive out of order across polls; the watermark must
	// only ever move forward.
	fake := &fakeUpstream{
		playByPlay: func(poll int) ([]upstream.RawAction, error) {
			switch poll {
			case 1:
				return []upstream.RawAction{{ActionNumber: 10}}, nil
			case 2:
				return []upstream.RawAction{{ActionNumber: 7}, {ActionNumber: 10}}, nil
			default:
				return []upstream.RawAction{{ActionNumber: 12}, {ActionNumber: 7}}, nil
			}
		},
		scoreboard: func() ([]upstream.RawGame, error) { return liveGame("0022400123"), nil },
	}

	reg, handle := startTestSession(t, fake, fastConfig())

	var events []PlayEvent
	timeout := time.After(5 * time.Second)
	for len(events) < 2 {
		select {
		case u, ok := <-handle.Updates:
			if !ok {
				t.Fatalf("updates closed early with %d events", len(events))
			}
			if u.Kind == UpdatePlay {
				events = append(events, *u.Event)
			}
		case <-timeout:
			t.Fatalf("timed out with %d events", len(events))
		}
	}

	reg.Cancel(handle.ID)
	for range handle.Updates {
	}

	if events[0].ActionNumber != 10 || events[1].ActionNumber != 12 {
		t.Errorf("expected [10 12], got [%d %d]; action 7 must never emit after 10", events[0].ActionNumber, events[1].ActionNumber)
	}
}
