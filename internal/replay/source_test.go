package replay

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/upstream"
)

func writeRecording(t *testing.T, dir, name string, lines []any) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
}

func newTestSource(t *testing.T) *Source {
	t.Helper()
	dir := t.TempDir()
	dateDir := filepath.Join(dir, "2026-01-15")
	if err := os.MkdirAll(dateDir, 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	now := time.Now()
	writeRecording(t, dateDir, "0022500001.jsonl", []any{
		PlaySnapshot{CapturedAt: now, Actions: []upstream.RawAction{{ActionNumber: 1}}},
		PlaySnapshot{CapturedAt: now, Actions: []upstream.RawAction{{ActionNumber: 1}, {ActionNumber: 2}}},
	})
	writeRecording(t, dateDir, ScoreboardFile, []any{
		ScoreboardSnapshot{CapturedAt: now, Games: []upstream.RawGame{{GameID: "0022500001", GameStatus: upstream.StatusLive}}},
		ScoreboardSnapshot{CapturedAt: now, Games: []upstream.RawGame{{GameID: "0022500001", GameStatus: upstream.StatusFinal}}},
	})

	src, err := NewSource(dir, "2026-01-15", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return src
}

func TestSourceAdvancesPerPoll(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	first, err := src.FetchPlayByPlay(ctx, "0022500001")
	if err != nil {
		t.Fatalf("poll 1: %v", err)
	}
	if len(first) != 1 {
		t.Errorf("poll 1 actions = %d, want 1", len(first))
	}

	second, err := src.FetchPlayByPlay(ctx, "0022500001")
	if err != nil {
		t.Fatalf("poll 2: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("poll 2 actions = %d, want 2", len(second))
	}
}

func TestSourceClampsAtLastSnapshot(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		actions, err := src.FetchPlayByPlay(ctx, "0022500001")
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if i >= 1 && len(actions) != 2 {
			t.Errorf("poll %d actions = %d, want 2", i, len(actions))
		}
	}

	// Scoreboard clamps at the final snapshot too.
	for i := 0; i < 3; i++ {
		games, err := src.FetchScoreboard(ctx)
		if err != nil {
			t.Fatalf("scoreboard %d: %v", i, err)
		}
		if i >= 1 && games[0].GameStatus != upstream.StatusFinal {
			t.Errorf("scoreboard %d status = %d, want final", i, games[0].GameStatus)
		}
	}
}

func TestSourceUnknownGame(t *testing.T) {
	src := newTestSource(t)

	_, err := src.FetchPlayByPlay(context.Background(), "0022509999")
	if !errors.Is(err, upstream.ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestSourceRewind(t *testing.T) {
	src := newTestSource(t)
	ctx := context.Background()

	src.FetchPlayByPlay(ctx, "0022500001")
	src.FetchPlayByPlay(ctx, "0022500001")
	src.Rewind()

	actions, err := src.FetchPlayByPlay(ctx, "0022500001")
	if err != nil {
		t.Fatalf("poll after rewind: %v", err)
	}
	if len(actions) != 1 {
		t.Errorf("actions = %d, want 1 after rewind", len(actions))
	}
}

func TestSourceEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2026-01-15"), 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := NewSource(dir, "2026-01-15", zap.NewNop())
	if !errors.Is(err, ErrNoRecordings) {
		t.Errorf("err = %v, want ErrNoRecordings", err)
	}
}
