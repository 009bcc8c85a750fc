package capture

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/staging"
	"github.com/hoopfeed/courtside/internal/upstream"
)

type mockClient struct {
	mu       sync.Mutex
	polls    map[string]int
	notFound map[string]bool
}

func newMockClient(notFound ...string) *mockClient {
	nf := make(map[string]bool)
	for _, id := range notFound {
		nf[id] = true
	}
	return &mockClient{polls: make(map[string]int), notFound: nf}
}

func (m *mockClient) FetchPlayByPlay(ctx context.Context, gameID string) ([]upstream.RawAction, error) {
	if m.notFound[gameID] {
		return nil, upstream.ErrGameNotFound
	}
	m.mu.Lock()
	m.polls[gameID]++
	n := m.polls[gameID]
	m.mu.Unlock()

	actions := make([]upstream.RawAction, 0, n)
	for i := 1; i <= n; i++ {
		actions = append(actions, upstream.RawAction{ActionNumber: i})
	}
	return actions, nil
}

func (m *mockClient) FetchScoreboard(ctx context.Context) ([]upstream.RawGame, error) {
	// Every game reports final so captures finish quickly.
	m.mu.Lock()
	games := make([]upstream.RawGame, 0, len(m.polls))
	for id := range m.polls {
		games = append(games, upstream.RawGame{GameID: id, GameStatus: upstream.StatusFinal})
	}
	m.mu.Unlock()
	return games, nil
}

func TestCaptureManager(t *testing.T) {
	tmpDir := t.TempDir()

	client := newMockClient("0022500099")
	stgMgr := staging.NewManager(tmpDir)
	mgr := NewManager(client, stgMgr, 2, 5*time.Millisecond, zap.NewNop())

	tasks := []Task{
		{GameID: "0022500001", Date: "2026-01-15"},
		{GameID: "0022500002", Date: "2026-01-15"},
		{GameID: "0022500099", Date: "2026-01-15"}, // This one is not found
	}

	result, err := mgr.Execute(context.Background(), tasks)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Total != 3 {
		t.Errorf("expected total 3, got %d", result.Total)
	}
	if result.Success != 2 {
		t.Errorf("expected 2 successful, got %d", result.Success)
	}
	if result.NotFound != 1 {
		t.Errorf("expected 1 not found, got %d", result.NotFound)
	}

	// Committed recordings land under the date directory
	finalPath := filepath.Join(tmpDir, "2026-01-15", "0022500001.jsonl")
	if _, err := os.Stat(finalPath); os.IsNotExist(err) {
		t.Errorf("expected committed recording at %s", finalPath)
	}

	// Staging is cleaned up after commit
	if _, err := os.Stat(stgMgr.StagingDir("2026-01-15")); !os.IsNotExist(err) {
		t.Error("staging directory should be removed after execute")
	}
}

func TestCaptureManager_Resume(t *testing.T) {
	tmpDir := t.TempDir()

	client := newMockClient()
	stgMgr := staging.NewManager(tmpDir)
	mgr := NewManager(client, stgMgr, 1, 5*time.Millisecond, zap.NewNop())

	// Pre-create a committed recording
	finalPath := filepath.Join(tmpDir, "2026-01-15", "0022500001.jsonl")
	if err := os.MkdirAll(filepath.Dir(finalPath), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(finalPath, []byte("existing"), 0600); err != nil {
		t.Fatal(err)
	}

	tasks := []Task{
		{GameID: "0022500001", Date: "2026-01-15"},
	}

	result, err := mgr.Execute(context.Background(), tasks)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}

	// Verify original file wasn't modified
	content, _ := os.ReadFile(finalPath)
	if string(content) != "existing" {
		t.Error("existing recording was modified")
	}
}

func TestCaptureManager_RejectsMixedDates(t *testing.T) {
	client := newMockClient()
	mgr := NewManager(client, staging.NewManager(t.TempDir()), 1, 5*time.Millisecond, zap.NewNop())

	_, err := mgr.Execute(context.Background(), []Task{
		{GameID: "0022500001", Date: "2026-01-15"},
		{GameID: "0022500002", Date: "2026-01-16"},
	})
	if err == nil {
		t.Error("expected error for mixed dates")
	}
}

func TestTask(t *testing.T) {
	task := Task{GameID: "0022500123", Date: "2026-01-15"}

	if task.FileName() != "0022500123.jsonl" {
		t.Errorf("unexpected FileName: %s", task.FileName())
	}
	if task.String() != "2026-01-15/0022500123" {
		t.Errorf("unexpected String: %s", task.String())
	}
}
