package ws

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/games"
)

func newTestClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	return &Client{
		hub:      hub,
		send:     make(chan []byte, 4),
		done:     make(chan struct{}),
		connID:   "test-conn",
		protocol: ProtocolJSON,
		logger:   zap.NewNop(),
		watches:  make(map[string]string),
	}
}

func TestScoreboardSubscription(t *testing.T) {
	hub, err := NewHub(nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	defer hub.encoder.Close()

	client := newTestClient(t, hub)

	if n := hub.ScoreboardSubscribers(); n != 0 {
		t.Fatalf("subscribers = %d, want 0", n)
	}

	hub.SetScoreboard(client, true)
	if n := hub.ScoreboardSubscribers(); n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}

	hub.BroadcastScoreboard(&games.TodayGames{Date: "2026-01-15"})

	select {
	case payload := <-client.send:
		var msg ServerMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != MsgScoreboard {
			t.Errorf("type = %q, want scoreboard", msg.Type)
		}
		if msg.Today == nil || msg.Today.Date != "2026-01-15" {
			t.Errorf("today payload = %+v", msg.Today)
		}
	default:
		t.Fatal("no scoreboard frame enqueued")
	}

	hub.SetScoreboard(client, false)
	if n := hub.ScoreboardSubscribers(); n != 0 {
		t.Errorf("subscribers = %d, want 0 after unsubscribe", n)
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	hub, err := NewHub(nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	defer hub.encoder.Close()

	client := newTestClient(t, hub)
	client.send = make(chan []byte, 1)

	if !client.enqueue([]byte("a")) {
		t.Fatal("first enqueue should succeed")
	}
	if client.enqueue([]byte("b")) {
		t.Error("enqueue into a full buffer should report false")
	}
}
