package live

import (
	"testing"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/players"
	"github.com/hoopfeed/courtside/internal/upstream"
)

func testDirectory(t *testing.T) *players.StaticDirectory {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	dir := players.NewStaticDirectory(logger)
	dir.Add(1628369, "Jayson Tatum")
	dir.Add(203999, "Nikola Jokic")
	return dir
}

func TestNormalize_FreshWatermark(t *testing.T) {
	dir := testDirectory(t)
	raw := []upstream.RawAction{
		{ActionNumber: 5, Period: 1, Clock: "PT10M02.00S", ActionType: "2pt", Description: "Tatum 2' layup", PersonID: 1628369},
		{ActionNumber: 3, Period: 1, Clock: "PT10M40.00S", ActionType: "rebound", Description: "Jokic rebound", PersonID: 203999},
	}

	events, wm := Normalize(raw, NoActions, dir)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ActionNumber != 5 || events[1].ActionNumber != 3 {
		t.Errorf("expected descending order [5 3], got [%d %d]", events[0].ActionNumber, events[1].ActionNumber)
	}
	if wm != 5 {
		t.Errorf("expected watermark 5, got %d", wm)
	}
	if events[0].Player != "Jayson Tatum" {
		t.Errorf("expected resolved player name, got %q", events[0].Player)
	}
}

func TestNormalize_FiltersDelivered(t *testing.T) {
	dir := testDirectory(t)
	raw := []upstream.RawAction{
		{ActionNumber: 5, Description: "already seen"},
		{ActionNumber: 7, Description: "new play"},
	}

	events, wm := Normalize(raw, 5, dir)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ActionNumber != 7 {
		t.Errorf("expected action 7, got %d", events[0].ActionNumber)
	}
	if wm != 7 {
		t.Errorf("expected watermark 7, got %d", wm)
	}
}

func TestNormalize_EmptyPollLeavesWatermark(t *testing.T) {
	dir := testDirectory(t)
	raw := []upstream.RawAction{
		{ActionNumber: 2},
		{ActionNumber: 9},
	}

	events, wm := Normalize(raw, 9, dir)
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
	if wm != 9 {
		t.Errorf("expected watermark unchanged at 9, got %d", wm)
	}
}

func TestNormalize_PlayerMissIsNonFatal(t *testing.T) {
	dir := testDirectory(t)
	raw := []upstream.RawAction{
		{ActionNumber: 1, Description: "unknown player scores", PersonID: 999999},
		{ActionNumber: 2, Description: "team rebound"}, // no person at all
	}

	events, wm := Normalize(raw, NoActions, dir)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Player != "" {
			t.Errorf("expected empty player for action %d, got %q", ev.ActionNumber, ev.Player)
		}
	}
	if wm != 2 {
		t.Errorf("expected watermark 2, got %d", wm)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	dir := testDirectory(t)
	raw := []upstream.RawAction{
		{ActionNumber: 3},
		{ActionNumber: 8},
		{ActionNumber: 5},
	}

	_, _ = Normalize(raw, NoActions, dir)

	want := []int{3, 8, 5}
	for i, a := range raw {
		if a.ActionNumber != want[i] {
			t.Fatalf("input order mutated: index %d is %d, want %d", i, a.ActionNumber, want[i])
		}
	}
}
