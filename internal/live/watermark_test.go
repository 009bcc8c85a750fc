package live

import "testing"

func TestWatermarks_SentinelDefault(t *testing.T) {
	wm := NewWatermarks()
	if got := wm.Get("missing"); got != NoActions {
		t.Errorf("expected sentinel %d, got %d", NoActions, got)
	}
}

func TestWatermarks_CommitIsMonotonic(t *testing.T) {
	wm := NewWatermarks()

	wm.Commit("s1", 5)
	if got := wm.Get("s1"); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}

	// Lower commits are ignored
	wm.Commit("s1", 3)
	if got := wm.Get("s1"); got != 5 {
		t.Errorf("watermark regressed to %d", got)
	}

	wm.Commit("s1", 7)
	if got := wm.Get("s1"); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestWatermarks_KeysAreIndependent(t *testing.T) {
	wm := NewWatermarks()
	wm.Commit("s1", 10)
	wm.Commit("s2", 4)

	if got := wm.Get("s1"); got != 10 {
		t.Errorf("s1: expected 10, got %d", got)
	}
	if got := wm.Get("s2"); got != 4 {
		t.Errorf("s2: expected 4, got %d", got)
	}

	wm.Drop("s1")
	if got := wm.Get("s1"); got != NoActions {
		t.Errorf("expected sentinel after drop, got %d", got)
	}
	if got := wm.Get("s2"); got != 4 {
		t.Errorf("drop leaked across keys: s2 is %d", got)
	}
}
