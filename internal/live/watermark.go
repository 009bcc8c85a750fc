package live

import "sync"

// Watermarks tracks the highest delivered action number per session key.
// Keys are session handle ids, never bare game ids: two sessions watching the
// same game must advance independently.
type Watermarks struct {
	mu      sync.RWMutex
	cursors map[string]int
}

func NewWatermarks() *Watermarks {
	return &Watermarks{
		cursors: make(map[string]int),
	}
}

// Get returns the last delivered action number for a key, or NoActions when
// nothing has been delivered yet.
func (w *Watermarks) Get(key string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if n, ok := w.cursors[key]; ok {
		return n
	}
	return NoActions
}

// Commit raises the watermark for a key. Commits below the current value are
// ignored, so the watermark is non-decreasing for a session's lifetime.
func (w *Watermarks) Commit(key string, actionNumber int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cur, ok := w.cursors[key]; ok && actionNumber <= cur {
		return
	}
	w.cursors[key] = actionNumber
}

// Drop discards a key's cursor when its session ends.
func (w *Watermarks) Drop(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.cursors, key)
}

// Len returns the number of tracked cursors.
func (w *Watermarks) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.cursors)
}
