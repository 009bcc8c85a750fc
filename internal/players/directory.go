// Package players resolves person ids from the live feed to display names.
// Lookup misses are expected (two-way players, fresh call-ups) and degrade to
// an empty name rather than failing play-by-play delivery.
package players

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Directory resolves a feed person id to a player display name.
type Directory interface {
	LookupPlayerName(personID int) (string, bool)
}

// StaticDirectory is an in-memory directory seeded from a roster file.
type StaticDirectory struct {
	mu     sync.RWMutex
	names  map[int]string
	logger *zap.Logger
}

// rosterEntry mirrors one record of the roster seed file.
type rosterEntry struct {
	PersonID int    `json:"personId"`
	FullName string `json:"fullName"`
}

// NewStaticDirectory creates an empty directory.
func NewStaticDirectory(logger *zap.Logger) *StaticDirectory {
	return &StaticDirectory{
		names:  make(map[int]string),
		logger: logger,
	}
}

// LoadFile merges roster entries from a JSON file into the directory.
func (d *StaticDirectory) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading roster file: %w", err)
	}

	var entries []rosterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decoding roster file %s: %w", path, err)
	}

	d.mu.Lock()
	for _, e := range entries {
		if e.PersonID != 0 && e.FullName != "" {
			d.names[e.PersonID] = e.FullName
		}
	}
	count := len(d.names)
	d.mu.Unlock()

	d.logger.Info("roster loaded",
		zap.String("path", path),
		zap.Int("players", count),
	)
	return nil
}

// Add inserts or replaces a single player entry.
func (d *StaticDirectory) Add(personID int, fullName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[personID] = fullName
}

// LookupPlayerName returns the display name for a person id.
func (d *StaticDirectory) LookupPlayerName(personID int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[personID]
	return name, ok
}

// Len returns the number of known players.
func (d *StaticDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.names)
}
