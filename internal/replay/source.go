package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/upstream"
)

// Source replays a recorded date directory as if it were the live feed.
// Each FetchPlayByPlay call for a game returns the next recorded snapshot;
// once a recording is exhausted the last snapshot is returned again, so a
// session sees an idle feed and ends the way it would against the real CDN.
// The scoreboard advances the same way. Safe for concurrent use.
type Source struct {
	games      map[string][]PlaySnapshot
	scoreboard []ScoreboardSnapshot
	logger     *zap.Logger

	mu      sync.Mutex
	cursors map[string]int
	sbIdx   int
}

var _ upstream.Client = (*Source)(nil)

// NewSource loads every recording under dir/date.
func NewSource(dir, date string, logger *zap.Logger) (*Source, error) {
	src := &Source{
		games:   make(map[string][]PlaySnapshot),
		cursors: make(map[string]int),
		logger:  logger,
	}

	dateDir := filepath.Join(dir, date)
	entries, err := os.ReadDir(dateDir)
	if err != nil {
		return nil, fmt.Errorf("reading recordings directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
			continue
		}
		path := filepath.Join(dateDir, entry.Name())

		if entry.Name() == ScoreboardFile {
			snaps, err := loadLines[ScoreboardSnapshot](path)
			if err != nil {
				logger.Warn("failed to load scoreboard recording", zap.String("path", path), zap.Error(err))
				continue
			}
			src.scoreboard = snaps
			logger.Info("loaded scoreboard recording", zap.Int("snapshots", len(snaps)))
			continue
		}

		gameID := strings.TrimSuffix(entry.Name(), ".jsonl")
		snaps, err := loadLines[PlaySnapshot](path)
		if err != nil {
			logger.Warn("failed to load game recording", zap.String("path", path), zap.Error(err))
			continue
		}
		src.games[gameID] = snaps
		logger.Info("loaded game recording",
			zap.String("gameID", gameID),
			zap.Int("snapshots", len(snaps)),
		)
	}

	if len(src.games) == 0 && len(src.scoreboard) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecordings, dateDir)
	}

	return src, nil
}

func loadLines[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var items []T
	scanner := bufio.NewScanner(file)

	// Increase buffer size for large lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// FetchPlayByPlay returns the next recorded snapshot for the game.
func (s *Source) FetchPlayByPlay(ctx context.Context, gameID string) ([]upstream.RawAction, error) {
	snaps, ok := s.games[gameID]
	if !ok {
		return nil, upstream.ErrGameNotFound
	}

	s.mu.Lock()
	idx := s.cursors[gameID]
	if idx < len(snaps)-1 {
		s.cursors[gameID] = idx + 1
	}
	s.mu.Unlock()

	return snaps[idx].Actions, nil
}

// FetchScoreboard returns the next recorded scoreboard snapshot.
func (s *Source) FetchScoreboard(ctx context.Context) ([]upstream.RawGame, error) {
	if len(s.scoreboard) == 0 {
		return nil, upstream.ErrUpstreamUnavailable
	}

	s.mu.Lock()
	idx := s.sbIdx
	if idx < len(s.scoreboard)-1 {
		s.sbIdx = idx + 1
	}
	s.mu.Unlock()

	return s.scoreboard[idx].Games, nil
}

// GameIDs returns the recorded games, for listing what a directory replays.
func (s *Source) GameIDs() []string {
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}

// Rewind resets every cursor to the start of its recording.
func (s *Source) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = make(map[string]int)
	s.sbIdx = 0
}
