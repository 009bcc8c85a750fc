package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/replay"
	"github.com/hoopfeed/courtside/internal/staging"
	"github.com/hoopfeed/courtside/internal/upstream"
)

// Manager records live feeds to disk for later replay. Each task captures one
// game's play-by-play as a stream of poll snapshots; a single shared recorder
// captures the scoreboard alongside. Workers bound how many games poll at once.
type Manager struct {
	client   upstream.Client
	staging  *staging.Manager
	workers  int
	interval time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	statuses map[string]int
}

type BatchResult struct {
	Total    int
	Success  int
	Skipped  int
	NotFound int
	Failed   int
	Errors   []string
}

func NewManager(client upstream.Client, staging *staging.Manager, workers int, interval time.Duration, logger *zap.Logger) *Manager {
	if workers <= 0 {
		workers = 4
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Manager{
		client:   client,
		staging:  staging,
		workers:  workers,
		interval: interval,
		logger:   logger,
		statuses: make(map[string]int),
	}
}

// Execute captures every task's game until it finishes or ctx is cancelled,
// then commits the staged recordings. All tasks must share one date.
func (m *Manager) Execute(ctx context.Context, tasks []Task) (*BatchResult, error) {
	result := &BatchResult{Total: len(tasks)}

	if len(tasks) == 0 {
		return result, nil
	}

	date := tasks[0].Date
	for _, t := range tasks {
		if t.Date != date {
			return nil, fmt.Errorf("mixed dates in capture batch: %s and %s", date, t.Date)
		}
	}

	if err := m.staging.PrepareStaging(date); err != nil {
		return nil, fmt.Errorf("preparing staging: %w", err)
	}

	// Shared scoreboard recorder; workers read game statuses from it to know
	// when their game is over.
	sbCtx, stopScoreboard := context.WithCancel(ctx)
	var sbDone sync.WaitGroup
	sbDone.Add(1)
	go func() {
		defer sbDone.Done()
		m.recordScoreboard(sbCtx, date)
	}()

	jobs := make(chan Task, len(tasks))
	results := make(chan TaskResult, len(tasks))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			m.worker(ctx, workerID, jobs, results)
		}(i)
	}

	// Send jobs
	go func() {
		for _, task := range tasks {
			select {
			case <-ctx.Done():
				return
			case jobs <- task:
			}
		}
		close(jobs)
	}()

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	for r := range results {
		if r.Skipped {
			result.Skipped++
		} else if r.NotFound {
			result.NotFound++
		} else if r.Success {
			result.Success++
		} else {
			result.Failed++
			if r.Error != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Task, r.Error))
			}
		}
	}

	stopScoreboard()
	sbDone.Wait()

	if result.Success > 0 {
		if err := m.staging.CommitStaging(date); err != nil {
			m.logger.Warn("failed to commit staging", zap.String("date", date), zap.Error(err))
		}
	}
	if err := m.staging.CleanupStaging(date); err != nil {
		m.logger.Warn("failed to cleanup staging", zap.String("date", date), zap.Error(err))
	}

	return result, nil
}

func (m *Manager) worker(ctx context.Context, id int, jobs <-chan Task, results chan<- TaskResult) {
	for task := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := m.processTask(ctx, task)

		select {
		case <-ctx.Done():
			return
		case results <- result:
		}
	}
}

func (m *Manager) processTask(ctx context.Context, task Task) TaskResult {
	result := TaskResult{Task: task}

	// Check if a committed recording exists (resume)
	finalPath := filepath.Join(m.staging.FinalDir(), task.Date, task.FileName())
	if _, err := os.Stat(finalPath); err == nil {
		m.logger.Debug("skipping existing recording", zap.String("task", task.String()))
		result.Skipped = true
		result.Success = true
		return result
	}

	m.logger.Info("capturing", zap.String("task", task.String()))

	w, err := m.staging.OpenSnapshotFile(task.Date, task.FileName())
	if err != nil {
		result.Error = err
		return result
	}
	defer w.Close()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		actions, err := m.client.FetchPlayByPlay(ctx, task.GameID)
		if err != nil {
			if errors.Is(err, upstream.ErrGameNotFound) {
				m.logger.Debug("not found", zap.String("task", task.String()))
				result.NotFound = true
				return result
			}
			result.Error = err
			return result
		}

		if err := w.Append(replay.PlaySnapshot{CapturedAt: time.Now().UTC(), Actions: actions}); err != nil {
			result.Error = err
			return result
		}
		result.Snapshots++

		if m.gameStatus(task.GameID) == upstream.StatusFinal {
			break
		}

		select {
		case <-ctx.Done():
			// Partial recordings still replay, keep what was captured.
			result.Success = true
			return result
		case <-ticker.C:
		}
	}

	result.Success = true
	m.logger.Info("captured",
		zap.String("task", task.String()),
		zap.Int("snapshots", result.Snapshots),
	)

	return result
}

// recordScoreboard polls the scoreboard, appends each snapshot, and publishes
// game statuses for the play-by-play workers.
func (m *Manager) recordScoreboard(ctx context.Context, date string) {
	w, err := m.staging.OpenSnapshotFile(date, replay.ScoreboardFile)
	if err != nil {
		m.logger.Warn("scoreboard recording unavailable", zap.Error(err))
		return
	}
	defer w.Close()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		games, err := m.client.FetchScoreboard(ctx)
		if err != nil {
			m.logger.Warn("scoreboard fetch failed", zap.Error(err))
		} else {
			if err := w.Append(replay.ScoreboardSnapshot{CapturedAt: time.Now().UTC(), Games: games}); err != nil {
				m.logger.Warn("scoreboard append failed", zap.Error(err))
			}
			m.mu.Lock()
			for _, g := range games {
				m.statuses[g.GameID] = g.GameStatus
			}
			m.mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Manager) gameStatus(gameID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[gameID]
}
