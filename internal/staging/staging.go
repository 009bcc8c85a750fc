package staging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manager stages recording files under a hidden directory and moves them into
// the final layout in one pass, so half-captured games never show up next to
// committed ones.
type Manager struct {
	baseDir     string
	stagingRoot string
}

func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir:     baseDir,
		stagingRoot: filepath.Join(baseDir, ".staging"),
	}
}

func (m *Manager) FinalDir() string {
	return m.baseDir
}

func (m *Manager) StagingRoot() string {
	return m.stagingRoot
}

func (m *Manager) StagingDir(date string) string {
	return filepath.Join(m.stagingRoot, date)
}

func (m *Manager) PrepareStaging(date string) error {
	dir := m.StagingDir(date)
	return os.MkdirAll(dir, 0750)
}

// SnapshotWriter appends JSON lines to one staged recording file.
type SnapshotWriter struct {
	file *os.File
	enc  *json.Encoder
}

// OpenSnapshotFile creates a staged recording file for appending.
// name is relative to the date's staging directory, e.g. "0022500123.jsonl".
func (m *Manager) OpenSnapshotFile(date, name string) (*SnapshotWriter, error) {
	path := filepath.Join(m.StagingDir(date), name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating directories: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}

	return &SnapshotWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one snapshot as a JSON line.
func (w *SnapshotWriter) Append(snapshot any) error {
	return w.enc.Encode(snapshot)
}

func (w *SnapshotWriter) Close() error {
	return w.file.Close()
}

func (m *Manager) CommitStaging(date string) error {
	stagingDir := m.StagingDir(date)
	finalDir := filepath.Join(m.baseDir, date)

	// Walk staging and move files
	return filepath.Walk(stagingDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(finalDir, relPath)
		if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
			return err
		}

		return os.Rename(path, destPath)
	})
}

func (m *Manager) CleanupStaging(date string) error {
	return os.RemoveAll(m.StagingDir(date))
}
