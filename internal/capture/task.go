package capture

import (
	"fmt"
)

type Task struct {
	GameID string
	Date   string
}

func (t Task) FileName() string {
	return t.GameID + ".jsonl"
}

func (t Task) String() string {
	return fmt.Sprintf("%s/%s", t.Date, t.GameID)
}

type TaskResult struct {
	Task      Task
	Success   bool
	Skipped   bool
	NotFound  bool
	Snapshots int
	Error     error
}
