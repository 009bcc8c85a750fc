package replay

import (
	"errors"
	"time"

	"github.com/hoopfeed/courtside/internal/upstream"
)

var (
	ErrNoRecordings = errors.New("no recordings found")
)

// PlaySnapshot is one recorded play-by-play poll for a game.
type PlaySnapshot struct {
	CapturedAt time.Time            `json:"capturedAt"`
	Actions    []upstream.RawAction `json:"actions"`
}

// ScoreboardSnapshot is one recorded scoreboard poll.
type ScoreboardSnapshot struct {
	CapturedAt time.Time          `json:"capturedAt"`
	Games      []upstream.RawGame `json:"games"`
}

// ScoreboardFile is the file name recorded scoreboard snapshots are kept in,
// alongside per-game {gameID}.jsonl files in the same date directory.
const ScoreboardFile = "scoreboard.jsonl"
