// Package live implements the play-by-play session core: per-session
// watermarks, normalization of raw feed actions into ordered play events, the
// polling state machine that drives one game's live feed, and the registry
// that keeps concurrently open sessions independent.
package live

import "fmt"

// NoActions is the watermark sentinel meaning nothing has been delivered yet.
// Valid action numbers start at 1.
const NoActions = -1

// PlayEvent is one canonical play, immutable once constructed.
type PlayEvent struct {
	ActionNumber int    `json:"actionNumber"`
	Period       int    `json:"period"`
	Clock        string `json:"clock"`
	ActionType   string `json:"actionType"`
	Description  string `json:"description"`
	Player       string `json:"player,omitempty"`
}

// NoticeReason identifies why a session reached a terminal state.
type NoticeReason string

const (
	NoticeGameOver   NoticeReason = "game_over"
	NoticeNoActivity NoticeReason = "no_activity"
	NoticeError      NoticeReason = "upstream_error"
)

// TerminalNotice is the single final item a session emits before its update
// channel closes. For game_over notices the score fields are populated;
// Winner is empty on a tie.
type TerminalNotice struct {
	Reason    NoticeReason `json:"reason"`
	Message   string       `json:"message"`
	HomeTeam  string       `json:"homeTeam,omitempty"`
	AwayTeam  string       `json:"awayTeam,omitempty"`
	HomeScore int          `json:"homeScore,omitempty"`
	AwayScore int          `json:"awayScore,omitempty"`
	Score     string       `json:"score,omitempty"` // "away - home", matching broadcast convention
	Winner    string       `json:"winner,omitempty"`
}

// UpdateKind discriminates items on a session's update stream.
type UpdateKind string

const (
	UpdatePlay   UpdateKind = "play"
	UpdateNotice UpdateKind = "notice"
)

// Update is one item on a session's update stream: either a play event or the
// terminal notice, never both.
type Update struct {
	Kind   UpdateKind      `json:"kind"`
	Event  *PlayEvent      `json:"event,omitempty"`
	Notice *TerminalNotice `json:"notice,omitempty"`
}

// finalNotice builds the game-over notice from a final scoreboard entry.
func finalNotice(home, away string, homeScore, awayScore int) TerminalNotice {
	score := fmt.Sprintf("%d - %d", awayScore, homeScore)

	var winner string
	switch {
	case homeScore > awayScore:
		winner = home
	case awayScore > homeScore:
		winner = away
	}

	var msg string
	if winner != "" {
		msg = fmt.Sprintf("%s vs. %s final: %s, %s win", away, home, score, winner)
	} else {
		msg = fmt.Sprintf("%s vs. %s final: %s, tie game", away, home, score)
	}

	return TerminalNotice{
		Reason:    NoticeGameOver,
		Message:   msg,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Score:     score,
		Winner:    winner,
	}
}
