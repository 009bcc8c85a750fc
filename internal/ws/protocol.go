package ws

import (
	"encoding/json"
	"fmt"

	"github.com/hoopfeed/courtside/internal/games"
	"github.com/hoopfeed/courtside/internal/live"
)

// Negotiable subprotocols. Both carry the same JSON messages; the zstd
// variant compresses each frame and uses binary websocket messages.
const (
	ProtocolJSON = "courtside.json.v1"
	ProtocolZstd = "courtside.zstd.v1"
)

// Command types accepted from clients.
const (
	CmdWatch      = "watch"
	CmdUnwatch    = "unwatch"
	CmdScoreboard = "scoreboard"
)

// Server message types.
const (
	MsgConnected    = "connected"
	MsgWatchStarted = "watch_started"
	MsgPlay         = "play"
	MsgNotice       = "notice"
	MsgScoreboard   = "scoreboard"
	MsgError        = "error"
)

// Command is one client request frame.
type Command struct {
	Type    string `json:"type"`
	GameID  string `json:"gameId,omitempty"`
	WatchID string `json:"watchId,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
}

func parseCommand(data []byte) (*Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal command: %w", err)
	}
	switch cmd.Type {
	case CmdWatch, CmdUnwatch, CmdScoreboard:
	default:
		return nil, fmt.Errorf("unknown command type: %q", cmd.Type)
	}
	return &cmd, nil
}

// ServerMessage is one server frame. Exactly one payload field is set,
// matching Type.
type ServerMessage struct {
	Type    string               `json:"type"`
	ConnID  string               `json:"connId,omitempty"`
	WatchID string               `json:"watchId,omitempty"`
	GameID  string               `json:"gameId,omitempty"`
	Event   *live.PlayEvent      `json:"event,omitempty"`
	Notice  *live.TerminalNotice `json:"notice,omitempty"`
	Today   *games.TodayGames    `json:"today,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func connectedMessage(connID string) *ServerMessage {
	return &ServerMessage{Type: MsgConnected, ConnID: connID}
}

func watchStartedMessage(watchID, gameID string) *ServerMessage {
	return &ServerMessage{Type: MsgWatchStarted, WatchID: watchID, GameID: gameID}
}

func playMessage(watchID, gameID string, ev *live.PlayEvent) *ServerMessage {
	return &ServerMessage{Type: MsgPlay, WatchID: watchID, GameID: gameID, Event: ev}
}

func noticeMessage(watchID, gameID string, n *live.TerminalNotice) *ServerMessage {
	return &ServerMessage{Type: MsgNotice, WatchID: watchID, GameID: gameID, Notice: n}
}

func scoreboardMessage(today *games.TodayGames) *ServerMessage {
	return &ServerMessage{Type: MsgScoreboard, Today: today}
}

func errorMessage(msg string) *ServerMessage {
	return &ServerMessage{Type: MsgError, Error: msg}
}
