package upstream

// Game status codes used by the live data feed.
const (
	StatusScheduled = 1
	StatusLive      = 2
	StatusFinal     = 3
)

// RawAction is a single play action as returned by the play-by-play feed.
// ActionNumber is a monotonically increasing per-game sequence id.
type RawAction struct {
	ActionNumber int    `json:"actionNumber"`
	Period       int    `json:"period"`
	Clock        string `json:"clock"` // ISO-8601 duration, e.g. "PT07M21.00S"
	ActionType   string `json:"actionType"`
	Description  string `json:"description"`
	PersonID     int    `json:"personId"`
	TeamTricode  string `json:"teamTricode"`
	ScoreHome    string `json:"scoreHome"`
	ScoreAway    string `json:"scoreAway"`
}

// RawTeam is one side of a scoreboard game entry.
type RawTeam struct {
	TeamID      int    `json:"teamId"`
	TeamName    string `json:"teamName"`
	TeamCity    string `json:"teamCity"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

// RawGame is one game as returned by the daily scoreboard feed.
type RawGame struct {
	GameID         string  `json:"gameId"`
	GameStatus     int     `json:"gameStatus"`
	GameStatusText string  `json:"gameStatusText"`
	Period         int     `json:"period"`
	GameClock      string  `json:"gameClock"`
	GameTimeUTC    string  `json:"gameTimeUTC"` // RFC3339
	HomeTeam       RawTeam `json:"homeTeam"`
	AwayTeam       RawTeam `json:"awayTeam"`
}

type playByPlayResponse struct {
	Game struct {
		GameID  string      `json:"gameId"`
		Actions []RawAction `json:"actions"`
	} `json:"game"`
}

type scoreboardResponse struct {
	Scoreboard struct {
		GameDate string    `json:"gameDate"`
		Games    []RawGame `json:"games"`
	} `json:"scoreboard"`
}
