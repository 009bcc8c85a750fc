// Package games provides game discovery over the daily scoreboard feed:
// live-game listings bounded to a plausible window, and today's slate
// bucketed by the viewer's reference timezone.
package games

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hoopfeed/courtside/internal/upstream"
)

// Status buckets a game by where it sits in its lifecycle today.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

// GameSummary is a read-only snapshot of one scoreboard entry. It is built
// fresh from each poll and never cached.
type GameSummary struct {
	GameID    string    `json:"gameId"`
	Matchup   string    `json:"matchup"`
	Status    Status    `json:"status"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Period    int       `json:"period,omitempty"`
	Clock     string    `json:"clock,omitempty"`
	StartTime time.Time `json:"startTime"`
}

// TodayGames groups today's slate by lifecycle bucket.
type TodayGames struct {
	Date     string        `json:"date"`
	Upcoming []GameSummary `json:"upcoming"`
	Ongoing  []GameSummary `json:"ongoing"`
	Finished []GameSummary `json:"finished"`
}

// Upstream is the slice of the feed client discovery needs.
type Upstream interface {
	FetchScoreboard(ctx context.Context) ([]upstream.RawGame, error)
}

// Service answers discovery queries against the scoreboard feed.
type Service struct {
	upstream Upstream
	loc      *time.Location
	window   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// DefaultLiveWindow bounds how long after tip-off a "live" flag from the feed
// is still believed. Stale live flags past this window are excluded.
const DefaultLiveWindow = 3 * time.Hour

func NewService(up Upstream, timezone string, window time.Duration, logger *zap.Logger) (*Service, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if window <= 0 {
		window = DefaultLiveWindow
	}
	return &Service{
		upstream: up,
		loc:      loc,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Ongoing lists games the feed flags live and whose tip-off falls inside the
// live window around now.
func (s *Service) Ongoing(ctx context.Context) ([]GameSummary, error) {
	raw, err := s.upstream.FetchScoreboard(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var ongoing []GameSummary
	for _, g := range raw {
		if g.GameStatus != upstream.StatusLive {
			continue
		}
		start, err := time.Parse(time.RFC3339, g.GameTimeUTC)
		if err != nil {
			s.logger.Warn("skipping game with unparseable start time",
				zap.String("gameID", g.GameID),
				zap.String("gameTimeUTC", g.GameTimeUTC),
			)
			continue
		}
		if now.Before(start) || now.After(start.Add(s.window)) {
			continue
		}
		ongoing = append(ongoing, s.summarize(g, start))
	}
	return ongoing, nil
}

// Today buckets the slate for the current calendar date in the reference
// timezone. Games from other dates are dropped.
func (s *Service) Today(ctx context.Context) (*TodayGames, error) {
	raw, err := s.upstream.FetchScoreboard(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.loc)
	result := &TodayGames{Date: today.Format("2006-01-02")}

	for _, g := range raw {
		start, err := time.Parse(time.RFC3339, g.GameTimeUTC)
		if err != nil {
			s.logger.Warn("skipping game with unparseable start time",
				zap.String("gameID", g.GameID),
				zap.String("gameTimeUTC", g.GameTimeUTC),
			)
			continue
		}
		local := start.In(s.loc)
		if local.Year() != today.Year() || local.YearDay() != today.YearDay() {
			continue
		}

		summary := s.summarize(g, start)
		switch summary.Status {
		case StatusUpcoming:
			result.Upcoming = append(result.Upcoming, summary)
		case StatusOngoing:
			result.Ongoing = append(result.Ongoing, summary)
		case StatusFinished:
			result.Finished = append(result.Finished, summary)
		}
	}
	return result, nil
}

func (s *Service) summarize(g upstream.RawGame, start time.Time) GameSummary {
	summary := GameSummary{
		GameID:    g.GameID,
		Matchup:   fmt.Sprintf("%s vs. %s", g.AwayTeam.TeamName, g.HomeTeam.TeamName),
		HomeTeam:  g.HomeTeam.TeamName,
		AwayTeam:  g.AwayTeam.TeamName,
		HomeScore: g.HomeTeam.Score,
		AwayScore: g.AwayTeam.Score,
		StartTime: start.In(s.loc),
	}

	switch g.GameStatus {
	case upstream.StatusLive:
		summary.Status = StatusOngoing
		summary.Period = g.Period
		summary.Clock = FormatClock(g.GameClock)
	case upstream.StatusFinal:
		summary.Status = StatusFinished
	default:
		summary.Status = StatusUpcoming
	}
	return summary
}
