package games

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders an ISO-8601 period clock ("PT07M21.00S") as "7:21".
// Unparseable input is returned as-is rather than dropped.
func FormatClock(iso string) string {
	s, ok := strings.CutPrefix(iso, "PT")
	if !ok {
		return iso
	}
	minPart, rest, ok := strings.Cut(s, "M")
	if !ok {
		return iso
	}
	minutes, err := strconv.Atoi(minPart)
	if err != nil {
		return iso
	}
	seconds := strings.TrimSuffix(rest, "S")
	if dot := strings.Index(seconds, "."); dot >= 0 {
		seconds = seconds[:dot]
	}
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return fmt.Sprintf("%d:%s", minutes, seconds)
}

// RenderDigest renders today's slate as a plain-text digest, one section per
// bucket, in the order fans read a scoreboard: upcoming, ongoing, finished.
func RenderDigest(t *TodayGames) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Games on %s\n", formatDate(t.Date)))

	if len(t.Upcoming) == 0 && len(t.Ongoing) == 0 && len(t.Finished) == 0 {
		sb.WriteString("\nNo games today.\n")
		return sb.String()
	}

	if len(t.Upcoming) > 0 {
		sb.WriteString("\nUpcoming:\n")
		for _, g := range t.Upcoming {
			sb.WriteString(fmt.Sprintf("  %s starts at %s\n", g.Matchup, g.StartTime.Format("3:04 PM MST")))
		}
	}

	if len(t.Ongoing) > 0 {
		sb.WriteString("\nOngoing:\n")
		for _, g := range t.Ongoing {
			sb.WriteString(fmt.Sprintf("  %s  Q%d %s  %s %d - %d %s\n",
				g.Matchup, g.Period, g.Clock, g.AwayTeam, g.AwayScore, g.HomeScore, g.HomeTeam))
		}
	}

	if len(t.Finished) > 0 {
		sb.WriteString("\nFinished:\n")
		for _, g := range t.Finished {
			sb.WriteString(fmt.Sprintf("  %s  %d - %d, %s\n", g.Matchup, g.AwayScore, g.HomeScore, finishLine(g)))
		}
	}

	return sb.String()
}

func finishLine(g GameSummary) string {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeam + " win"
	case g.AwayScore > g.HomeScore:
		return g.AwayTeam + " win"
	}
	return "tie"
}

// formatDate renders "2026-01-15" as "January 15th (1/15)".
func formatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errM != nil || errD != nil || month < 1 || month > 12 {
		return date
	}
	return fmt.Sprintf("%s %s (%d/%d)", monthNames[month-1], ordinal(day), month, day)
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func ordinal(n int) string {
	if n%100 >= 10 && n%100 <= 20 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}
