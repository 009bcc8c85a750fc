package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationErrors collects all validation problems so a bad config reports
// everything wrong at once.
type ValidationErrors struct {
	InvalidTimezone   string
	NonPositiveFields []string
	MissingFields     []string
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return e.InvalidTimezone != "" || len(e.NonPositiveFields) > 0 || len(e.MissingFields) > 0
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")

	if e.InvalidTimezone != "" {
		sb.WriteString(fmt.Sprintf("\nUnknown timezone: %s (use an IANA name like America/Los_Angeles)\n", e.InvalidTimezone))
	}

	if len(e.NonPositiveFields) > 0 {
		sb.WriteString("\nFields that must be positive:\n")
		for _, f := range e.NonPositiveFields {
			sb.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}

	if len(e.MissingFields) > 0 {
		sb.WriteString("\nMissing required fields:\n")
		for _, f := range e.MissingFields {
			sb.WriteString(fmt.Sprintf("  - %s\n", f))
		}
	}

	return sb.String()
}

// Validate checks the whole config and returns an aggregated error.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Upstream.BaseURL == "" {
		errs.MissingFields = append(errs.MissingFields, "upstream.base_url")
	}
	if c.Server.Port == "" {
		errs.MissingFields = append(errs.MissingFields, "server.port")
	}

	positive := []struct {
		name  string
		value int
	}{
		{"upstream.timeout_sec", c.Upstream.TimeoutSec},
		{"upstream.rate_per_second", c.Upstream.RatePerSecond},
		{"live.poll_interval_sec", c.Live.PollIntervalSec},
		{"live.inactivity_timeout_sec", c.Live.InactivityTimeoutSec},
		{"games.live_window_hours", c.Games.LiveWindowHours},
		{"server.scoreboard_interval_sec", c.Server.ScoreboardIntervalSec},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs.NonPositiveFields = append(errs.NonPositiveFields, p.name)
		}
	}

	if c.Games.Timezone == "" {
		errs.MissingFields = append(errs.MissingFields, "games.timezone")
	} else if _, err := time.LoadLocation(c.Games.Timezone); err != nil {
		errs.InvalidTimezone = c.Games.Timezone
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
