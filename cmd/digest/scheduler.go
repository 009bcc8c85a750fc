package main

import (
	"fmt"
	"time"
)

// Scheduler handles time-based scheduling in the configured timezone.
// Unlike an exchange calendar there are no off days; NBA games can land on
// weekends and holidays alike, so every date is eligible.
type Scheduler struct {
	hour     int
	minute   int
	location *time.Location
}

// NewScheduler creates a new scheduler with the given schedule time and
// timezone. A timezone that does not resolve is a configuration error, not
// something to paper over with UTC, since it silently shifts the send time.
func NewScheduler(hour, minute int, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		hour:     hour,
		minute:   minute,
		location: loc,
	}, nil
}

// IsScheduledTime checks if current time matches the schedule (within the same minute)
func (s *Scheduler) IsScheduledTime() bool {
	now := time.Now().In(s.location)
	return now.Hour() == s.hour && now.Minute() == s.minute
}

// PastScheduledTime reports whether today's send window has already passed.
func (s *Scheduler) PastScheduledTime() bool {
	now := time.Now().In(s.location)
	return now.Hour() > s.hour || (now.Hour() == s.hour && now.Minute() >= s.minute)
}

// TodayDate returns today's date in YYYY-MM-DD format in the configured timezone
func (s *Scheduler) TodayDate() string {
	return time.Now().In(s.location).Format("2006-01-02")
}

// Location returns the scheduler's timezone location
func (s *Scheduler) Location() *time.Location {
	return s.location
}
