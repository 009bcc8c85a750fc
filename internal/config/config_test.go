package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults to load, got error: %v", err)
	}

	if cfg.Upstream.BaseURL != "https://cdn.nba.com" {
		t.Errorf("expected default base URL, got '%s'", cfg.Upstream.BaseURL)
	}
	if cfg.Live.PollInterval() != 3*time.Second {
		t.Errorf("expected 3s poll interval, got %s", cfg.Live.PollInterval())
	}
	if cfg.Live.InactivityTimeout() != 25*time.Minute {
		t.Errorf("expected 25m inactivity timeout, got %s", cfg.Live.InactivityTimeout())
	}
	if cfg.Games.Timezone != "America/Los_Angeles" {
		t.Errorf("expected default timezone, got '%s'", cfg.Games.Timezone)
	}
	if cfg.Games.LiveWindow() != 3*time.Hour {
		t.Errorf("expected 3h live window, got %s", cfg.Games.LiveWindow())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	_ = os.Setenv("COURTSIDE_LIVE_POLL_INTERVAL_SEC", "10")
	defer func() { _ = os.Unsetenv("COURTSIDE_LIVE_POLL_INTERVAL_SEC") }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Live.PollIntervalSec != 10 {
		t.Errorf("expected env override 10, got %d", cfg.Live.PollIntervalSec)
	}
}
