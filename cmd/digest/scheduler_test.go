package main

import (
	"strings"
	"testing"
)

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(9, 30, "America/Los_Angeles")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if s.Location() == nil || s.Location().String() != "America/Los_Angeles" {
		t.Errorf("location = %v, want America/Los_Angeles", s.Location())
	}
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	s, err := NewScheduler(9, 30, "America/Nowhere")
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if s != nil {
		t.Errorf("scheduler = %v, want nil on error", s)
	}
	if !strings.Contains(err.Error(), "America/Nowhere") {
		t.Errorf("error %q does not name the timezone", err)
	}
}
