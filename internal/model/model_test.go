package model

import (
	"testing"
	"time"
)

func TestDurationMinutes(t *testing.T) {
	e := PlayEvent{DurationMS: 180000}
	if got := e.DurationMinutes(); got != 3.0 {
		t.Errorf("DurationMinutes() = %v, want 3.0", got)
	}

	e = PlayEvent{DurationMS: 90000}
	if got := e.DurationMinutes(); got != 1.5 {
		t.Errorf("DurationMinutes() = %v, want 1.5", got)
	}

	e = PlayEvent{}
	if got := e.DurationMinutes(); got != 0 {
		t.Errorf("DurationMinutes() = %v, want 0", got)
	}
}

func TestHistoryTotals(t *testing.T) {
	history := ListeningHistory{
		User: "alice",
		Year: 2024,
		Events: []PlayEvent{
			{Title: "A", DurationMS: 180000, PlayedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
			{Title: "B", DurationMS: 240000, PlayedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		},
	}

	if got := history.TotalEvents(); got != 2 {
		t.Errorf("TotalEvents() = %d, want 2", got)
	}
	if got := history.TotalMinutes(); got != 7.0 {
		t.Errorf("TotalMinutes() = %v, want 7.0", got)
	}

	empty := ListeningHistory{}
	if empty.TotalEvents() != 0 || empty.TotalMinutes() != 0 {
		t.Error("expected zero totals for empty history")
	}
}
