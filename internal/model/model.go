// Package model holds the shared data contract for play history processing:
// one play event, and the per-user, per-year collection of events that every
// analysis engine consumes read-only.
package model

import "time"

// PlayEvent is a single occurrence of a track being played. Events are
// constructed once by an extractor and never mutated afterwards.
type PlayEvent struct {
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album"`
	DurationMS int64     `json:"duration_ms"`
	PlayedAt   time.Time `json:"played_at"`
	User       string    `json:"user"`
	Genre      string    `json:"genre,omitempty"`
	ThumbURL   string    `json:"thumb_url,omitempty"`
}

// DurationMinutes converts the event duration from milliseconds to minutes.
func (e PlayEvent) DurationMinutes() float64 {
	return float64(e.DurationMS) / 60000.0
}

// ListeningHistory is the complete play history for one user in one year.
// Event order is whatever the extractor produced; the engines rely on that
// order only for deterministic tie-breaking.
type ListeningHistory struct {
	User      string      `json:"user"`
	Year      int         `json:"year"`
	Events    []PlayEvent `json:"events"`
	AvatarURL string      `json:"avatar_url,omitempty"`
}

// TotalEvents returns the number of plays in the history.
func (h ListeningHistory) TotalEvents() int {
	return len(h.Events)
}

// TotalMinutes returns the true summed listening time across all events.
func (h ListeningHistory) TotalMinutes() float64 {
	var total float64
	for _, e := range h.Events {
		total += e.DurationMinutes()
	}
	return total
}
