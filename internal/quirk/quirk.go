// Package quirk extracts narrow "fun fact" superlatives from a listening
// history: the late-night anthem, the anthem for a given weekday, and the
// most-repeated track within a single day. Every fact is optional; the
// boolean return distinguishes "no qualifying events" from a real result.
package quirk

import (
	"github.com/ademuri/plex-wrapped/internal/model"
	"github.com/ademuri/plex-wrapped/internal/timeline"
)

// Fact identifies one track plus the count that earned it the superlative.
// Day and Date are filled only by the facts they apply to.
type Fact struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
	Plays  int    `json:"plays"`
	Day    string `json:"day,omitempty"`
	Date   string `json:"date,omitempty"`
}

var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// LateNightAnthem finds the most-played track between midnight and 3:59.
func LateNightAnthem(history model.ListeningHistory) (Fact, bool) {
	return topTrack(history, func(e model.PlayEvent) bool {
		return e.PlayedAt.Hour() < 4
	})
}

// DayAnthem finds the most-played track on the given weekday (Monday=0).
func DayAnthem(history model.ListeningHistory, weekday int) (Fact, bool) {
	if weekday < 0 || weekday > 6 {
		return Fact{}, false
	}
	fact, ok := topTrack(history, func(e model.PlayEvent) bool {
		return timeline.Weekday(e.PlayedAt) == weekday
	})
	if !ok {
		return Fact{}, false
	}
	fact.Day = dayNames[weekday]
	return fact, true
}

// MostRepeatedSingleDay finds the track replayed the most times within one
// specific calendar date.
func MostRepeatedSingleDay(history model.ListeningHistory) (Fact, bool) {
	type key struct {
		date   string
		title  string
		artist string
	}
	counts := make(map[key]int)
	var order []key

	for _, e := range history.Events {
		k := key{date: e.PlayedAt.Format("2006-01-02"), title: e.Title, artist: e.Artist}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return Fact{}, false
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return Fact{Track: best.title, Artist: best.artist, Date: best.date, Plays: counts[best]}, true
}

// topTrack is the shared filter-then-rank-by-count step. Ties go to the
// (title, artist) pair seen first in input order.
func topTrack(history model.ListeningHistory, keep func(model.PlayEvent) bool) (Fact, bool) {
	type key struct {
		title  string
		artist string
	}
	counts := make(map[key]int)
	var order []key

	for _, e := range history.Events {
		if !keep(e) {
			continue
		}
		k := key{title: e.Title, artist: e.Artist}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return Fact{}, false
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return Fact{Track: best.title, Artist: best.artist, Plays: counts[best]}, true
}
