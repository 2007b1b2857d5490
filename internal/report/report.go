// Package report assembles the per-user wrapped report from the analysis
// engines and serializes it for downstream consumers.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ademuri/plex-wrapped/internal/model"
	"github.com/ademuri/plex-wrapped/internal/quirk"
	"github.com/ademuri/plex-wrapped/internal/stats"
	"github.com/ademuri/plex-wrapped/internal/timeline"
)

// Report is the canonical per-user record consumed by the AI generators and
// the frontend. Field names form the external JSON contract.
type Report struct {
	User         string         `json:"user"`
	Year         int            `json:"year"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	Total        stats.Totals   `json:"total"`
	Top          TopLists       `json:"top"`
	TimePatterns TimePatterns   `json:"time_patterns"`
	AIContent    map[string]any `json:"ai_content,omitempty"`
}

// TopLists holds the ranked aggregates.
type TopLists struct {
	Artists []stats.RankedItem `json:"artists"`
	Albums  []stats.RankedItem `json:"albums"`
	Tracks  []stats.RankedItem `json:"tracks"`
}

// TimePatterns holds the temporal distributions, peaks, and quirky facts.
type TimePatterns struct {
	PlaysByHour      [24]int                `json:"plays_by_hour"`
	PlaysByDayOfWeek [7]int                 `json:"plays_by_day_of_week"`
	PlaysByMonth     [12]int                `json:"plays_by_month"`
	PeakHour         int                    `json:"peak_listening_hour"`
	PeakDayOfWeek    int                    `json:"peak_listening_day"`
	PeakDay          timeline.PeakDayResult `json:"peak_day_overall"`
	LongestStreak    int                    `json:"longest_streak"`
	Quirky           QuirkyFacts            `json:"quirky"`
}

// QuirkyFacts carries the optional superlatives. A nil entry means no
// qualifying events existed.
type QuirkyFacts struct {
	LateNightAnthem       *quirk.Fact `json:"late_night_anthem"`
	WeekendAnthem         *quirk.Fact `json:"weekend_anthem"`
	MostRepeatedSingleDay *quirk.Fact `json:"most_repeated_single_day"`
}

// weekendAnthemDay is the weekday the weekend anthem is computed for.
const weekendAnthemDay = 5 // Saturday

// Assemble runs the ranking, temporal, and quirky-fact engines over one
// user's history and merges their outputs. topN caps each ranked list.
func Assemble(history model.ListeningHistory, topN int) Report {
	r := Report{
		User:      history.User,
		Year:      history.Year,
		AvatarURL: history.AvatarURL,
		Total:     stats.TotalStats(history),
		Top: TopLists{
			Artists: stats.TopArtists(history, topN),
			Albums:  stats.TopAlbums(history, topN),
			Tracks:  stats.TopTracks(history, topN),
		},
		TimePatterns: TimePatterns{
			PlaysByHour:      timeline.PlaysByHour(history),
			PlaysByDayOfWeek: timeline.PlaysByDayOfWeek(history),
			PlaysByMonth:     timeline.PlaysByMonth(history),
			PeakHour:         timeline.PeakListeningHour(history),
			PeakDayOfWeek:    timeline.PeakListeningDay(history),
			PeakDay:          timeline.PeakDay(history),
			LongestStreak:    timeline.LongestStreak(history),
		},
	}

	if fact, ok := quirk.LateNightAnthem(history); ok {
		r.TimePatterns.Quirky.LateNightAnthem = &fact
	}
	if fact, ok := quirk.DayAnthem(history, weekendAnthemDay); ok {
		r.TimePatterns.Quirky.WeekendAnthem = &fact
	}
	if fact, ok := quirk.MostRepeatedSingleDay(history); ok {
		r.TimePatterns.Quirky.MostRepeatedSingleDay = &fact
	}

	return r
}

// Write serializes the report as indented JSON to <dir>/<user>.json.
func Write(r Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	encoded, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report for %q: %w", r.User, err)
	}

	path := filepath.Join(dir, r.User+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing report for %q: %w", r.User, err)
	}
	return path, nil
}
