// Package timeline characterizes when listening happens: distributions over
// hour, weekday, and month, peak detection, and day-streak computation.
package timeline

import (
	"sort"
	"time"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// PeakDayResult identifies the single calendar date with the most plays.
// Date is empty when the history has no events.
type PeakDayResult struct {
	Date    string  `json:"date"`
	Plays   int     `json:"plays"`
	Minutes float64 `json:"minutes"`
}

const dateFormat = "2006-01-02"

// Weekday converts a timestamp to the Monday=0 .. Sunday=6 convention.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// PlaysByHour counts plays per hour of day (0-23), using the hour as recorded
// on the event with no timezone conversion.
func PlaysByHour(history model.ListeningHistory) [24]int {
	var counts [24]int
	for _, e := range history.Events {
		counts[e.PlayedAt.Hour()]++
	}
	return counts
}

// PlaysByDayOfWeek counts plays per weekday, index 0 = Monday.
func PlaysByDayOfWeek(history model.ListeningHistory) [7]int {
	var counts [7]int
	for _, e := range history.Events {
		counts[Weekday(e.PlayedAt)]++
	}
	return counts
}

// PlaysByMonth counts plays per month, index 0 = January.
func PlaysByMonth(history model.ListeningHistory) [12]int {
	var counts [12]int
	for _, e := range history.Events {
		counts[int(e.PlayedAt.Month())-1]++
	}
	return counts
}

// PeakListeningHour returns the hour with the most plays. Ties resolve to the
// lowest hour.
func PeakListeningHour(history model.ListeningHistory) int {
	counts := PlaysByHour(history)
	return firstMax(counts[:])
}

// PeakListeningDay returns the weekday (Monday=0) with the most plays. Ties
// resolve to the lowest index.
func PeakListeningDay(history model.ListeningHistory) int {
	counts := PlaysByDayOfWeek(history)
	return firstMax(counts[:])
}

// PeakDay finds the exact calendar date with the highest play count, along
// with that date's play count and summed minutes. The first date encountered
// in input order wins a tie.
func PeakDay(history model.ListeningHistory) PeakDayResult {
	type dayStat struct {
		plays   int
		minutes float64
	}
	days := make(map[string]*dayStat)
	var order []string

	for _, e := range history.Events {
		date := e.PlayedAt.Format(dateFormat)
		stat, ok := days[date]
		if !ok {
			stat = &dayStat{}
			days[date] = stat
			order = append(order, date)
		}
		stat.plays++
		stat.minutes += e.DurationMinutes()
	}

	var peak PeakDayResult
	for _, date := range order {
		stat := days[date]
		if stat.plays > peak.Plays {
			peak = PeakDayResult{Date: date, Plays: stat.plays, Minutes: stat.minutes}
		}
	}
	return peak
}

// LongestStreak returns the length of the longest run of consecutive calendar
// dates that each contain at least one play. An empty history has streak 0;
// any play at all makes the streak at least 1.
func LongestStreak(history model.ListeningHistory) int {
	if len(history.Events) == 0 {
		return 0
	}

	seen := make(map[string]struct{})
	var dates []time.Time
	for _, e := range history.Events {
		date := e.PlayedAt.Format(dateFormat)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		day := time.Date(e.PlayedAt.Year(), e.PlayedAt.Month(), e.PlayedAt.Day(), 0, 0, 0, 0, time.UTC)
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest := 1
	current := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// firstMax returns the index of the first maximum value.
func firstMax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
