// Package stats ranks artists, albums, and tracks by play count.
package stats

import (
	"sort"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// RankedItem is one entry in a top-N list.
type RankedItem struct {
	Name     string  `json:"name"`
	Plays    int     `json:"plays"`
	Minutes  float64 `json:"minutes"`
	Artist   string  `json:"artist,omitempty"`
	Album    string  `json:"album,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Totals are the scalar aggregates over a full history.
type Totals struct {
	TotalPlays    int     `json:"total_tracks"`
	TotalMinutes  float64 `json:"total_minutes"`
	UniqueArtists int     `json:"unique_artists"`
	UniqueAlbums  int     `json:"unique_albums"`
	UniqueTracks  int     `json:"unique_tracks"`
}

// accumulator collects per-group state in input order. Keys are remembered in
// first-seen order so that equal play counts rank deterministically.
type accumulator struct {
	item *RankedItem
}

type groupKey struct {
	name   string
	artist string
}

// TopArtists returns up to limit artists ordered by descending play count.
// Minutes are the true sum of event durations; the image is the first
// non-empty thumb seen for the artist in input order.
func TopArtists(history model.ListeningHistory, limit int) []RankedItem {
	groups := make(map[groupKey]*accumulator)
	var order []groupKey

	for _, e := range history.Events {
		key := groupKey{name: e.Artist}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{item: &RankedItem{Name: e.Artist}}
			groups[key] = acc
			order = append(order, key)
		}
		acc.item.Plays++
		acc.item.Minutes += e.DurationMinutes()
		if acc.item.ImageURL == "" {
			acc.item.ImageURL = e.ThumbURL
		}
	}

	return rank(groups, order, limit)
}

// TopAlbums returns up to limit albums ordered by descending play count.
// Albums are keyed by (album, artist) since album titles are not unique.
func TopAlbums(history model.ListeningHistory, limit int) []RankedItem {
	groups := make(map[groupKey]*accumulator)
	var order []groupKey

	for _, e := range history.Events {
		key := groupKey{name: e.Album, artist: e.Artist}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{item: &RankedItem{Name: e.Album, Artist: e.Artist}}
			groups[key] = acc
			order = append(order, key)
		}
		acc.item.Plays++
		acc.item.Minutes += e.DurationMinutes()
		if acc.item.ImageURL == "" {
			acc.item.ImageURL = e.ThumbURL
		}
	}

	return rank(groups, order, limit)
}

// TopTracks returns up to limit tracks, keyed by (title, artist). Track
// minutes are the first-seen event duration multiplied by the play count:
// repeat plays are assumed to be the same length as the canonical file. This
// intentionally differs from the true per-event sum used everywhere else.
func TopTracks(history model.ListeningHistory, limit int) []RankedItem {
	type trackInfo struct {
		firstMinutes float64
	}
	groups := make(map[groupKey]*accumulator)
	info := make(map[groupKey]trackInfo)
	var order []groupKey

	for _, e := range history.Events {
		key := groupKey{name: e.Title, artist: e.Artist}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{item: &RankedItem{
				Name:     e.Title,
				Artist:   e.Artist,
				Album:    e.Album,
				ImageURL: e.ThumbURL,
			}}
			groups[key] = acc
			info[key] = trackInfo{firstMinutes: e.DurationMinutes()}
			order = append(order, key)
		}
		acc.item.Plays++
	}

	for key, acc := range groups {
		acc.item.Minutes = info[key].firstMinutes * float64(acc.item.Plays)
	}

	return rank(groups, order, limit)
}

// TotalStats computes the scalar aggregates for the history. Minutes here are
// the true per-event sum, unlike the TopTracks approximation.
func TotalStats(history model.ListeningHistory) Totals {
	artists := make(map[string]struct{})
	albums := make(map[groupKey]struct{})
	tracks := make(map[groupKey]struct{})

	totals := Totals{TotalPlays: len(history.Events)}
	for _, e := range history.Events {
		totals.TotalMinutes += e.DurationMinutes()
		artists[e.Artist] = struct{}{}
		albums[groupKey{name: e.Album, artist: e.Artist}] = struct{}{}
		tracks[groupKey{name: e.Title, artist: e.Artist}] = struct{}{}
	}
	totals.UniqueArtists = len(artists)
	totals.UniqueAlbums = len(albums)
	totals.UniqueTracks = len(tracks)
	return totals
}

// rank orders groups by descending play count and caps the result at limit.
// The stable sort over first-seen key order gives ties a reproducible order.
func rank(groups map[groupKey]*accumulator, order []groupKey, limit int) []RankedItem {
	if limit <= 0 {
		return nil
	}

	items := make([]RankedItem, 0, len(order))
	for _, key := range order {
		items = append(items, *groups[key].item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Plays > items[j].Plays
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
