// Package extract fetches raw play history from a media source and turns it
// into per-user listening histories for one calendar year.
package extract

import (
	"context"
	"time"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// Source is a play-history backend. Implementations return one history per
// user with at least one play in the requested year.
type Source interface {
	ExtractAll(ctx context.Context, year int) ([]model.ListeningHistory, error)
}

// yearBounds returns the inclusive start and exclusive end of a year as unix
// timestamps in the local timezone, matching how timestamps are later
// bucketed.
func yearBounds(year int) (start, end int64) {
	s := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return s.Unix(), s.AddDate(1, 0, 0).Unix()
}
