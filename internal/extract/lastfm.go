package extract

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// LastFmSource pulls listening history from the last.fm API for an explicit
// list of usernames. last.fm does not report play durations in its recent
// tracks feed, so events carry a zero duration and minute totals stay at
// zero for this source.
type LastFmSource struct {
	client  *lastfm.Api
	users   []string
	limiter *rate.Limiter
}

// NewLastFmSource creates a source with the given API credentials.
func NewLastFmSource(apiKey, secret string, users []string) *LastFmSource {
	client := lastfm.New(apiKey, secret)
	client.SetUserAgent("plex-wrapped/1.0")
	return &LastFmSource{
		client:  client,
		users:   users,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// ExtractAll fetches the year's scrobbles for each configured user.
func (l *LastFmSource) ExtractAll(ctx context.Context, year int) ([]model.ListeningHistory, error) {
	var histories []model.ListeningHistory
	for _, user := range l.users {
		history, err := l.extractUser(ctx, user, year)
		if err != nil {
			return nil, fmt.Errorf("extracting history for %q: %w", user, err)
		}
		if history.TotalEvents() > 0 {
			histories = append(histories, history)
		}
	}
	return histories, nil
}

func (l *LastFmSource) extractUser(ctx context.Context, user string, year int) (model.ListeningHistory, error) {
	history := model.ListeningHistory{User: user, Year: year}
	start, end := yearBounds(year)

	page := 1
	pages := 0
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return history, err
		}

		var recentTracks lastfm.UserGetRecentTracks
		err := retry.Do(
			func() error {
				var err error
				recentTracks, err = l.client.User.GetRecentTracks(lastfm.P{
					"limit": 200,
					"page":  page,
					"user":  user,
					"from":  start,
					"to":    end - 1,
				})
				return err
			},
			retry.RetryIf(func(err error) bool {
				if lerr, ok := err.(*lastfm.LastfmError); ok {
					return lerr.Code/100 == 5
				}
				return false
			}),
		)
		if err != nil {
			return history, fmt.Errorf("fetching recent tracks (page %d): %w", page, err)
		}

		if pages == 0 {
			pages = recentTracks.TotalPages
		}

		for _, t := range recentTracks.Tracks {
			uts, err := strconv.ParseInt(t.Date.Uts, 10, 64)
			if err != nil {
				// Now-playing entries have no date.
				continue
			}
			history.Events = append(history.Events, model.PlayEvent{
				Title:    t.Name,
				Artist:   t.Artist.Name,
				Album:    t.Album.Name,
				PlayedAt: time.Unix(uts, 0),
				User:     user,
			})
		}

		fmt.Printf("Downloaded page %v of %v for %q\n", page, pages, user)
		page += 1
		if page > pages {
			break
		}
	}

	return history, nil
}
