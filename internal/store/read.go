package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// UserSummary is one row of the user listing.
type UserSummary struct {
	Name  string
	Plays int64
}

func (s *Store) GetLastUpdated(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated: %w", err)
	}
	return t.Time, nil
}

// ListUsers returns every user in the database with their total play count,
// most plays first.
func (s *Store) ListUsers() ([]UserSummary, error) {
	query := `
	SELECT User.name, COUNT(Play.id)
	FROM User
	LEFT JOIN Play ON Play.user = User.name
	GROUP BY User.name
	ORDER BY COUNT(Play.id) DESC, User.name
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []UserSummary
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.Name, &u.Plays); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// LoadHistory materializes one user's play events for a year, ordered by
// play time. The ascending order makes downstream tie-breaking reproducible
// across runs.
func (s *Store) LoadHistory(user string, year int) (model.ListeningHistory, error) {
	history := model.ListeningHistory{User: user, Year: year}

	row := s.db.QueryRow("SELECT avatar_url FROM User WHERE name = ?", user)
	if err := row.Scan(&history.AvatarURL); err != nil && err != sql.ErrNoRows {
		return history, fmt.Errorf("reading user %q: %w", user, err)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	query := `
	SELECT title, artist, album, duration_ms, played_at, genre, thumb_url
	FROM Play
	WHERE user = ? AND played_at >= ? AND played_at < ?
	ORDER BY played_at, id
	`
	rows, err := s.db.Query(query, user, start.Unix(), end.Unix())
	if err != nil {
		return history, fmt.Errorf("querying plays for %q: %w", user, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.PlayEvent
		var playedAt int64
		if err := rows.Scan(&e.Title, &e.Artist, &e.Album, &e.DurationMS, &playedAt, &e.Genre, &e.ThumbURL); err != nil {
			return history, fmt.Errorf("scanning play: %w", err)
		}
		e.PlayedAt = time.Unix(playedAt, 0)
		e.User = user
		history.Events = append(history.Events, e)
	}
	return history, rows.Err()
}
