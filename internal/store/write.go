package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/plex-wrapped/internal/model"
)

// CreateUser ensures a user exists in the database, updating the avatar if a
// non-empty one is given.
func (s *Store) CreateUser(user, avatarURL string) error {
	row := s.db.QueryRow("SELECT name FROM User WHERE name = ?", user)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO User (name, avatar_url) VALUES (?, ?)", user, avatarURL)
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", user, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking user %q: %w", user, err)
	}

	if avatarURL != "" {
		if _, err := s.db.Exec("UPDATE User SET avatar_url = ? WHERE name = ?", avatarURL, user); err != nil {
			return fmt.Errorf("updating avatar for %q: %w", user, err)
		}
	}
	return nil
}

func (s *Store) SetLastUpdated(user string, updated time.Time) error {
	_, err := s.db.Exec("UPDATE User SET last_updated = ? WHERE name = ?", updated, user)
	if err != nil {
		return fmt.Errorf("updating last_updated for %q: %w", user, err)
	}
	return nil
}

// AddPlays inserts a batch of play events transactionally. Re-inserting the
// same (user, title, artist, played_at) event is a no-op, so repeated
// extraction runs are idempotent.
func (s *Store) AddPlays(user string, events []model.PlayEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const insert = `
	INSERT OR IGNORE INTO Play (user, title, artist, album, duration_ms, played_at, genre, thumb_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, e := range events {
		_, err := tx.Exec(insert,
			user, e.Title, e.Artist, e.Album, e.DurationMS, e.PlayedAt.Unix(), e.Genre, e.ThumbURL)
		if err != nil {
			return fmt.Errorf("inserting play %q - %q: %w", e.Artist, e.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plays: %w", err)
	}
	return nil
}
