// Package store persists extracted play events in a local SQLite database,
// bridging the extract and process steps.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const createSchema = `
CREATE TABLE IF NOT EXISTS User (
  name TEXT PRIMARY KEY,
  avatar_url TEXT NOT NULL DEFAULT '',
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS Play (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user TEXT NOT NULL,
  title TEXT NOT NULL,
  artist TEXT NOT NULL,
  album TEXT NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  played_at INTEGER NOT NULL,
  genre TEXT NOT NULL DEFAULT '',
  thumb_url TEXT NOT NULL DEFAULT '',
  FOREIGN KEY (user) REFERENCES User(name),
  UNIQUE (user, title, artist, played_at)
);

CREATE INDEX IF NOT EXISTS PlayUserDate ON Play(user, played_at);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
