package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ademuri/plex-wrapped/internal/model"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func testEvent(title, artist string, at time.Time) model.PlayEvent {
	return model.PlayEvent{
		Title:      title,
		Artist:     artist,
		Album:      "Album",
		DurationMS: 180000,
		PlayedAt:   at,
		User:       "testuser",
		ThumbURL:   "https://example.com/thumb.png",
	}
}

func TestCreateUser(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	err := s.CreateUser(user, "")
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}

	// Idempotency
	err = s.CreateUser(user, "")
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}

	// A later avatar update sticks.
	err = s.CreateUser(user, "https://example.com/avatar.png")
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}
	history, err := s.LoadHistory(user, 2024)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if history.AvatarURL != "https://example.com/avatar.png" {
		t.Errorf("expected avatar to be set, got %q", history.AvatarURL)
	}
}

func TestAddPlaysIsIdempotent(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user, ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	events := []model.PlayEvent{
		testEvent("Test Track", "Test Artist", time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)),
	}

	if err := s.AddPlays(user, events); err != nil {
		t.Fatalf("AddPlays failed: %v", err)
	}

	var count int
	row := s.db.QueryRow("SELECT COUNT(*) FROM Play WHERE user = ?", user)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 play, got %d", count)
	}

	// Re-inserting the same play is a no-op.
	if err := s.AddPlays(user, events); err != nil {
		t.Fatalf("AddPlays (repeat) failed: %v", err)
	}
	row = s.db.QueryRow("SELECT COUNT(*) FROM Play WHERE user = ?", user)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 play after repeat insert, got %d", count)
	}
}

func TestLoadHistoryFiltersYearAndOrders(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user, ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Inserted out of order, with one event outside the year.
	events := []model.PlayEvent{
		testEvent("Later", "A1", time.Date(2024, 8, 1, 12, 0, 0, 0, time.Local)),
		testEvent("Earlier", "A1", time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)),
		testEvent("Old", "A1", time.Date(2023, 12, 31, 23, 0, 0, 0, time.Local)),
	}
	if err := s.AddPlays(user, events); err != nil {
		t.Fatalf("AddPlays: %v", err)
	}

	history, err := s.LoadHistory(user, 2024)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history.Events) != 2 {
		t.Fatalf("expected 2 events in 2024, got %d", len(history.Events))
	}
	if history.Events[0].Title != "Earlier" || history.Events[1].Title != "Later" {
		t.Errorf("expected chronological order, got %q then %q",
			history.Events[0].Title, history.Events[1].Title)
	}
	if history.Events[0].DurationMS != 180000 {
		t.Errorf("expected duration to round-trip, got %d", history.Events[0].DurationMS)
	}
	if history.User != user || history.Year != 2024 {
		t.Errorf("unexpected history identity: %q %d", history.User, history.Year)
	}
}

func TestListUsers(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if err := s.CreateUser("quiet", ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser("busy", ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	events := []model.PlayEvent{
		testEvent("T1", "A1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)),
		testEvent("T2", "A1", time.Date(2024, 3, 2, 12, 0, 0, 0, time.Local)),
	}
	if err := s.AddPlays("busy", events); err != nil {
		t.Fatalf("AddPlays: %v", err)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Name != "busy" || users[0].Plays != 2 {
		t.Errorf("expected busy first with 2 plays, got %+v", users[0])
	}
	if users[1].Name != "quiet" || users[1].Plays != 0 {
		t.Errorf("expected quiet with 0 plays, got %+v", users[1])
	}
}

func TestGetLastUpdated(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user, ""); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero time before update, got %v", got)
	}

	now := time.Now()
	if err := s.SetLastUpdated(user, now); err != nil {
		t.Fatalf("SetLastUpdated: %v", err)
	}
	got, err = s.GetLastUpdated(user)
	if err != nil {
		t.Fatalf("GetLastUpdated: %v", err)
	}
	if got.IsZero() {
		t.Error("expected non-zero time after update")
	}
}
