package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func plexTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	start := time.Date(2024, 3, 10, 2, 0, 0, 0, time.Local).Unix()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Plex-Token") != "test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/accounts":
			json.NewEncoder(w).Encode(map[string]any{
				"MediaContainer": map[string]any{
					"size": 1,
					"Account": []map[string]any{
						{"id": 1, "name": "alice", "thumb": "https://example.com/alice.png"},
					},
				},
			})

		case "/status/sessions/history/all":
			if r.URL.Query().Get("accountID") != "1" {
				t.Errorf("unexpected accountID %q", r.URL.Query().Get("accountID"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"MediaContainer": map[string]any{
					"size": 3,
					"Metadata": []map[string]any{
						{
							"type":             "track",
							"title":            "Night Drive",
							"grandparentTitle": "Neon Trio",
							"parentTitle":      "City Lights",
							"duration":         180000,
							"viewedAt":         start,
							"thumb":            "/thumb/1",
							"accountID":        1,
						},
						{
							"type":      "movie",
							"title":     "Some Film",
							"viewedAt":  start,
							"accountID": 1,
						},
						{
							"type":      "track",
							"title":     "Orphan",
							"duration":  120000,
							"viewedAt":  start + 3600,
							"accountID": 1,
						},
					},
				},
			})

		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestPlexExtractAll(t *testing.T) {
	server := plexTestServer(t)
	defer server.Close()

	source := NewPlexSource(server.URL, "test-token")
	histories, err := source.ExtractAll(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if len(histories) != 1 {
		t.Fatalf("expected 1 history, got %d", len(histories))
	}
	history := histories[0]
	if history.User != "alice" || history.Year != 2024 {
		t.Errorf("unexpected identity: %q %d", history.User, history.Year)
	}
	if history.AvatarURL != "https://example.com/alice.png" {
		t.Errorf("unexpected avatar %q", history.AvatarURL)
	}

	// The movie entry is filtered out.
	if len(history.Events) != 2 {
		t.Fatalf("expected 2 track events, got %d", len(history.Events))
	}

	first := history.Events[0]
	if first.Title != "Night Drive" || first.Artist != "Neon Trio" || first.Album != "City Lights" {
		t.Errorf("unexpected event: %+v", first)
	}
	if first.DurationMS != 180000 {
		t.Errorf("expected 180000ms duration, got %d", first.DurationMS)
	}
	if first.PlayedAt.Hour() != 2 {
		t.Errorf("expected hour 2, got %d", first.PlayedAt.Hour())
	}

	// Missing artist and album fall back to placeholders.
	second := history.Events[1]
	if second.Artist != "Unknown Artist" || second.Album != "Unknown Album" {
		t.Errorf("expected placeholders, got %+v", second)
	}
}

func TestPlexExtractAllBadToken(t *testing.T) {
	server := plexTestServer(t)
	defer server.Close()

	source := NewPlexSource(server.URL, "wrong-token")
	_, err := source.ExtractAll(context.Background(), 2024)
	if err == nil {
		t.Fatal("expected error with bad token")
	}
}

func TestYearBounds(t *testing.T) {
	start, end := yearBounds(2024)
	startTime := time.Unix(start, 0)
	endTime := time.Unix(end, 0)

	if startTime.Year() != 2024 || startTime.Month() != time.January || startTime.Day() != 1 {
		t.Errorf("unexpected start %v", startTime)
	}
	if endTime.Year() != 2025 || endTime.Month() != time.January || endTime.Day() != 1 {
		t.Errorf("unexpected end %v", endTime)
	}
}
