package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProvider(t *testing.T) {
	cases := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
	}{
		{"none", "none", "", false},
		{"empty", "", "", false},
		{"anthropic", "anthropic", "key", false},
		{"anthropic without key", "anthropic", "", true},
		{"openai", "openai", "key", false},
		{"openai without key", "openai", "", true},
		{"unknown", "llamafarm", "key", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProvider(tc.provider, tc.apiKey, "")
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNoOpProvider(t *testing.T) {
	got, err := NoOpProvider{}.Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty response, got %q", got)
	}
}

func TestAnthropicProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "world"},
			},
		})
	}))
	defer server.Close()

	provider, err := NewProvider("anthropic", "test-key", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	provider.(*AnthropicProvider).SetBaseURL(server.URL)

	got, err := provider.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "world" {
		t.Errorf("expected %q, got %q", "world", got)
	}
}

func TestOpenAIProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "world"}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewProvider("openai", "test-key", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	provider.(*OpenAIProvider).SetBaseURL(server.URL)

	got, err := provider.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "world" {
		t.Errorf("expected %q, got %q", "world", got)
	}
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "eventually"}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewProvider("openai", "test-key", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	provider.(*OpenAIProvider).SetBaseURL(server.URL)

	got, err := provider.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "eventually" {
		t.Errorf("expected retry to succeed, got %q", got)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	provider, err := NewProvider("openai", "test-key", "")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	provider.(*OpenAIProvider).SetBaseURL(server.URL)

	if _, err := provider.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for client error, got %d", attempts)
	}
}
