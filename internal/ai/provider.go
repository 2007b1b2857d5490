// Package ai generates narrative content for wrapped reports through an LLM
// provider. The provider is an opaque text-generation capability; everything
// interesting about the report was computed before it gets here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	openAIBaseURL    = "https://api.openai.com"

	defaultAnthropicModel = "claude-sonnet-4-5"
	defaultOpenAIModel    = "gpt-4o"

	defaultMaxTokens   = 1024
	defaultHTTPTimeout = 60 * time.Second
)

// Provider generates text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds a provider from its configured name. An empty name or
// "none" yields a provider that produces no content.
func NewProvider(name, apiKey, model string) (Provider, error) {
	switch name {
	case "", "none":
		return NoOpProvider{}, nil
	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		if model == "" {
			model = defaultAnthropicModel
		}
		return &AnthropicProvider{apiKey: apiKey, model: model, baseURL: anthropicBaseURL, httpClient: newHTTPClient()}, nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		if model == "" {
			model = defaultOpenAIModel
		}
		return &OpenAIProvider{apiKey: apiKey, model: model, baseURL: openAIBaseURL, httpClient: newHTTPClient()}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", name)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// NoOpProvider returns empty strings, for AI-free runs.
type NoOpProvider struct{}

func (NoOpProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// SetBaseURL overrides the API base, for tests.
func (p *AnthropicProvider) SetBaseURL(base string) {
	p.baseURL = base
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body := anthropicRequest{
		Model:     p.model,
		MaxTokens: defaultMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}

	raw, err := postJSON(ctx, p.httpClient, p.baseURL+"/v1/messages", headers, body)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("anthropic: decoding response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: response contained no text block")
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// SetBaseURL overrides the API base, for tests.
func (p *OpenAIProvider) SetBaseURL(base string) {
	p.baseURL = base
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body := openAIRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	}

	raw, err := postJSON(ctx, p.httpClient, p.baseURL+"/v1/chat/completions", headers, body)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai: decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// statusError distinguishes retryable server errors from client errors.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// postJSON sends a JSON request and returns the raw response body, retrying
// on 5xx responses.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var raw []byte
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
			if err != nil {
				return fmt.Errorf("building request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			for k, v := range headers {
				req.Header.Set(k, v)
			}

			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return &statusError{code: resp.StatusCode, body: string(msg)}
			}

			raw, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			if serr, ok := err.(*statusError); ok {
				return serr.code/100 == 5
			}
			return false
		}),
	)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
