package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ademuri/plex-wrapped/internal/model"
)

const plexPageSize = 500

// PlexSource pulls listening history from a Plex Media Server over its HTTP
// API, one page at a time.
type PlexSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewPlexSource creates a source for the given server URL and token.
func NewPlexSource(baseURL, token string) *PlexSource {
	return &PlexSource{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type plexAccount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Thumb string `json:"thumb"`
}

type plexMetadata struct {
	Type             string `json:"type"`
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle"`
	ParentTitle      string `json:"parentTitle"`
	Duration         int64  `json:"duration"`
	ViewedAt         int64  `json:"viewedAt"`
	Thumb            string `json:"thumb"`
	AccountID        int    `json:"accountID"`
}

type plexContainer struct {
	MediaContainer struct {
		Size     int            `json:"size"`
		Accounts []plexAccount  `json:"Account"`
		Metadata []plexMetadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

// ExtractAll fetches the year's track plays for every server account. Users
// with no plays in the year are skipped.
func (p *PlexSource) ExtractAll(ctx context.Context, year int) ([]model.ListeningHistory, error) {
	accounts, err := p.getAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	var histories []model.ListeningHistory
	for _, account := range accounts {
		history, err := p.extractUser(ctx, account, year)
		if err != nil {
			// A single user failing should not sink the run.
			fmt.Printf("Warning: failed to extract history for %q: %v\n", account.Name, err)
			continue
		}
		if history.TotalEvents() > 0 {
			histories = append(histories, history)
		}
	}
	return histories, nil
}

func (p *PlexSource) getAccounts(ctx context.Context) ([]plexAccount, error) {
	var container plexContainer
	if err := p.get(ctx, "/accounts", nil, &container); err != nil {
		return nil, err
	}
	return container.MediaContainer.Accounts, nil
}

func (p *PlexSource) extractUser(ctx context.Context, account plexAccount, year int) (model.ListeningHistory, error) {
	history := model.ListeningHistory{
		User:      account.Name,
		Year:      year,
		AvatarURL: account.Thumb,
	}
	start, end := yearBounds(year)

	offset := 0
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return history, err
		}

		params := url.Values{}
		params.Set("accountID", strconv.Itoa(account.ID))
		params.Set("viewedAt>", strconv.FormatInt(start-1, 10))
		params.Set("viewedAt<", strconv.FormatInt(end, 10))
		params.Set("X-Plex-Container-Start", strconv.Itoa(offset))
		params.Set("X-Plex-Container-Size", strconv.Itoa(plexPageSize))

		var container plexContainer
		if err := p.get(ctx, "/status/sessions/history/all", params, &container); err != nil {
			return history, fmt.Errorf("fetching history page at offset %d: %w", offset, err)
		}

		for _, item := range container.MediaContainer.Metadata {
			if item.Type != "track" {
				continue
			}
			artist := item.GrandparentTitle
			if artist == "" {
				artist = "Unknown Artist"
			}
			album := item.ParentTitle
			if album == "" {
				album = "Unknown Album"
			}
			history.Events = append(history.Events, model.PlayEvent{
				Title:      item.Title,
				Artist:     artist,
				Album:      album,
				DurationMS: item.Duration,
				PlayedAt:   time.Unix(item.ViewedAt, 0),
				User:       account.Name,
				ThumbURL:   item.Thumb,
			})
		}

		if container.MediaContainer.Size < plexPageSize {
			break
		}
		offset += plexPageSize
	}

	return history, nil
}

func (p *PlexSource) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := p.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("plex returned %d for %s: %s", resp.StatusCode, path, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
