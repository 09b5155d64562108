package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"corp-intel/backend/internal/intel"
)

// NewsConfig drives the news headline client.
type NewsConfig struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// ErrMissingNewsKey is returned when the client cannot authenticate.
var ErrMissingNewsKey = errors.New("news client missing api key")

// NewsClient fetches recent coverage for a subject, most-recent-first.
type NewsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
}

// NewNewsClient constructs a news client if configuration is valid.
func NewNewsClient(cfg NewsConfig) (*NewsClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingNewsKey
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2/everything"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	return &NewsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
	}, nil
}

// Search returns recent articles mentioning the subject, newest first.
func (c *NewsClient) Search(ctx context.Context, subject string) ([]intel.NewsItem, error) {
	if c == nil {
		return nil, errors.New("news client is nil")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", subject))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api status %d", resp.StatusCode)
	}

	var payload newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	items := make([]intel.NewsItem, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		item := intel.NewsItem{
			Title:       strings.TrimSpace(article.Title),
			Description: strings.TrimSpace(article.Description),
			Source:      strings.TrimSpace(article.Source.Name),
			URL:         strings.TrimSpace(article.URL),
		}
		if ts, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
			item.PublishedAt = ts
		}
		items = append(items, item)
	}
	return items, nil
}

type newsResponse struct {
	Articles []newsArticle `json:"articles"`
}

type newsArticle struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt string     `json:"publishedAt"`
	Source      newsSource `json:"source"`
}

type newsSource struct {
	Name string `json:"name"`
}
