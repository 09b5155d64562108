package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"corp-intel/backend/internal/intel"
)

// SanctionsConfig drives the OpenSanctions client.
type SanctionsConfig struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ErrMissingSanctionsKey is returned when the client cannot authenticate.
var ErrMissingSanctionsKey = errors.New("sanctions client missing api key")

// SanctionsClient screens names against global sanctions/watchlists with
// basic caching and a single retry on rate limiting.
type SanctionsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cacheTTL   time.Duration
	cache      sync.Map // map[string]sanctionsCacheEntry
}

type sanctionsCacheEntry struct {
	at     time.Time
	result intel.SanctionsResult
}

// NewSanctionsClient constructs a sanctions client if configuration is valid.
func NewSanctionsClient(cfg SanctionsConfig) (*SanctionsClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingSanctionsKey
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.opensanctions.org/match/default"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	return &SanctionsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		cacheTTL:   ttl,
	}, nil
}

// Match screens the supplied name and returns the watchlist hits.
func (c *SanctionsClient) Match(ctx context.Context, name string, company bool) (intel.SanctionsResult, error) {
	if c == nil {
		return intel.SanctionsResult{}, errors.New("sanctions client is nil")
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return intel.SanctionsResult{}, nil
	}

	if entry, ok := c.cache.Load(key); ok {
		cached := entry.(sanctionsCacheEntry)
		if time.Since(cached.at) < c.cacheTTL {
			return cached.result, nil
		}
		c.cache.Delete(key)
	}

	schema := "Company"
	if !company {
		schema = "Person"
	}

	params := url.Values{}
	params.Set("schema", schema)
	params.Set("properties.name", name)

	endpoint := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return intel.SanctionsResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return intel.SanctionsResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		select {
		case <-ctx.Done():
			return intel.SanctionsResult{}, ctx.Err()
		case <-time.After(5 * time.Second):
		}
		resp.Body.Close()
		retryReq, retryErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if retryErr != nil {
			return intel.SanctionsResult{}, retryErr
		}
		retryReq.Header = req.Header.Clone()
		resp, err = c.httpClient.Do(retryReq)
		if err != nil {
			return intel.SanctionsResult{}, err
		}
		defer resp.Body.Close()
	}

	if resp.StatusCode != http.StatusOK {
		return intel.SanctionsResult{}, fmt.Errorf("sanctions api status %d", resp.StatusCode)
	}

	var payload sanctionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return intel.SanctionsResult{}, fmt.Errorf("decode sanctions response: %w", err)
	}

	result := intel.SanctionsResult{Count: len(payload.Results)}
	for _, item := range payload.Results {
		result.Matches = append(result.Matches, intel.SanctionsMatch{
			Name:     strings.TrimSpace(item.Caption),
			Schema:   strings.TrimSpace(item.Schema),
			Datasets: item.Datasets,
			Score:    item.Score,
		})
	}

	c.cache.Store(key, sanctionsCacheEntry{at: time.Now(), result: result})
	return result, nil
}

type sanctionsResponse struct {
	Results []sanctionsResult `json:"results"`
}

type sanctionsResult struct {
	Caption  string   `json:"caption"`
	Schema   string   `json:"schema"`
	Datasets []string `json:"datasets"`
	Score    float64  `json:"score"`
}
