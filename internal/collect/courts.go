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

// CourtsConfig drives the court records client.
type CourtsConfig struct {
	BaseURL string
	Timeout time.Duration
	Limit   int
}

// CourtsClient searches the CourtListener RECAP archive for dockets naming
// the subject. No credentials required.
type CourtsClient struct {
	httpClient *http.Client
	baseURL    string
	limit      int
}

// NewCourtsClient constructs a court records client.
func NewCourtsClient(cfg CourtsConfig) *CourtsClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://www.courtlistener.com/api/rest/v3/search/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}

	return &CourtsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limit:      limit,
	}
}

// Search returns litigation records for the subject, newest filings first.
func (c *CourtsClient) Search(ctx context.Context, subject string) ([]intel.LitigationRecord, error) {
	if c == nil {
		return nil, errors.New("courts client is nil")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", subject))
	params.Set("order_by", "dateFiled desc")
	params.Set("type", "r")

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
		return nil, fmt.Errorf("court records api status %d", resp.StatusCode)
	}

	var payload courtsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode court records response: %w", err)
	}

	records := make([]intel.LitigationRecord, 0, len(payload.Results))
	for _, docket := range payload.Results {
		if len(records) >= c.limit {
			break
		}
		records = append(records, intel.LitigationRecord{
			CaseName:  strings.TrimSpace(docket.CaseName),
			Court:     strings.TrimSpace(docket.Court),
			DateFiled: strings.TrimSpace(docket.DateFiled),
			CaseType:  classifyCase(docket),
		})
	}
	return records, nil
}

// classifyCase infers a coarse case type from the nature of suit and court
// identifier, defaulting to civil.
func classifyCase(docket courtsResult) string {
	nature := strings.ToLower(docket.NatureOfSuit)
	court := strings.ToLower(docket.Court)
	switch {
	case strings.Contains(nature, "criminal") || strings.HasSuffix(court, "cr"):
		return "criminal"
	case strings.Contains(nature, "bankruptcy") || strings.Contains(court, "bk"):
		return "bankruptcy"
	default:
		return "civil"
	}
}

type courtsResponse struct {
	Results []courtsResult `json:"results"`
}

type courtsResult struct {
	CaseName     string `json:"caseName"`
	DocketNumber string `json:"docketNumber"`
	Court        string `json:"court"`
	DateFiled    string `json:"dateFiled"`
	NatureOfSuit string `json:"nature_of_suit"`
}
