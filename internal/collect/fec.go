package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"corp-intel/backend/internal/intel"
)

// FECConfig drives the FEC contributions client.
type FECConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	PerPage int
}

// ErrMissingFECKey is returned when the client cannot authenticate.
var ErrMissingFECKey = errors.New("fec client missing api key")

// FECClient aggregates federal campaign contributions attributed to a
// company (by employer) or an individual (by donor name).
type FECClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	perPage    int
}

// NewFECClient constructs an FEC client if configuration is valid.
func NewFECClient(cfg FECConfig) (*FECClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingFECKey
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.open.fec.gov/v1/schedules/schedule_a/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	return &FECClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		perPage:    perPage,
	}, nil
}

// SearchByEmployer aggregates contributions reported under the employer name.
func (c *FECClient) SearchByEmployer(ctx context.Context, employer string) (intel.DonationSummary, error) {
	params := url.Values{}
	params.Set("contributor_employer", employer)
	return c.aggregate(ctx, employer, params)
}

// SearchByDonor aggregates contributions by the named individual.
func (c *FECClient) SearchByDonor(ctx context.Context, name, state string) (intel.DonationSummary, error) {
	params := url.Values{}
	params.Set("contributor_name", name)
	if state = strings.TrimSpace(state); state != "" {
		params.Set("contributor_state", strings.ToUpper(state))
	}
	return c.aggregate(ctx, name, params)
}

func (c *FECClient) aggregate(ctx context.Context, subject string, params url.Values) (intel.DonationSummary, error) {
	if c == nil {
		return intel.DonationSummary{}, errors.New("fec client is nil")
	}
	if strings.TrimSpace(subject) == "" {
		return intel.DonationSummary{}, nil
	}

	params.Set("api_key", c.apiKey)
	params.Set("sort", "-contribution_receipt_date")
	params.Set("per_page", fmt.Sprintf("%d", c.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return intel.DonationSummary{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return intel.DonationSummary{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return intel.DonationSummary{}, fmt.Errorf("fec api status %d", resp.StatusCode)
	}

	var payload fecResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return intel.DonationSummary{}, fmt.Errorf("decode fec response: %w", err)
	}

	summary := intel.DonationSummary{}
	donors := make(map[string]struct{})
	recipients := make(map[string]*intel.RecipientTotal)

	for _, contribution := range payload.Results {
		amount := contribution.Amount
		donor := strings.TrimSpace(contribution.ContributorName)
		if donor == "" {
			donor = "Unknown"
		}
		recipient := strings.TrimSpace(contribution.Committee.Name)
		if recipient == "" {
			recipient = "Unknown"
		}

		summary.TotalAmount += amount
		donors[donor] = struct{}{}

		entry, ok := recipients[recipient]
		if !ok {
			entry = &intel.RecipientTotal{Name: recipient, Party: strings.TrimSpace(contribution.Committee.Party)}
			recipients[recipient] = entry
		}
		entry.TotalAmount += amount
	}

	summary.UniqueDonors = len(donors)
	for _, entry := range recipients {
		summary.TopRecipients = append(summary.TopRecipients, *entry)
	}
	sort.Slice(summary.TopRecipients, func(i, j int) bool {
		return summary.TopRecipients[i].TotalAmount > summary.TopRecipients[j].TotalAmount
	})
	if len(summary.TopRecipients) > 10 {
		summary.TopRecipients = summary.TopRecipients[:10]
	}
	return summary, nil
}

type fecResponse struct {
	Results []fecContribution `json:"results"`
}

type fecContribution struct {
	ContributorName string       `json:"contributor_name"`
	Amount          float64      `json:"contribution_receipt_amount"`
	Committee       fecCommittee `json:"committee"`
}

type fecCommittee struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}
