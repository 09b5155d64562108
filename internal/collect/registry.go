package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"corp-intel/backend/internal/intel"
)

// RegistryConfig drives the SEC EDGAR corporate-registry client.
type RegistryConfig struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	FilingLimit int
}

// Filing forms relevant to due diligence, mapped to display descriptions.
// Unlisted forms render as "Other".
var filingForms = map[string]string{
	"10-K":    "Annual Report",
	"10-Q":    "Quarterly Report",
	"8-K":     "Current Report (Material Events)",
	"DEF 14A": "Proxy Statement",
	"S-1":     "IPO Registration",
	"3":       "Initial Beneficial Ownership",
	"4":       "Changes in Beneficial Ownership",
	"5":       "Annual Beneficial Ownership",
	"SC 13D":  "Beneficial Ownership >5%",
	"SC 13G":  "Beneficial Ownership >5% (Passive)",
}

// RegistryClient resolves a company name to its EDGAR registration and recent
// filings. No credentials required; the SEC only asks for an identifying
// User-Agent.
type RegistryClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	filingLimit int
}

// NewRegistryClient constructs a corporate-registry client.
func NewRegistryClient(cfg RegistryConfig) *RegistryClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://data.sec.gov"
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "corp-intel research client"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := cfg.FilingLimit
	if limit <= 0 {
		limit = 20
	}

	return &RegistryClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   userAgent,
		filingLimit: limit,
	}
}

// Lookup resolves the company name against the EDGAR ticker index and, on a
// hit, fetches its registration profile and recent filings. A name with no
// registry record returns Found=false and no error.
func (c *RegistryClient) Lookup(ctx context.Context, name string) (intel.RegistryProfile, error) {
	if c == nil {
		return intel.RegistryProfile{}, errors.New("registry client is nil")
	}
	if strings.TrimSpace(name) == "" {
		return intel.RegistryProfile{}, nil
	}

	cik, err := c.findCIK(ctx, name)
	if err != nil {
		return intel.RegistryProfile{}, err
	}
	if cik == "" {
		return intel.RegistryProfile{}, nil
	}

	var payload registrySubmissions
	if err := c.getJSON(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, cik), &payload); err != nil {
		return intel.RegistryProfile{}, err
	}

	profile := intel.RegistryProfile{
		Found:                true,
		Name:                 strings.TrimSpace(payload.Name),
		CIK:                  cik,
		SICDescription:       strings.TrimSpace(payload.SICDescription),
		StateOfIncorporation: strings.TrimSpace(payload.StateOfIncorporation),
		Tickers:              payload.Tickers,
		Exchanges:            payload.Exchanges,
	}
	for _, former := range payload.FormerNames {
		if trimmed := strings.TrimSpace(former.Name); trimmed != "" {
			profile.FormerNames = append(profile.FormerNames, trimmed)
		}
	}
	profile.Filings = c.parseFilings(cik, payload.Filings.Recent)
	return profile, nil
}

// findCIK matches the cleaned company name against the EDGAR ticker index and
// returns the zero-padded CIK, or empty when nothing matches.
func (c *RegistryClient) findCIK(ctx context.Context, name string) (string, error) {
	var index map[string]registryTicker
	if err := c.getJSON(ctx, c.baseURL+"/files/company_tickers.json", &index); err != nil {
		return "", err
	}

	needle := cleanCompanyName(name)
	if needle == "" {
		return "", nil
	}
	for _, entry := range index {
		if strings.Contains(cleanCompanyName(entry.Title), needle) {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", nil
}

func (c *RegistryClient) parseFilings(cik string, recent registryRecentFilings) []intel.FilingRecord {
	count := len(recent.Forms)
	if count > c.filingLimit {
		count = c.filingLimit
	}

	at := func(values []string, i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	records := make([]intel.FilingRecord, 0, count)
	for i := 0; i < count; i++ {
		form := strings.TrimSpace(recent.Forms[i])
		description, ok := filingForms[form]
		if !ok {
			description = "Other"
		}
		record := intel.FilingRecord{
			FormType:    form,
			Description: description,
			FiledAt:     at(recent.FilingDates, i),
		}
		if accession := at(recent.AccessionNumbers, i); accession != "" {
			dir := strings.ReplaceAll(accession, "-", "")
			record.URL = fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s-index.htm",
				strings.TrimLeft(cik, "0"), dir, accession)
		}
		records = append(records, record)
	}
	return records
}

func (c *RegistryClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry api status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}

// cleanCompanyName lowercases and strips punctuation so "Acme, Inc." matches
// the index entry "ACME INC".
func cleanCompanyName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type registryTicker struct {
	CIK    int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

type registrySubmissions struct {
	Name                 string               `json:"name"`
	SICDescription       string               `json:"sicDescription"`
	StateOfIncorporation string               `json:"stateOfIncorporation"`
	Tickers              []string             `json:"tickers"`
	Exchanges            []string             `json:"exchanges"`
	FormerNames          []registryFormerName `json:"formerNames"`
	Filings              registryFilings      `json:"filings"`
}

type registryFormerName struct {
	Name string `json:"name"`
}

type registryFilings struct {
	Recent registryRecentFilings `json:"recent"`
}

type registryRecentFilings struct {
	Forms            []string `json:"form"`
	FilingDates      []string `json:"filingDate"`
	AccessionNumbers []string `json:"accessionNumber"`
}
