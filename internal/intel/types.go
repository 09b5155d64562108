package intel

import "time"

// NewsItem is a normalized news record handed in by a collector,
// most-recent-first. Missing fields are empty strings, never an error.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
}

// LitigationRecord is one court case attributed to the target.
type LitigationRecord struct {
	CaseName  string `json:"case_name"`
	Court     string `json:"court"`
	DateFiled string `json:"date_filed"`
	CaseType  string `json:"case_type"`
}

// RecipientTotal aggregates political contributions per recipient.
type RecipientTotal struct {
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	TotalAmount float64 `json:"total_amount"`
}

// DonationSummary is the aggregated political-contribution picture.
type DonationSummary struct {
	TotalAmount   float64          `json:"total_amount"`
	UniqueDonors  int              `json:"unique_donors"`
	TopRecipients []RecipientTotal `json:"top_recipients,omitempty"`
}

// FilingRecord is one registry filing attributed to the target.
type FilingRecord struct {
	FormType    string `json:"form_type"`
	Description string `json:"description"`
	FiledAt     string `json:"filed_at"`
	URL         string `json:"url,omitempty"`
}

// RegistryProfile is the corporate-registry picture of the target. Found is
// false when the registry has no record; the remaining fields are then empty.
type RegistryProfile struct {
	Found                bool           `json:"found"`
	Name                 string         `json:"name,omitempty"`
	CIK                  string         `json:"cik,omitempty"`
	SICDescription       string         `json:"sic_description,omitempty"`
	StateOfIncorporation string         `json:"state_of_incorporation,omitempty"`
	Tickers              []string       `json:"tickers,omitempty"`
	Exchanges            []string       `json:"exchanges,omitempty"`
	FormerNames          []string       `json:"former_names,omitempty"`
	Filings              []FilingRecord `json:"filings,omitempty"`
}

// SanctionsMatch is a single watchlist hit.
type SanctionsMatch struct {
	Name     string   `json:"name"`
	Schema   string   `json:"schema,omitempty"`
	Datasets []string `json:"datasets,omitempty"`
	Score    float64  `json:"score,omitempty"`
}

// SanctionsResult reports global sanctions/watchlist screening output.
type SanctionsResult struct {
	Count   int              `json:"count"`
	Matches []SanctionsMatch `json:"matches,omitempty"`
}

// ProviderBundle carries everything the collectors produced for one analysis
// run. The pipeline treats it as read-only; a failed provider leaves its
// zero value in place and records the failure in SourceErrors.
type ProviderBundle struct {
	News         []NewsItem         `json:"news"`
	Litigation   []LitigationRecord `json:"litigation"`
	Donations    DonationSummary    `json:"donations"`
	Sanctions    SanctionsResult    `json:"sanctions"`
	Registry     RegistryProfile    `json:"registry"`
	SourceErrors map[string]string  `json:"source_errors,omitempty"`
}
