package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func registryServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		switch r.URL.Path {
		case "/files/company_tickers.json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"0": map[string]any{"cik_str": 320193, "ticker": "ACME", "title": "Acme Corp."},
				"1": map[string]any{"cik_str": 789019, "ticker": "OTHR", "title": "Other Holdings Inc"},
			})
		case "/submissions/CIK0000320193.json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"name":                 "Acme Corp",
				"sicDescription":       "Industrial Machinery",
				"stateOfIncorporation": "DE",
				"tickers":              []string{"ACME"},
				"exchanges":            []string{"NYSE"},
				"formerNames":          []map[string]any{{"name": "Acme Widgets Inc"}},
				"filings": map[string]any{
					"recent": map[string]any{
						"form":            []string{"10-K", "8-K", "SC 13D", "CORRESP"},
						"filingDate":      []string{"2026-02-01", "2026-01-15", "2025-12-03", "2025-11-20"},
						"accessionNumber": []string{"0000320193-26-000001", "0000320193-26-000002", "", ""},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestRegistryLookup(t *testing.T) {
	srv := registryServer(t)
	defer srv.Close()

	client := NewRegistryClient(RegistryConfig{BaseURL: srv.URL})
	profile, err := client.Lookup(context.Background(), "Acme, Corp.")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if !profile.Found {
		t.Fatal("expected registry hit")
	}
	if profile.CIK != "0000320193" {
		t.Fatalf("expected zero-padded CIK 0000320193, got %q", profile.CIK)
	}
	if profile.Name != "Acme Corp" || profile.SICDescription != "Industrial Machinery" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.StateOfIncorporation != "DE" {
		t.Fatalf("expected DE incorporation, got %q", profile.StateOfIncorporation)
	}
	if len(profile.FormerNames) != 1 || profile.FormerNames[0] != "Acme Widgets Inc" {
		t.Fatalf("unexpected former names: %v", profile.FormerNames)
	}

	if len(profile.Filings) != 4 {
		t.Fatalf("expected 4 filings, got %d", len(profile.Filings))
	}
	first := profile.Filings[0]
	if first.FormType != "10-K" || first.Description != "Annual Report" || first.FiledAt != "2026-02-01" {
		t.Fatalf("unexpected first filing: %+v", first)
	}
	if !strings.Contains(first.URL, "0000320193-26-000001-index.htm") {
		t.Fatalf("unexpected filing url: %q", first.URL)
	}
	if profile.Filings[3].Description != "Other" {
		t.Fatalf("expected unmapped form to render Other, got %q", profile.Filings[3].Description)
	}
	if profile.Filings[3].URL != "" {
		t.Fatalf("expected empty url without accession, got %q", profile.Filings[3].URL)
	}
}

func TestRegistryLookupNoMatch(t *testing.T) {
	srv := registryServer(t)
	defer srv.Close()

	client := NewRegistryClient(RegistryConfig{BaseURL: srv.URL})
	profile, err := client.Lookup(context.Background(), "Nonexistent Ventures")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if profile.Found {
		t.Fatalf("expected no registry record, got %+v", profile)
	}
}

func TestRegistryFilingLimit(t *testing.T) {
	srv := registryServer(t)
	defer srv.Close()

	client := NewRegistryClient(RegistryConfig{BaseURL: srv.URL, FilingLimit: 2})
	profile, err := client.Lookup(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(profile.Filings) != 2 {
		t.Fatalf("expected filing limit of 2, got %d", len(profile.Filings))
	}
}

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme, Inc.", "acme inc"},
		{"ACME   CORP", "acme corp"},
		{"O'Brien & Sons", "obrien sons"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := cleanCompanyName(tc.in); got != tc.want {
			t.Fatalf("cleanCompanyName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
