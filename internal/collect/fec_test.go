package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFECAggregation(t *testing.T) {
	var gotEmployer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmployer = r.URL.Query().Get("contributor_employer")
		if r.URL.Query().Get("api_key") == "" {
			t.Error("missing api_key parameter")
		}
		payload := map[string]any{
			"results": []map[string]any{
				{
					"contributor_name":            "JANE DOE",
					"contribution_receipt_amount": 2500.0,
					"committee":                   map[string]any{"name": "Committee A", "party": "DEM"},
				},
				{
					"contributor_name":            "JANE DOE",
					"contribution_receipt_amount": 1500.0,
					"committee":                   map[string]any{"name": "Committee B", "party": "REP"},
				},
				{
					"contributor_name":            "JOHN ROE",
					"contribution_receipt_amount": 6000.0,
					"committee":                   map[string]any{"name": "Committee A", "party": "DEM"},
				},
				{
					"contributor_name":            "",
					"contribution_receipt_amount": 100.0,
					"committee":                   map[string]any{},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client, err := NewFECClient(FECConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("fec client: %v", err)
	}

	summary, err := client.SearchByEmployer(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotEmployer != "Acme Corp" {
		t.Fatalf("expected employer query Acme Corp, got %q", gotEmployer)
	}
	if summary.TotalAmount != 10100 {
		t.Fatalf("expected total 10100, got %v", summary.TotalAmount)
	}
	// JANE DOE, JOHN ROE, Unknown
	if summary.UniqueDonors != 3 {
		t.Fatalf("expected 3 unique donors, got %d", summary.UniqueDonors)
	}
	if len(summary.TopRecipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(summary.TopRecipients))
	}
	if summary.TopRecipients[0].Name != "Committee A" || summary.TopRecipients[0].TotalAmount != 8500 {
		t.Fatalf("expected Committee A first with 8500, got %+v", summary.TopRecipients[0])
	}
}

func TestFECMissingKey(t *testing.T) {
	if _, err := NewFECClient(FECConfig{}); err != ErrMissingFECKey {
		t.Fatalf("expected ErrMissingFECKey, got %v", err)
	}
}

func TestFECErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewFECClient(FECConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("fec client: %v", err)
	}
	if _, err := client.SearchByEmployer(context.Background(), "Acme Corp"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
