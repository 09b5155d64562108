package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corp-intel/backend/internal/intel"
	"corp-intel/backend/internal/scoring"
)

func sampleVerdict() scoring.RiskVerdict {
	return scoring.RiskVerdict{
		Target:       "Acme Corp",
		OverallScore: 47.5,
		RiskLevel: scoring.RiskLevel{
			Label:          "ELEVATED RISK",
			Signal:         "CONDITIONAL",
			Recommendation: "PROCEED WITH CAUTION. Address flagged items before closing.",
		},
		Categories: []scoring.CategoryScore{
			{Name: "Financial", Score: 95, Weight: 0.20, Factors: []string{"CRITICAL: Bankruptcy indicators"}},
			{Name: "Legal", Score: 15, Weight: 0.15, Factors: []string{}},
		},
		RedFlags: []scoring.RedFlag{
			{
				Severity:       scoring.SeverityCritical,
				Category:       "Financial",
				Finding:        "Bankruptcy or insolvency indicators in recent news",
				BusinessImpact: "Company may be insolvent.",
				Action:         "Do not invest.",
			},
		},
		Assessment: scoring.Assessment{
			Narrative:  "CRITICAL: Bankruptcy indicators detected in recent news coverage.",
			Confidence: scoring.ConfidenceMedium,
		},
		Extraction: intel.Extraction{
			KeyItems: []intel.KeyItem{
				{Title: "Acme files for bankruptcy", Source: "Reuters", Date: "2026-03-10", Flags: []string{"bankruptcy"}},
			},
		},
	}
}

func TestRenderText(t *testing.T) {
	body := RenderText(sampleVerdict(), "company")

	for _, want := range []string{
		"INTELLIGENCE DOSSIER",
		"Target: Acme Corp",
		"Type: Company",
		"Overall Score: 48/100",
		"Risk Level: ELEVATED RISK",
		"Confidence: MEDIUM",
		"ANALYST NARRATIVE",
		"RED FLAGS (1)",
		"[CRITICAL] Financial: Bankruptcy or insolvency indicators in recent news",
		"Financial         95/100 (weight 0.20)",
		"- CRITICAL: Bankruptcy indicators",
		"KEY NEWS INTELLIGENCE",
		"Acme files for bankruptcy",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}
}

func TestRenderTextNoFindings(t *testing.T) {
	verdict := sampleVerdict()
	verdict.RedFlags = nil
	verdict.Extraction.KeyItems = nil

	body := RenderText(verdict, "person")
	if !strings.Contains(body, "RED FLAGS (0)") {
		t.Fatalf("expected empty red flag section:\n%s", body)
	}
	if !strings.Contains(body, "None identified.") {
		t.Fatalf("expected none-identified marker:\n%s", body)
	}
	if strings.Contains(body, "KEY NEWS INTELLIGENCE") {
		t.Fatal("unexpected news section with no key items")
	}
}

func TestRenderTextRegistrySection(t *testing.T) {
	verdict := sampleVerdict()

	body := RenderText(verdict, "company")
	if strings.Contains(body, "CORPORATE REGISTRY") {
		t.Fatal("unexpected registry section without a registry record")
	}

	verdict.Registry = intel.RegistryProfile{
		Found:                true,
		Name:                 "Acme Corp",
		CIK:                  "0000320193",
		SICDescription:       "Industrial Machinery",
		StateOfIncorporation: "DE",
		Tickers:              []string{"ACME"},
		FormerNames:          []string{"Acme Widgets Inc"},
		Filings: []intel.FilingRecord{
			{FormType: "10-K", Description: "Annual Report", FiledAt: "2026-02-01"},
		},
	}

	body = RenderText(verdict, "company")
	for _, want := range []string{
		"CORPORATE REGISTRY",
		"Registered Name: Acme Corp",
		"CIK: 0000320193",
		"Industry: Industrial Machinery",
		"State of Incorporation: DE",
		"Tickers: ACME",
		"Former Names: Acme Widgets Inc",
		"  2026-02-01: 10-K - Annual Report",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	verdict := sampleVerdict()

	textPath := filepath.Join(dir, "out", "acme_report.txt")
	if err := WriteText(verdict, "company", textPath); err != nil {
		t.Fatalf("write text: %v", err)
	}
	data, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("read text report: %v", err)
	}
	if !strings.Contains(string(data), "Target: Acme Corp") {
		t.Fatal("text report missing target")
	}

	jsonPath := filepath.Join(dir, "out", "acme.json")
	if err := WriteJSON(verdict, jsonPath); err != nil {
		t.Fatalf("write json: %v", err)
	}
	payload, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json report: %v", err)
	}
	var decoded scoring.RiskVerdict
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode json report: %v", err)
	}
	if decoded.Target != "Acme Corp" || decoded.OverallScore != 47.5 {
		t.Fatalf("unexpected decoded verdict: %+v", decoded)
	}
}

func TestDefaultPaths(t *testing.T) {
	textPath, jsonPath := DefaultPaths("reports", "Very Long Company Name, Incorporated Of America")
	if !strings.HasPrefix(textPath, filepath.Join("reports", "report_Very_Long_Company_Name")) {
		t.Fatalf("unexpected text path %q", textPath)
	}
	if !strings.HasSuffix(textPath, "_report.txt") {
		t.Fatalf("expected _report.txt suffix, got %q", textPath)
	}
	if !strings.HasSuffix(jsonPath, ".json") {
		t.Fatalf("expected .json suffix, got %q", jsonPath)
	}
	if strings.Contains(textPath, ",") {
		t.Fatalf("expected commas stripped, got %q", textPath)
	}
}
