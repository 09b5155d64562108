package intel

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"corp-intel/backend/internal/config"
)

func newsItem(title, description string) NewsItem {
	return NewsItem{
		Title:       title,
		Description: description,
		Source:      "Reuters",
		PublishedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		URL:         "https://example.com/story",
	}
}

func TestExtractCrisisKeywords(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("Acme files for bankruptcy protection", ""),
		newsItem("Acme announces layoffs amid restructuring", ""),
	}})

	if ext.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", ext.TotalItems)
	}
	// bankruptcy + layoff + layoffs + restructuring
	if ext.CrisisCount != 4 {
		t.Fatalf("expected 4 crisis hits, got %d", ext.CrisisCount)
	}
	if !ext.HasCrisisTerm("bankruptcy") {
		t.Fatal("bankruptcy term not recorded")
	}
	if !ext.HasCrisisTerm("layoffs", "restructuring") {
		t.Fatal("restructuring terms not recorded")
	}
	if ext.HasCrisisTerm("fraud") {
		t.Fatal("unexpected fraud match")
	}
	if len(ext.KeyItems) != 2 {
		t.Fatalf("expected 2 key items, got %d", len(ext.KeyItems))
	}
}

func TestCrisisTermsListsMatches(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("Acme files for bankruptcy protection", ""),
	}})

	terms := ext.CrisisTerms()
	var seen bool
	for _, term := range terms {
		if term != strings.ToLower(term) {
			t.Fatalf("expected lowercased term, got %q", term)
		}
		if term == "bankruptcy" {
			seen = true
		}
	}
	if !seen {
		t.Fatalf("expected bankruptcy in crisis terms, got %v", terms)
	}

	if got := (Extraction{}).CrisisTerms(); len(got) != 0 {
		t.Fatalf("expected no terms for empty extraction, got %v", got)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("SEC Investigation Targets Acme Corp", "The CEO RESIGNED abruptly"),
	}})

	if !ext.HasCrisisTerm("sec investigation") {
		t.Fatal("mixed-case sec investigation not matched")
	}
	if !ext.HasCrisisTerm("ceo resign") {
		t.Fatal("uppercase ceo resign not matched")
	}
}

func TestExtractKeywordOncePerItem(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("fraud fraud fraud", "more fraud"),
	}})

	if ext.CrisisCount != 1 {
		t.Fatalf("expected keyword to count once per item, got %d", ext.CrisisCount)
	}
}

func TestExtractWindowCap(t *testing.T) {
	cfg := config.Default()
	cfg.NewsWindow = 3
	x := NewExtractor(cfg)

	items := make([]NewsItem, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, newsItem(fmt.Sprintf("fraud story %d", i), ""))
	}
	ext := x.Extract(ProviderBundle{News: items})

	if ext.TotalItems != 5 {
		t.Fatalf("expected total 5, got %d", ext.TotalItems)
	}
	if ext.CrisisCount != 3 {
		t.Fatalf("expected window to cap scanning at 3, got %d hits", ext.CrisisCount)
	}
}

func TestExtractFlagPrefixes(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("Acme tariff trouble hits supplier network after lawsuit", ""),
	}})

	if len(ext.KeyItems) != 1 {
		t.Fatalf("expected 1 key item, got %d", len(ext.KeyItems))
	}
	flags := ext.KeyItems[0].Flags

	var geo, supply, adverse bool
	for _, flag := range flags {
		switch {
		case strings.HasPrefix(flag, "GEO: "):
			geo = true
		case strings.HasPrefix(flag, "SUPPLY: "):
			supply = true
		case strings.HasPrefix(flag, "ADVERSE:litigation: "):
			adverse = true
		}
	}
	if !geo {
		t.Fatalf("missing GEO flag in %v", flags)
	}
	if !supply {
		t.Fatalf("missing SUPPLY flag in %v", flags)
	}
	if !adverse {
		t.Fatalf("missing ADVERSE litigation flag in %v", flags)
	}
}

func TestExtractMissingFields(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		{Description: "fraud allegations surface"},
	}})

	if len(ext.KeyItems) != 1 {
		t.Fatalf("expected 1 key item, got %d", len(ext.KeyItems))
	}
	item := ext.KeyItems[0]
	if item.Title != "Unknown" {
		t.Fatalf("expected Unknown title, got %q", item.Title)
	}
	if item.Source != "Unknown" {
		t.Fatalf("expected Unknown source, got %q", item.Source)
	}
	if item.Date != "" {
		t.Fatalf("expected empty date for zero time, got %q", item.Date)
	}
}

func TestSentimentTiers(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	tests := []struct {
		name  string
		hits  int
		score int
	}{
		{"none", 0, 50},
		{"below elevated", 2, 50},
		{"elevated", 3, 55},
		{"at high boundary", 5, 55},
		{"high", 6, 70},
		{"critical", 11, 85},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]NewsItem, 0, tc.hits)
			for i := 0; i < tc.hits; i++ {
				items = append(items, newsItem(fmt.Sprintf("fraud case %d", i), ""))
			}
			ext := x.Extract(ProviderBundle{News: items})
			if ext.SentimentScore != tc.score {
				t.Fatalf("expected sentiment %d for %d hits, got %d", tc.score, tc.hits, ext.SentimentScore)
			}
			if tc.score > 50 && len(ext.CrisisSignals) == 0 {
				t.Fatal("expected crisis signal label")
			}
		})
	}
}

func TestHasGeoTerm(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	ext := x.Extract(ProviderBundle{News: []NewsItem{
		newsItem("Acme expands China operations", ""),
	}})

	if !ext.HasGeoTerm("china") {
		t.Fatal("expected china geo term")
	}
	if ext.HasGeoTerm("russia") {
		t.Fatal("unexpected russia geo term")
	}
}

func TestGeoAndSupplySummaries(t *testing.T) {
	cfg := config.Default()
	x := NewExtractor(cfg)

	items := []NewsItem{
		newsItem("china tariff dispute", ""),
		newsItem("russia export control fallout", ""),
		newsItem("supplier shortage hits vendor network", ""),
	}
	ext := x.Extract(ProviderBundle{News: items})

	// 2 + 2 geo hits exceed the significance threshold of 3.
	if ext.GeoCount <= cfg.Thresholds.GeoSignificant {
		t.Fatalf("expected geo count above %d, got %d", cfg.Thresholds.GeoSignificant, ext.GeoCount)
	}
	if len(ext.GeoRisks) != 1 {
		t.Fatalf("expected one geo risk summary, got %v", ext.GeoRisks)
	}
	if ext.SupplyCount <= cfg.Thresholds.SupplySignificant {
		t.Fatalf("expected supply count above %d, got %d", cfg.Thresholds.SupplySignificant, ext.SupplyCount)
	}
	if len(ext.SupplyRisks) != 1 {
		t.Fatalf("expected one supply risk summary, got %v", ext.SupplyRisks)
	}
}
