package config

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			"weight sum off",
			func(c *Config) { c.Categories[0].Weight += 0.01 },
			"weights sum",
		},
		{
			"unknown category",
			func(c *Config) { c.Categories[0].Name = "Astrology" },
			"unknown risk category",
		},
		{
			"duplicate category",
			func(c *Config) { c.Categories[1].Name = c.Categories[0].Name },
			"duplicate risk category",
		},
		{
			"baseline out of range",
			func(c *Config) { c.Categories[0].Baseline = 120 },
			"baseline",
		},
		{
			"tiers out of order",
			func(c *Config) { c.SentimentTiers[1].MinCount = 99 },
			"descending count order",
		},
		{
			"levels out of order",
			func(c *Config) { c.RiskLevels[1].Min = 70 },
			"descending threshold order",
		},
		{
			"lowest level not zero",
			func(c *Config) { c.RiskLevels[len(c.RiskLevels)-1].Min = 5 },
			"must start at 0",
		},
		{
			"empty crisis taxonomy",
			func(c *Config) { c.Taxonomies.Crisis = nil },
			"crisis taxonomy",
		},
		{
			"bad news window",
			func(c *Config) { c.NewsWindow = 0 },
			"news window",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	path := tempJSON(t, map[string]any{
		"news_window": 45,
		"thresholds": map[string]any{
			"litigation_high":       5,
			"litigation_elevated":   2,
			"contribution_high":     500000,
			"contribution_elevated": 100000,
			"geo_significant":       3,
			"supply_significant":    2,
			"litigation_multiplier": 10,
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("overlaid config invalid: %v", err)
	}
	if cfg.NewsWindow != 45 {
		t.Fatalf("expected news window 45, got %d", cfg.NewsWindow)
	}
	if cfg.Thresholds.LitigationMultiplier != 10 {
		t.Fatalf("expected litigation multiplier 10, got %v", cfg.Thresholds.LitigationMultiplier)
	}
	// Untouched sections keep defaults.
	if len(cfg.Categories) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cfg.Categories))
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NewsWindow != Default().NewsWindow {
		t.Fatal("expected defaults for empty path")
	}
}

func TestCategoryLookup(t *testing.T) {
	cfg := Default()
	cat, ok := cfg.Category(CategoryFinancial)
	if !ok {
		t.Fatal("financial category missing")
	}
	if cat.Weight != 0.20 {
		t.Fatalf("expected weight 0.20, got %v", cat.Weight)
	}
	if _, ok := cfg.Category("Astrology"); ok {
		t.Fatal("unexpected category match")
	}
}

func tempJSON(t *testing.T, value any) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "profile-*.json")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return f.Name()
}
