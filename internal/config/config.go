package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Category names used throughout the scoring pipeline. Rules reference these
// by constant, so an unknown name in a profile is a startup error.
const (
	CategoryLeadership   = "Leadership"
	CategoryFinancial    = "Financial"
	CategoryLegal        = "Legal"
	CategoryRegulatory   = "Regulatory"
	CategoryReputational = "Reputational"
	CategoryPolitical    = "Political"
	CategoryOperational  = "Operational"
	CategoryGeopolitical = "Geopolitical"
	CategorySupplyChain  = "Supply Chain"
)

// Category defines one risk dimension: its weight in the overall score and
// the baseline it starts from ("no information", not "no risk").
type Category struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Baseline float64 `json:"baseline"`
}

// Taxonomies holds the keyword lists driving signal extraction. Entries are
// matched by case-insensitive substring containment; plural/singular variants
// must be listed explicitly.
type Taxonomies struct {
	Crisis       []string            `json:"crisis"`
	Geopolitical []string            `json:"geopolitical"`
	SupplyChain  []string            `json:"supply_chain"`
	AdverseMedia map[string][]string `json:"adverse_media"`
}

// SentimentTier maps a crisis-keyword match count (strict greater-than) to a
// derived sentiment score and signal label.
type SentimentTier struct {
	MinCount int    `json:"min_count"`
	Score    int    `json:"score"`
	Label    string `json:"label"`
}

// RiskLevel describes one band of the overall-score ladder. Min is the
// inclusive lower bound.
type RiskLevel struct {
	Min            float64 `json:"min"`
	Label          string  `json:"label"`
	Color          string  `json:"color"`
	Signal         string  `json:"signal"`
	Recommendation string  `json:"recommendation"`
}

// Thresholds collects the count/amount cutoffs used by the category scorer
// and red-flag synthesizer. All comparisons are strict greater-than.
type Thresholds struct {
	LitigationHigh       int     `json:"litigation_high"`
	LitigationElevated   int     `json:"litigation_elevated"`
	ContributionHigh     float64 `json:"contribution_high"`
	ContributionElevated float64 `json:"contribution_elevated"`
	GeoSignificant       int     `json:"geo_significant"`
	SupplySignificant    int     `json:"supply_significant"`

	// LitigationMultiplier enables the min(count*multiplier, 100) variant of
	// the legal-volume rule. Zero selects the bucket rule.
	LitigationMultiplier float64 `json:"litigation_multiplier"`
}

// Config is the immutable pipeline configuration, constructed once at process
// start and passed by reference. Nothing mutates it after Validate.
type Config struct {
	NewsWindow     int             `json:"news_window"`
	Categories     []Category      `json:"categories"`
	Taxonomies     Taxonomies      `json:"taxonomies"`
	SentimentTiers []SentimentTier `json:"sentiment_tiers"`
	RiskLevels     []RiskLevel     `json:"risk_levels"`
	Thresholds     Thresholds      `json:"thresholds"`
}

// Default returns the canonical configuration profile.
func Default() *Config {
	return &Config{
		NewsWindow: 30,
		Categories: []Category{
			{Name: CategoryLeadership, Weight: 0.15, Baseline: 15},
			{Name: CategoryFinancial, Weight: 0.20, Baseline: 15},
			{Name: CategoryLegal, Weight: 0.15, Baseline: 15},
			{Name: CategoryRegulatory, Weight: 0.10, Baseline: 10},
			{Name: CategoryReputational, Weight: 0.10, Baseline: 15},
			{Name: CategoryPolitical, Weight: 0.05, Baseline: 10},
			{Name: CategoryOperational, Weight: 0.10, Baseline: 10},
			{Name: CategoryGeopolitical, Weight: 0.10, Baseline: 10},
			{Name: CategorySupplyChain, Weight: 0.05, Baseline: 10},
		},
		Taxonomies: Taxonomies{
			Crisis: []string{
				"bankruptcy", "layoff", "layoffs", "restructuring", "delisted",
				"sec investigation", "fraud", "data breach", "hack", "cyber attack",
				"ceo resign", "cfo resign", "executive exodus", "stock crash",
				"default", "chapter 11", "chapter 7", "liquidation", "shutdown",
				"closing", "whistleblower", "scandal", "indictment", "arrested",
				"convicted", "settlement", "class action", "regulatory action",
				"fine", "penalty", "sanction",
			},
			Geopolitical: []string{
				"china", "russia", "iran", "north korea", "tariff", "trade war",
				"export control", "sanctions", "national security", "cfius",
				"foreign investment", "espionage", "intellectual property theft",
				"forced technology transfer",
			},
			SupplyChain: []string{
				"supply chain", "supplier", "shortage", "disruption",
				"single source", "manufacturing", "outsourced", "offshore",
				"vendor", "dependency",
			},
			AdverseMedia: map[string][]string{
				"criminal":          {"arrested", "convicted", "indicted", "criminal", "felony", "prison"},
				"financial_crime":   {"fraud", "embezzlement", "money laundering", "insider trading", "securities fraud"},
				"regulatory":        {"investigation", "penalty", "fine", "violation", "sanctions"},
				"litigation":        {"lawsuit", "sued", "litigation", "settlement", "plaintiff", "defendant"},
				"reputation":        {"scandal", "misconduct", "harassment", "discrimination", "allegations"},
				"financial_distress": {"bankruptcy", "default", "insolvent", "liquidation", "restructuring"},
			},
		},
		SentimentTiers: []SentimentTier{
			{MinCount: 10, Score: 85, Label: "CRITICAL: %d crisis indicators in recent news"},
			{MinCount: 5, Score: 70, Label: "HIGH: %d crisis indicators detected"},
			{MinCount: 2, Score: 55, Label: "ELEVATED: %d concerning mentions"},
		},
		RiskLevels: []RiskLevel{
			{Min: 65, Label: "CRITICAL RISK", Color: "#dc2626", Signal: "DO NOT PROCEED",
				Recommendation: "WALK AWAY. Multiple critical risk factors identified. Investment not recommended under any terms."},
			{Min: 50, Label: "HIGH RISK", Color: "#ea580c", Signal: "NOT RECOMMENDED",
				Recommendation: "HIGH CAUTION. Significant risks require mitigation or substantial price adjustment. Consider walking away."},
			{Min: 35, Label: "ELEVATED RISK", Color: "#ca8a04", Signal: "CONDITIONAL",
				Recommendation: "PROCEED WITH CAUTION. Address flagged items before closing. Enhanced due diligence required."},
			{Min: 20, Label: "MODERATE RISK", Color: "#65a30d", Signal: "PROCEED WITH MONITORING",
				Recommendation: "Acceptable risk profile. Standard due diligence sufficient with ongoing monitoring of noted items."},
			{Min: 0, Label: "LOW RISK", Color: "#16a34a", Signal: "PROCEED",
				Recommendation: "No significant concerns identified. Standard due diligence sufficient."},
		},
		Thresholds: Thresholds{
			LitigationHigh:       5,
			LitigationElevated:   2,
			ContributionHigh:     500000,
			ContributionElevated: 100000,
			GeoSignificant:       3,
			SupplySignificant:    2,
		},
	}
}

// Load reads a JSON profile on top of the default configuration. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config profile: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config profile: %w", err)
	}
	return cfg, nil
}

// Validate enforces the configuration invariants. A failure here is a code or
// profile defect and should abort startup.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.NewsWindow <= 0 {
		return errors.New("news window must be positive")
	}
	if len(c.Categories) == 0 {
		return errors.New("no risk categories configured")
	}

	known := map[string]struct{}{
		CategoryLeadership:   {},
		CategoryFinancial:    {},
		CategoryLegal:        {},
		CategoryRegulatory:   {},
		CategoryReputational: {},
		CategoryPolitical:    {},
		CategoryOperational:  {},
		CategoryGeopolitical: {},
		CategorySupplyChain:  {},
	}

	sum := 0.0
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if _, ok := known[cat.Name]; !ok {
			return fmt.Errorf("unknown risk category %q", cat.Name)
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("duplicate risk category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if cat.Weight < 0 || cat.Weight > 1 {
			return fmt.Errorf("category %q weight %.3f outside [0,1]", cat.Name, cat.Weight)
		}
		if cat.Baseline < 0 || cat.Baseline > 100 {
			return fmt.Errorf("category %q baseline %.1f outside [0,100]", cat.Name, cat.Baseline)
		}
		sum += cat.Weight
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("category weights sum to %.6f, expected 1.0", sum)
	}

	if len(c.Taxonomies.Crisis) == 0 {
		return errors.New("crisis taxonomy is empty")
	}
	if len(c.Taxonomies.Geopolitical) == 0 {
		return errors.New("geopolitical taxonomy is empty")
	}
	if len(c.Taxonomies.SupplyChain) == 0 {
		return errors.New("supply chain taxonomy is empty")
	}

	for i := 1; i < len(c.SentimentTiers); i++ {
		if c.SentimentTiers[i].MinCount >= c.SentimentTiers[i-1].MinCount {
			return errors.New("sentiment tiers must be in descending count order")
		}
	}

	if len(c.RiskLevels) == 0 {
		return errors.New("no risk levels configured")
	}
	for i, level := range c.RiskLevels {
		if level.Label == "" {
			return fmt.Errorf("risk level %d missing label", i)
		}
		if i > 0 && level.Min >= c.RiskLevels[i-1].Min {
			return errors.New("risk levels must be in descending threshold order")
		}
	}
	if c.RiskLevels[len(c.RiskLevels)-1].Min != 0 {
		return errors.New("lowest risk level must start at 0")
	}
	return nil
}

// Category returns the configuration for the named category, or false when
// the profile does not carry it.
func (c *Config) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}
