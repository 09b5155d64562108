package scoring

import (
	"fmt"
	"math"

	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/intel"
)

// CategoryScore is one row of the risk matrix: the category name, its score
// in [0,100], its weight in the overall aggregate, and the human-readable
// factors explaining every raise.
type CategoryScore struct {
	Name    string   `json:"name"`
	Score   float64  `json:"score"`
	Weight  float64  `json:"weight"`
	Factors []string `json:"factors"`
}

// categorySet tracks scores by name during rule evaluation while preserving
// the configured category order for output.
type categorySet struct {
	order  []string
	scores map[string]*CategoryScore
}

func newCategorySet(cfg *config.Config) *categorySet {
	set := &categorySet{scores: make(map[string]*CategoryScore, len(cfg.Categories))}
	for _, cat := range cfg.Categories {
		set.order = append(set.order, cat.Name)
		set.scores[cat.Name] = &CategoryScore{
			Name:    cat.Name,
			Score:   cat.Baseline,
			Weight:  cat.Weight,
			Factors: []string{},
		}
	}
	return set
}

// raise lifts a category to at least value and records the factor. Scores are
// monotonic non-decreasing: a later, smaller signal never lowers an earlier
// raise.
func (s *categorySet) raise(name string, value float64, factor string) {
	cat, ok := s.scores[name]
	if !ok {
		return
	}
	if value > cat.Score {
		cat.Score = value
	}
	if factor != "" {
		cat.Factors = append(cat.Factors, factor)
	}
}

// override pins a category to an exact value regardless of prior raises.
func (s *categorySet) override(name string, value float64, factor string) {
	cat, ok := s.scores[name]
	if !ok {
		return
	}
	cat.Score = value
	if factor != "" {
		cat.Factors = append(cat.Factors, factor)
	}
}

func (s *categorySet) list() []CategoryScore {
	out := make([]CategoryScore, 0, len(s.order))
	for _, name := range s.order {
		cat := *s.scores[name]
		cat.Score = clampScore(cat.Score)
		out = append(out, cat)
	}
	return out
}

func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// ScoreCategories maps the tagged signal set and raw provider counts onto
// the configured risk categories. Every category starts at its baseline and
// is only raised by matching conditions; the sanctions override is the sole
// exception and pins Regulatory to exactly 100.
func ScoreCategories(cfg *config.Config, ext intel.Extraction, bundle intel.ProviderBundle) []CategoryScore {
	set := newCategorySet(cfg)
	th := cfg.Thresholds

	if ext.SentimentScore >= 80 {
		set.raise(config.CategoryReputational, 90, "CRITICAL: Major crisis detected in news")
		set.raise(config.CategoryOperational, 75, "")
		set.raise(config.CategoryFinancial, 80, "")
	} else if ext.SentimentScore >= 65 {
		set.raise(config.CategoryReputational, 70, "HIGH: Significant negative news coverage")
		set.raise(config.CategoryOperational, 55, "")
	}

	if ext.HasCrisisTerm("bankruptcy", "chapter 11", "chapter 7") {
		set.raise(config.CategoryFinancial, 95, "CRITICAL: Bankruptcy indicators")
	}

	if ext.HasCrisisTerm("data breach", "hack", "cyber attack") {
		set.raise(config.CategoryOperational, 75, "Cybersecurity incident detected")
		set.raise(config.CategoryRegulatory, 65, "")
	}

	if ext.HasCrisisTerm("ceo resign", "cfo resign", "executive exodus") {
		set.raise(config.CategoryLeadership, 80, "Executive departure/instability")
	}

	if ext.HasCrisisTerm("sec investigation", "fraud", "indictment", "convicted") {
		set.raise(config.CategoryRegulatory, 90, "CRITICAL: Regulatory/criminal investigation")
		set.raise(config.CategoryLegal, 85, "")
	}

	if ext.HasCrisisTerm("layoff", "layoffs", "restructuring") {
		set.raise(config.CategoryOperational, 55, "Workforce restructuring underway")
	}

	if ext.GeoCount > 0 {
		set.raise(config.CategoryGeopolitical, 65, "International exposure concerns")
		if ext.HasGeoTerm("china") {
			set.raise(config.CategoryGeopolitical, 75, "China-related risk exposure")
		}
	}

	if ext.SupplyCount > 0 {
		set.raise(config.CategorySupplyChain, 60, "Supply chain vulnerabilities noted")
	}

	litigation := len(bundle.Litigation)
	if th.LitigationMultiplier > 0 {
		if litigation > 0 {
			value := math.Min(float64(litigation)*th.LitigationMultiplier, 100)
			set.raise(config.CategoryLegal, value, fmt.Sprintf("%d litigation matters", litigation))
		}
	} else if litigation > th.LitigationHigh {
		set.raise(config.CategoryLegal, 75, fmt.Sprintf("%d litigation matters", litigation))
	} else if litigation > th.LitigationElevated {
		set.raise(config.CategoryLegal, 50, fmt.Sprintf("%d litigation matters", litigation))
	}

	amount := bundle.Donations.TotalAmount
	if amount > th.ContributionHigh {
		set.raise(config.CategoryPolitical, 75, fmt.Sprintf("%s political contributions", FormatAmount(amount)))
	} else if amount > th.ContributionElevated {
		set.raise(config.CategoryPolitical, 50, fmt.Sprintf("%s political contributions", FormatAmount(amount)))
	}

	// A sanctions match is an unconditional regulatory override.
	if bundle.Sanctions.Count > 0 {
		set.override(config.CategoryRegulatory, 100, "SANCTIONS MATCH")
	}

	return set.list()
}

// FormatAmount renders a currency amount as "$1,234,567" (no decimals).
func FormatAmount(amount float64) string {
	whole := int64(math.Round(amount))
	negative := whole < 0
	if negative {
		whole = -whole
	}
	digits := fmt.Sprintf("%d", whole)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if negative {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
