package scoring

import "corp-intel/backend/internal/config"

// RiskLevel is the classification of the overall score, carrying the display
// colour, investment signal and recommendation text for its band.
type RiskLevel struct {
	Label          string `json:"label"`
	Color          string `json:"color"`
	Signal         string `json:"signal"`
	Recommendation string `json:"recommendation"`
}

// Aggregate combines category scores into the overall 0-100 score via the
// declared weights. Pure and deterministic: identical inputs always yield
// the identical weighted sum, unrounded.
func Aggregate(categories []CategoryScore) float64 {
	total := 0.0
	for _, cat := range categories {
		total += cat.Score * cat.Weight
	}
	return total
}

// Classify maps the overall score onto the configured risk-level ladder.
// Band boundaries are inclusive on the lower bound.
func Classify(cfg *config.Config, overall float64) RiskLevel {
	for _, band := range cfg.RiskLevels {
		if overall >= band.Min {
			return RiskLevel{
				Label:          band.Label,
				Color:          band.Color,
				Signal:         band.Signal,
				Recommendation: band.Recommendation,
			}
		}
	}
	last := cfg.RiskLevels[len(cfg.RiskLevels)-1]
	return RiskLevel{
		Label:          last.Label,
		Color:          last.Color,
		Signal:         last.Signal,
		Recommendation: last.Recommendation,
	}
}
