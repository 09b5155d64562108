package scoring

import (
	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/intel"
)

// RiskVerdict is the complete output of one analysis run: the weighted
// overall score, its classification, the category breakdown, the red-flag
// list and the analyst assessment. Constructed once per run, never mutated,
// and serializable to a plain JSON document without loss.
type RiskVerdict struct {
	Target       string                `json:"target"`
	OverallScore float64               `json:"overall_score"`
	RiskLevel    RiskLevel             `json:"risk_level"`
	Categories   []CategoryScore       `json:"categories"`
	RedFlags     []RedFlag             `json:"red_flags"`
	Assessment   Assessment            `json:"assessment"`
	Extraction   intel.Extraction      `json:"extraction"`
	Registry     intel.RegistryProfile `json:"registry"`
}

// Pipeline runs signal extraction, category scoring, weighted aggregation
// and red-flag/narrative synthesis as one sequential chain. Safe for
// concurrent use: it holds only the immutable configuration.
type Pipeline struct {
	cfg       *config.Config
	extractor *intel.Extractor
}

// NewPipeline binds a pipeline to a validated configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, extractor: intel.NewExtractor(cfg)}
}

// Run converts raw provider results into a risk verdict. It never fails:
// missing or degraded provider data scores at category baselines and yields
// a valid, low-signal verdict.
func (p *Pipeline) Run(target string, bundle intel.ProviderBundle) RiskVerdict {
	ext := p.extractor.Extract(bundle)
	categories := ScoreCategories(p.cfg, ext, bundle)
	overall := Aggregate(categories)

	return RiskVerdict{
		Target:       target,
		OverallScore: overall,
		RiskLevel:    Classify(p.cfg, overall),
		Categories:   categories,
		RedFlags:     SynthesizeFlags(p.cfg, ext, bundle),
		Assessment:   BuildAssessment(p.cfg, target, ext, bundle),
		Extraction:   ext,
		Registry:     bundle.Registry,
	}
}
