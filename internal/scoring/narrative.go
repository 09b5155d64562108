package scoring

import (
	"fmt"
	"strings"

	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/intel"
)

// Confidence grades the assessment.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Assessment is the analyst-style synthesis of the signal set: a prose
// narrative plus the structured concern and risk-factor lists behind it.
type Assessment struct {
	Narrative   string     `json:"narrative"`
	KeyConcerns []string   `json:"key_concerns"`
	RiskFactors []string   `json:"risk_factors"`
	Confidence  Confidence `json:"confidence"`
}

// BuildAssessment assembles the narrative from one sentence fragment per
// active condition, in fixed priority order. With nothing active it emits
// the no-adverse-indicators fallback. Confidence is HIGH only when a
// sanctions match is present.
func BuildAssessment(cfg *config.Config, target string, ext intel.Extraction, bundle intel.ProviderBundle) Assessment {
	assessment := Assessment{
		KeyConcerns: []string{},
		RiskFactors: []string{},
		Confidence:  ConfidenceMedium,
	}
	var parts []string
	th := cfg.Thresholds

	if bundle.Sanctions.Count > 0 {
		parts = append(parts, fmt.Sprintf("CRITICAL: %s has potential matches on global sanctions lists. All engagement must cease pending legal review.", target))
		assessment.KeyConcerns = append(assessment.KeyConcerns, "Sanctions exposure - potential criminal liability")
		assessment.Confidence = ConfidenceHigh
	}

	if len(ext.CrisisSignals) > 0 {
		parts = append(parts, fmt.Sprintf("Current media analysis indicates %s is experiencing significant operational distress. %s.", target, ext.CrisisSignals[0]))
		assessment.KeyConcerns = append(assessment.KeyConcerns, ext.CrisisSignals...)
	}

	if ext.HasCrisisTerm("bankruptcy", "chapter 11") {
		parts = append(parts, "CRITICAL: Bankruptcy indicators detected in recent news coverage. Company may be insolvent or approaching insolvency.")
		assessment.KeyConcerns = append(assessment.KeyConcerns, "Bankruptcy/insolvency risk")
	}

	if ext.HasCrisisTerm("data breach", "hack") {
		parts = append(parts, "ELEVATED RISK: Cybersecurity incident detected. Potential regulatory fines, litigation, and reputational damage.")
		assessment.KeyConcerns = append(assessment.KeyConcerns, "Cybersecurity/data breach exposure")
	}

	if ext.HasCrisisTerm("layoff", "layoffs") {
		parts = append(parts, "Company is undergoing workforce reduction, indicating financial pressure or strategic restructuring.")
		assessment.RiskFactors = append(assessment.RiskFactors, "Workforce instability")
	}

	if ext.HasCrisisTerm("sec investigation", "fraud") {
		parts = append(parts, "CRITICAL: Regulatory investigation or fraud allegations detected. Significant legal and financial exposure.")
		assessment.KeyConcerns = append(assessment.KeyConcerns, "Regulatory/fraud investigation")
	}

	if ext.HasCrisisTerm("ceo resign", "executive exodus") {
		parts = append(parts, "Leadership instability detected. Executive departures often precede or indicate deeper organizational issues.")
		assessment.KeyConcerns = append(assessment.KeyConcerns, "Leadership instability")
	}

	if len(ext.GeoRisks) > 0 {
		parts = append(parts, fmt.Sprintf("Geopolitical exposure identified: %s. Consider regulatory and market access risks.", strings.Join(ext.GeoRisks, ", ")))
		assessment.RiskFactors = append(assessment.RiskFactors, ext.GeoRisks...)
	}

	if len(ext.SupplyRisks) > 0 {
		parts = append(parts, fmt.Sprintf("Supply chain vulnerabilities noted: %s. Assess concentration and disruption risk.", strings.Join(ext.SupplyRisks, ", ")))
		assessment.RiskFactors = append(assessment.RiskFactors, ext.SupplyRisks...)
	}

	if count := len(bundle.Litigation); count > th.LitigationHigh {
		parts = append(parts, fmt.Sprintf("Significant litigation history with %d court records identified. Pattern analysis recommended.", count))
		assessment.RiskFactors = append(assessment.RiskFactors, fmt.Sprintf("Litigation exposure (%d cases)", count))
	}

	if amount := bundle.Donations.TotalAmount; amount > th.ContributionElevated {
		parts = append(parts, fmt.Sprintf("Substantial political activity (%s in contributions) indicates regulatory relationships and potential policy exposure.", FormatAmount(amount)))
		assessment.RiskFactors = append(assessment.RiskFactors, "Political/regulatory exposure")
	}

	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("No significant adverse indicators identified for %s in current analysis. Standard due diligence procedures recommended.", target))
	}

	assessment.Narrative = strings.Join(parts, " ")
	return assessment
}
