package scoring

import (
	"fmt"

	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/intel"
)

// Severity ranks a red flag.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// RedFlag is a structured adverse finding. Immutable once created; the list
// order follows the fixed detection order below.
type RedFlag struct {
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Finding        string   `json:"finding"`
	BusinessImpact string   `json:"business_impact"`
	Action         string   `json:"action"`
}

// SynthesizeFlags applies the threshold rules to the tagged signal set and
// raw provider counts. Conditions are independent and may co-occur, but no
// condition emits more than one flag per run. Detection order: sanctions,
// financial, regulatory/legal, reputational/operational, political,
// geopolitical.
func SynthesizeFlags(cfg *config.Config, ext intel.Extraction, bundle intel.ProviderBundle) []RedFlag {
	var flags []RedFlag
	th := cfg.Thresholds

	if bundle.Sanctions.Count > 0 {
		flags = append(flags, RedFlag{
			Severity: SeverityCritical,
			Category: "Sanctions",
			Finding:  "POTENTIAL MATCH ON GLOBAL SANCTIONS LIST",
			BusinessImpact: "IMMEDIATE STOP. Engaging with sanctioned entities creates criminal liability for all transaction parties. " +
				"Penalties include: imprisonment up to 20 years, fines of $1M+ per violation, and permanent reputational damage.",
			Action: "CEASE ALL ACTIVITY. Engage OFAC counsel immediately. Do not proceed under any circumstances until cleared.",
		})
	}

	if ext.HasCrisisTerm("bankruptcy", "chapter 11", "chapter 7") {
		flags = append(flags, RedFlag{
			Severity: SeverityCritical,
			Category: "Financial",
			Finding:  "Bankruptcy or insolvency indicators in recent news",
			BusinessImpact: "Company may be insolvent or entering bankruptcy proceedings. All unsecured investments likely to result " +
				"in total loss. Secured positions may face significant impairment.",
			Action: "Do not invest. If existing exposure, engage restructuring counsel immediately.",
		})
	}

	if ext.HasCrisisTerm("sec investigation", "fraud", "indictment", "convicted") {
		flags = append(flags, RedFlag{
			Severity: SeverityCritical,
			Category: "Legal/Regulatory",
			Finding:  "Regulatory investigation or fraud allegations",
			BusinessImpact: "SEC investigations result in average settlements of $50M+ for public companies. Criminal indictments can " +
				"trigger immediate contract terminations, bank covenant violations, and management distraction lasting 2-4 years.",
			Action: "HALT investment. Engage securities litigation counsel for exposure assessment.",
		})
	}

	if count := len(bundle.Litigation); count > th.LitigationHigh {
		flags = append(flags, RedFlag{
			Severity: SeverityHigh,
			Category: "Legal",
			Finding:  fmt.Sprintf("%d litigation matters identified", count),
			BusinessImpact: "High litigation volume indicates potential operational issues, regulatory non-compliance, or aggressive " +
				"business practices. Each active case represents legal cost of $50K-$500K+ and management distraction.",
			Action: "Request litigation schedule with exposure estimates. Identify patterns (employment, IP, contract, regulatory).",
		})
	}

	if ext.SentimentScore >= 80 {
		flags = append(flags, RedFlag{
			Severity: SeverityCritical,
			Category: "Corporate Crisis",
			Finding:  "Multiple crisis indicators detected in current news coverage",
			BusinessImpact: "Company appears to be in active crisis. News analysis shows bankruptcy, regulatory action, or major " +
				"operational failure indicators. Investment at this time carries extreme risk of total loss.",
			Action: "HALT all investment activity. If already invested, engage crisis management and exit strategy teams immediately.",
		})
	}

	if ext.HasCrisisTerm("data breach", "hack", "cyber attack") {
		flags = append(flags, RedFlag{
			Severity: SeverityHigh,
			Category: "Cybersecurity",
			Finding:  "Data breach or cyber attack reported",
			BusinessImpact: "Cybersecurity incidents typically result in: regulatory fines ($10M-$500M+ for major breaches), class " +
				"action litigation, customer churn (15-25%), and long-term brand damage. GDPR/CCPA exposure if consumer data involved.",
			Action: "Request incident response report, quantify affected records, assess regulatory exposure by jurisdiction.",
		})
	}

	if ext.HasCrisisTerm("ceo resign", "cfo resign", "executive exodus") {
		flags = append(flags, RedFlag{
			Severity: SeverityHigh,
			Category: "Leadership",
			Finding:  "Executive leadership changes or departures",
			BusinessImpact: "C-suite departures often precede disclosure of material issues. 67% of sudden CEO departures are followed " +
				"by negative earnings surprises within 2 quarters. Institutional knowledge loss impacts operational continuity.",
			Action: "Investigate circumstances of departure. Review D&O insurance. Assess bench strength and succession planning.",
		})
	}

	if amount := bundle.Donations.TotalAmount; amount > th.ContributionHigh {
		flags = append(flags, RedFlag{
			Severity: SeverityMedium,
			Category: "Political",
			Finding:  fmt.Sprintf("%s in political contributions", FormatAmount(amount)),
			BusinessImpact: "Heavy political spending indicates regulatory dependencies. Administration changes can impact: government " +
				"contracts, regulatory approvals, tax treatment, and subsidy eligibility. Also creates PR risk if contributions become controversial.",
			Action: "Map regulatory dependencies. Stress test business model against policy change scenarios.",
		})
	}

	if ext.GeoCount > 0 && ext.HasGeoTerm("china") {
		flags = append(flags, RedFlag{
			Severity: SeverityMedium,
			Category: "Geopolitical",
			Finding:  "China-related business exposure identified",
			BusinessImpact: "China exposure creates: tariff risk, IP theft concerns, CFIUS review requirements for M&A, potential " +
				"sanctions/export control issues, and ESG concerns for some institutional investors.",
			Action: "Map China revenue/supply chain dependency. Assess CFIUS implications. Review export control compliance.",
		})
	}

	return flags
}
