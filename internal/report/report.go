package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"corp-intel/backend/internal/scoring"
)

const divider = "============================================================"

// WriteText renders the intelligence-dossier text report to path.
func WriteText(verdict scoring.RiskVerdict, targetType, path string) error {
	content := RenderText(verdict, targetType)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

// WriteJSON writes the verdict as an indented JSON document to path.
func WriteJSON(verdict scoring.RiskVerdict, path string) error {
	payload, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

// RenderText builds the full text report body.
func RenderText(verdict scoring.RiskVerdict, targetType string) string {
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("INTELLIGENCE DOSSIER\n")
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "Target: %s\n", verdict.Target)
	fmt.Fprintf(&b, "Type: %s\n", titleCase(targetType))
	fmt.Fprintf(&b, "Report Date: %s\n\n", time.Now().Format("2006-01-02"))

	b.WriteString("RISK ASSESSMENT\n")
	b.WriteString("---------------\n")
	fmt.Fprintf(&b, "Overall Score: %.0f/100\n", verdict.OverallScore)
	fmt.Fprintf(&b, "Risk Level: %s\n", verdict.RiskLevel.Label)
	fmt.Fprintf(&b, "Signal: %s\n", verdict.RiskLevel.Signal)
	fmt.Fprintf(&b, "Recommendation: %s\n", verdict.RiskLevel.Recommendation)
	fmt.Fprintf(&b, "Confidence: %s\n\n", verdict.Assessment.Confidence)

	b.WriteString("ANALYST NARRATIVE\n")
	b.WriteString("-----------------\n")
	b.WriteString(verdict.Assessment.Narrative + "\n\n")

	fmt.Fprintf(&b, "RED FLAGS (%d)\n", len(verdict.RedFlags))
	b.WriteString("-------------\n")
	if len(verdict.RedFlags) == 0 {
		b.WriteString("None identified.\n")
	}
	for _, flag := range verdict.RedFlags {
		fmt.Fprintf(&b, "[%s] %s: %s\n", flag.Severity, flag.Category, flag.Finding)
		fmt.Fprintf(&b, "  Business Impact: %s\n", flag.BusinessImpact)
		fmt.Fprintf(&b, "  Recommended Action: %s\n", flag.Action)
	}
	b.WriteString("\n")

	if verdict.Registry.Found {
		b.WriteString("CORPORATE REGISTRY\n")
		b.WriteString("------------------\n")
		fmt.Fprintf(&b, "Registered Name: %s\n", verdict.Registry.Name)
		fmt.Fprintf(&b, "CIK: %s\n", verdict.Registry.CIK)
		if verdict.Registry.SICDescription != "" {
			fmt.Fprintf(&b, "Industry: %s\n", verdict.Registry.SICDescription)
		}
		if verdict.Registry.StateOfIncorporation != "" {
			fmt.Fprintf(&b, "State of Incorporation: %s\n", verdict.Registry.StateOfIncorporation)
		}
		if len(verdict.Registry.Tickers) > 0 {
			fmt.Fprintf(&b, "Tickers: %s\n", strings.Join(verdict.Registry.Tickers, ", "))
		}
		if len(verdict.Registry.FormerNames) > 0 {
			fmt.Fprintf(&b, "Former Names: %s\n", strings.Join(verdict.Registry.FormerNames, ", "))
		}
		if len(verdict.Registry.Filings) > 0 {
			b.WriteString("Recent Filings:\n")
			for _, filing := range verdict.Registry.Filings {
				fmt.Fprintf(&b, "  %s: %s - %s\n", filing.FiledAt, filing.FormType, filing.Description)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("RISK MATRIX\n")
	b.WriteString("-----------\n")
	for _, cat := range verdict.Categories {
		fmt.Fprintf(&b, "%-14s %5.0f/100 (weight %.2f)\n", cat.Name, cat.Score, cat.Weight)
		for _, factor := range cat.Factors {
			fmt.Fprintf(&b, "    - %s\n", factor)
		}
	}
	b.WriteString("\n")

	if len(verdict.Extraction.KeyItems) > 0 {
		b.WriteString("KEY NEWS INTELLIGENCE\n")
		b.WriteString("---------------------\n")
		for _, item := range verdict.Extraction.KeyItems {
			fmt.Fprintf(&b, "%s\n", item.Title)
			fmt.Fprintf(&b, "  %s | %s | Flags: %s\n", item.Source, item.Date, strings.Join(item.Flags, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString(divider + "\n")
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DefaultPaths derives report file paths for a target under outputDir,
// stamped with the current time.
func DefaultPaths(outputDir, target string) (textPath, jsonPath string) {
	safe := strings.ReplaceAll(strings.TrimSpace(target), " ", "_")
	safe = strings.ReplaceAll(safe, ",", "")
	if len(safe) > 30 {
		safe = safe[:30]
	}
	stamp := time.Now().Format("20060102_150405")
	base := filepath.Join(outputDir, fmt.Sprintf("report_%s_%s", safe, stamp))
	return base + "_report.txt", base + ".json"
}
