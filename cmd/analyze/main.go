package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"corp-intel/backend/internal/collect"
	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/report"
	"corp-intel/backend/internal/scoring"
)

func main() {
	target := flag.String("target", "", "company or person to analyze")
	targetType := flag.String("type", "company", "target type: company or person")
	state := flag.String("state", "", "two-letter state for person donor lookups")
	profilePath := flag.String("profile", "", "path to a JSON risk profile overriding defaults")
	outputDir := flag.String("out", "reports", "directory for generated reports")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall collection timeout")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *target == "" {
		logrus.Fatal("-target is required")
	}
	if *targetType != "company" && *targetType != "person" {
		logrus.Fatalf("invalid -type %q: want company or person", *targetType)
	}

	cfg, err := config.Load(*profilePath)
	if err != nil {
		logrus.Fatalf("load risk profile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("validate risk profile: %v", err)
	}

	collectors := &collect.Service{
		Courts:   collect.NewCourtsClient(collect.CourtsConfig{}),
		Registry: collect.NewRegistryClient(collect.RegistryConfig{
			UserAgent: os.Getenv("SEC_EDGAR_USER_AGENT"),
		}),
	}

	if client, err := collect.NewSanctionsClient(collect.SanctionsConfig{APIKey: os.Getenv("OPENSANCTIONS_API_KEY")}); err == nil {
		collectors.Sanctions = client
	} else if errors.Is(err, collect.ErrMissingSanctionsKey) {
		logrus.Warn("OPENSANCTIONS_API_KEY not set; sanctions screening skipped")
	} else {
		logrus.Fatalf("sanctions client: %v", err)
	}

	if client, err := collect.NewNewsClient(collect.NewsConfig{APIKey: os.Getenv("NEWS_API_KEY")}); err == nil {
		collectors.News = client
	} else if errors.Is(err, collect.ErrMissingNewsKey) {
		logrus.Warn("NEWS_API_KEY not set; news collection skipped")
	} else {
		logrus.Fatalf("news client: %v", err)
	}

	if client, err := collect.NewFECClient(collect.FECConfig{APIKey: os.Getenv("FEC_API_KEY")}); err == nil {
		collectors.FEC = client
	} else if errors.Is(err, collect.ErrMissingFECKey) {
		logrus.Warn("FEC_API_KEY not set; political contribution lookup skipped")
	} else {
		logrus.Fatalf("fec client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	subject := collect.Target{Name: *target, Type: *targetType, State: *state}
	logrus.WithFields(logrus.Fields{
		"target": subject.Name,
		"type":   subject.Type,
	}).Info("collecting intelligence")

	start := time.Now()
	bundle := collectors.Gather(ctx, subject)
	for source, msg := range bundle.SourceErrors {
		logrus.WithField("source", source).Warnf("degraded: %s", msg)
	}

	verdict := scoring.NewPipeline(cfg).Run(subject.Name, bundle)
	logrus.WithField("crisis_terms", verdict.Extraction.CrisisTerms()).Debug("matched crisis keywords")
	logrus.WithFields(logrus.Fields{
		"score":     verdict.OverallScore,
		"level":     verdict.RiskLevel.Label,
		"red_flags": len(verdict.RedFlags),
		"duration":  time.Since(start).Round(time.Millisecond),
	}).Info("analysis complete")

	textPath, jsonPath := report.DefaultPaths(*outputDir, subject.Name)
	if err := report.WriteText(verdict, subject.Type, textPath); err != nil {
		logrus.Fatalf("write text report: %v", err)
	}
	if err := report.WriteJSON(verdict, jsonPath); err != nil {
		logrus.Fatalf("write json report: %v", err)
	}

	fmt.Println(report.RenderText(verdict, subject.Type))
	logrus.WithFields(logrus.Fields{
		"text": textPath,
		"json": jsonPath,
	}).Info("reports written")
}
