package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"corp-intel/backend/internal/api"
	"corp-intel/backend/internal/collect"
)

func main() {
	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	sanctionsCfg := collect.SanctionsConfig{
		APIKey:  os.Getenv("OPENSANCTIONS_API_KEY"),
		BaseURL: os.Getenv("OPENSANCTIONS_BASE_URL"),
	}
	if timeout := os.Getenv("OPENSANCTIONS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			sanctionsCfg.Timeout = d
		}
	}
	if ttl := os.Getenv("OPENSANCTIONS_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			sanctionsCfg.CacheTTL = d
		}
	}

	newsCfg := collect.NewsConfig{
		APIKey:  os.Getenv("NEWS_API_KEY"),
		BaseURL: os.Getenv("NEWS_API_BASE_URL"),
	}
	if timeout := os.Getenv("NEWS_API_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			newsCfg.Timeout = d
		}
	}

	courtsCfg := collect.CourtsConfig{
		BaseURL: os.Getenv("COURTLISTENER_BASE_URL"),
	}
	if timeout := os.Getenv("COURTLISTENER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			courtsCfg.Timeout = d
		}
	}

	registryCfg := collect.RegistryConfig{
		BaseURL:   os.Getenv("SEC_EDGAR_BASE_URL"),
		UserAgent: os.Getenv("SEC_EDGAR_USER_AGENT"),
	}
	if timeout := os.Getenv("SEC_EDGAR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			registryCfg.Timeout = d
		}
	}

	fecCfg := collect.FECConfig{
		APIKey:  os.Getenv("FEC_API_KEY"),
		BaseURL: os.Getenv("FEC_BASE_URL"),
	}
	if timeout := os.Getenv("FEC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			fecCfg.Timeout = d
		}
	}

	cfg := api.Config{
		DBPath:      filepath.Join(dataDir, "corp-intel.db"),
		ProfilePath: strings.TrimSpace(os.Getenv("RISK_PROFILE_PATH")),
		AllowedOrigins: []string{
			"http://localhost:1000",
			"http://127.0.0.1:1000",
		},
		SanctionsConfig: sanctionsCfg,
		NewsConfig:      newsCfg,
		CourtsConfig:    courtsCfg,
		FECConfig:       fecCfg,
		RegistryConfig:  registryCfg,
	}

	if override := strings.TrimSpace(os.Getenv("CORP_INTEL_DB_PATH")); override != "" {
		cfg.DBPath = override
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting corp-intel backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
