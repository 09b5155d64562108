package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"corp-intel/backend/internal/collect"
	"corp-intel/backend/internal/config"
	"corp-intel/backend/internal/scoring"
	"corp-intel/backend/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath          string
	ProfilePath     string
	AllowedOrigins  []string
	SilentDB        bool
	SanctionsConfig collect.SanctionsConfig
	NewsConfig      collect.NewsConfig
	CourtsConfig    collect.CourtsConfig
	FECConfig       collect.FECConfig
	RegistryConfig  collect.RegistryConfig
}

// Server wires HTTP handlers with persistence, collection and scoring.
type Server struct {
	db             *store.Database
	cfg            *config.Config
	profilePath    string
	pipeline       *scoring.Pipeline
	collectors     *collect.Service
	allowedOrigins []string
	notifier       *AnalysisNotifier
	jobMu          sync.Mutex
	activeJob      *analysisJob
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	profile, err := config.Load(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load risk profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("validate risk profile: %w", err)
	}

	collectors := &collect.Service{
		Courts:   collect.NewCourtsClient(cfg.CourtsConfig),
		Registry: collect.NewRegistryClient(cfg.RegistryConfig),
	}

	if client, err := collect.NewSanctionsClient(cfg.SanctionsConfig); err == nil {
		collectors.Sanctions = client
	} else if errors.Is(err, collect.ErrMissingSanctionsKey) {
		logrus.Info("sanctions screening disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("sanctions client: %w", err)
	}

	if client, err := collect.NewNewsClient(cfg.NewsConfig); err == nil {
		collectors.News = client
	} else if errors.Is(err, collect.ErrMissingNewsKey) {
		logrus.Info("news collection disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("news client: %w", err)
	}

	if client, err := collect.NewFECClient(cfg.FECConfig); err == nil {
		collectors.FEC = client
	} else if errors.Is(err, collect.ErrMissingFECKey) {
		logrus.Info("political contribution lookup disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("fec client: %w", err)
	}

	return &Server{
		db:             db,
		cfg:            profile,
		profilePath:    cfg.ProfilePath,
		pipeline:       scoring.NewPipeline(profile),
		collectors:     collectors,
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewAnalysisNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyze/status", s.handleAnalyzeStatus)
		api.DELETE("/analyze/:jobID", s.handleCancelAnalyze)
		api.GET("/analyze/stream", s.handleAnalyzeStream)
		api.GET("/dossiers", s.handleListDossiers)
		api.GET("/dossiers/:id", s.handleGetDossier)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	count, err := s.db.CountDossiers()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	categories := make([]gin.H, 0, len(s.cfg.Categories))
	for _, cat := range s.cfg.Categories {
		categories = append(categories, gin.H{
			"name":     cat.Name,
			"weight":   cat.Weight,
			"baseline": cat.Baseline,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_path": s.profilePath,
		"categories":   categories,
		"news_window":  s.cfg.NewsWindow,
		"sources": gin.H{
			"sanctions":     s.collectors.Sanctions != nil,
			"news":          s.collectors.News != nil,
			"court_records": s.collectors.Courts != nil,
			"fec_donations": s.collectors.FEC != nil,
			"registry":      s.collectors.Registry != nil,
		},
		"dossier_count": count,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	target := collect.Target{
		Name:  strings.TrimSpace(req.Target),
		Type:  strings.ToLower(strings.TrimSpace(req.TargetType)),
		State: strings.TrimSpace(req.State),
	}
	if target.Name == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("target is required"))
		return
	}
	if target.Type == "" {
		target.Type = "company"
	}
	if target.Type != "company" && target.Type != "person" {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid target_type: %s", target.Type))
		return
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.activeJob != nil {
		s.renderError(c, http.StatusConflict, errors.New("analysis already running"))
		return
	}

	job, err := s.startAnalysis(target)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusAccepted, StartAnalysisResponse{
		JobID:     job.id,
		Target:    target.Name,
		RequestID: job.requestID,
		StartedAt: job.startedAt,
	})
}

func (s *Server) handleCancelAnalyze(c *gin.Context) {
	jobID := strings.TrimSpace(c.Param("jobID"))
	if jobID == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("job id required"))
		return
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.activeJob == nil {
		s.renderError(c, http.StatusNotFound, errors.New("no analysis running"))
		return
	}
	if s.activeJob.id != jobID {
		s.renderError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}

	s.cancelAnalysis()
	logrus.WithField("job", jobID).Info("analysis cancellation requested")

	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

func (s *Server) handleAnalyzeStatus(c *gin.Context) {
	s.jobMu.Lock()
	job := s.activeJob
	s.jobMu.Unlock()

	status := s.notifier.LastStatus()

	resp := AnalyzeStatusResponse{Running: job != nil}
	if job != nil {
		resp.JobID = job.id
		resp.Target = job.target.Name
	}
	if status != nil {
		resp.State = status.Type
		if status.Stage != "" {
			resp.State = status.Stage
		}
		resp.Message = status.Message
		if resp.Target == "" {
			resp.Target = status.Target
		}
	}

	if job == nil {
		if rows, _, err := s.db.ListDossiers(store.DossierQuery{Limit: 1}); err == nil && len(rows) > 0 {
			dto := FromModel(rows[0], false)
			resp.LastDossier = &dto
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAnalyzeStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket closed")
			} else {
				logrus.WithError(err).Warn("analysis websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) handleListDossiers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}
	minScore, _ := strconv.ParseFloat(strings.TrimSpace(c.Query("minScore")), 64)

	rows, total, err := s.db.ListDossiers(store.DossierQuery{
		Target:   strings.TrimSpace(c.Query("q")),
		Level:    strings.TrimSpace(c.Query("level")),
		MinScore: minScore,
		Offset:   page * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DossierDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row, false))
	}
	c.JSON(http.StatusOK, DossiersResponse{Items: dtos, Total: total})
}

func (s *Server) handleGetDossier(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	dossier, err := s.db.GetDossier(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("dossier %d not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}

	c.JSON(http.StatusOK, FromModel(*dossier, true))
}

func (s *Server) handleExportCSV(c *gin.Context) {
	rows, _, err := s.db.ListDossiers(store.DossierQuery{
		Target: strings.TrimSpace(c.Query("q")),
		Level:  strings.TrimSpace(c.Query("level")),
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=corp-intel-export.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := []string{"target", "target_type", "overall_score", "risk_level", "signal", "confidence", "red_flag_count", "sentiment_score", "created_at"}
	if err := writer.Write(headers); err != nil {
		return
	}
	for _, row := range rows {
		line := []string{
			row.Target,
			row.TargetType,
			fmt.Sprintf("%.1f", row.OverallScore),
			row.RiskLevel,
			row.Signal,
			row.Confidence,
			strconv.Itoa(row.RedFlagCount),
			strconv.Itoa(row.SentimentScore),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	rows, _, err := s.db.ListDossiers(store.DossierQuery{
		Target: strings.TrimSpace(c.Query("q")),
		Level:  strings.TrimSpace(c.Query("level")),
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DossierDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row, true))
	}
	c.Header("Content-Disposition", "attachment; filename=corp-intel-export.json")
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}
