package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Dossier{}, &AnalysisRequest{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveDossier persists a completed analysis run as a new row.
func (d *Database) SaveDossier(dossier *Dossier) error {
	if dossier == nil {
		return errors.New("dossier is nil")
	}
	dossier.Target = strings.TrimSpace(dossier.Target)
	dossier.TargetKey = normalizeTargetKey(dossier.Target)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(dossier).Error
}

// GetDossier fetches a dossier by ID.
func (d *Database) GetDossier(id uint) (*Dossier, error) {
	var dossier Dossier
	if err := d.gorm.First(&dossier, id).Error; err != nil {
		return nil, err
	}
	return &dossier, nil
}

// DossierQuery encapsulates filters and pagination for listing dossiers.
type DossierQuery struct {
	Target   string
	Level    string
	MinScore float64
	Offset   int
	Limit    int
}

// ListDossiers returns paginated dossier rows applying optional filters,
// newest first.
func (d *Database) ListDossiers(opts DossierQuery) ([]Dossier, int64, error) {
	query := d.gorm.Model(&Dossier{})
	if target := strings.TrimSpace(opts.Target); target != "" {
		query = query.Where("target_key LIKE ?", "%"+normalizeTargetKey(target)+"%")
	}
	if level := strings.TrimSpace(opts.Level); level != "" {
		query = query.Where("risk_level = ?", level)
	}
	if opts.MinScore > 0 {
		query = query.Where("overall_score >= ?", opts.MinScore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if opts.Limit > 0 {
		query = query.Offset(opts.Offset).Limit(opts.Limit)
	}

	var rows []Dossier
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountDossiers returns the stored dossier count.
func (d *Database) CountDossiers() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Dossier{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAnalysisRequest records a new analysis job.
func (d *Database) CreateAnalysisRequest(target, jobID, status string) (*AnalysisRequest, error) {
	request := &AnalysisRequest{
		Target: strings.TrimSpace(target),
		JobID:  jobID,
		Status: status,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.gorm.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// UpdateAnalysisRequest sets the terminal status of an analysis job.
func (d *Database) UpdateAnalysisRequest(id uint, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Model(&AnalysisRequest{}).Where("id = ?", id).Update("status", status).Error
}
