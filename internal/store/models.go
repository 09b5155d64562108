package store

import (
	"encoding/json"
	"strings"
	"time"

	"corp-intel/backend/internal/scoring"
)

// Dossier is a completed analysis run persisted for listing and export. The
// full verdict is stored as a JSON blob; the scalar columns exist for
// filtering and sorting.
type Dossier struct {
	ID             uint   `gorm:"primaryKey"`
	Target         string `gorm:"size:255;index"`
	TargetKey      string `gorm:"size:255;index"`
	TargetType     string `gorm:"size:16"`
	State          string `gorm:"size:8"`
	OverallScore   float64
	RiskLevel      string `gorm:"size:32;index"`
	Signal         string `gorm:"size:64"`
	Confidence     string `gorm:"size:16"`
	RedFlagCount   int
	SentimentScore int
	VerdictJSON    string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// SetVerdict stores the verdict document as JSON.
func (d *Dossier) SetVerdict(verdict scoring.RiskVerdict) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	d.VerdictJSON = string(payload)
	return nil
}

// Verdict returns the unmarshalled verdict, or false when the blob is
// missing or corrupt.
func (d *Dossier) Verdict() (scoring.RiskVerdict, bool) {
	if strings.TrimSpace(d.VerdictJSON) == "" {
		return scoring.RiskVerdict{}, false
	}
	var verdict scoring.RiskVerdict
	if err := json.Unmarshal([]byte(d.VerdictJSON), &verdict); err != nil {
		return scoring.RiskVerdict{}, false
	}
	return verdict, true
}

// AnalysisRequest tracks one asynchronous analysis job.
type AnalysisRequest struct {
	ID        uint   `gorm:"primaryKey"`
	Target    string `gorm:"size:255;index"`
	JobID     string `gorm:"size:64;index"`
	Status    string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func normalizeTargetKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}
