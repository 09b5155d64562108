package api

import (
	"time"

	"corp-intel/backend/internal/scoring"
	"corp-intel/backend/internal/store"
)

// AnalyzeRequest identifies the subject of a new analysis run.
type AnalyzeRequest struct {
	Target     string `json:"target"`
	TargetType string `json:"target_type"`
	State      string `json:"state"`
}

// StartAnalysisResponse describes the asynchronous analysis kickoff payload.
type StartAnalysisResponse struct {
	JobID     string    `json:"job_id"`
	Target    string    `json:"target"`
	RequestID uint      `json:"request_id"`
	StartedAt time.Time `json:"started_at"`
}

// AnalyzeStatusResponse summarises the active (or last) analysis job.
type AnalyzeStatusResponse struct {
	Running     bool        `json:"running"`
	JobID       string      `json:"job_id,omitempty"`
	Target      string      `json:"target,omitempty"`
	State       string      `json:"state,omitempty"`
	Message     string      `json:"message,omitempty"`
	LastDossier *DossierDTO `json:"last_dossier,omitempty"`
}

// DossierDTO is the API representation for a persisted dossier. The full
// verdict document is included only on detail and export responses.
type DossierDTO struct {
	ID             uint                 `json:"id"`
	Target         string               `json:"target"`
	TargetType     string               `json:"target_type"`
	OverallScore   float64              `json:"overall_score"`
	RiskLevel      string               `json:"risk_level"`
	Signal         string               `json:"signal"`
	Confidence     string               `json:"confidence"`
	RedFlagCount   int                  `json:"red_flag_count"`
	SentimentScore int                  `json:"sentiment_score"`
	CreatedAt      time.Time            `json:"created_at"`
	Verdict        *scoring.RiskVerdict `json:"verdict,omitempty"`
}

// DossiersResponse holds dossier items and totals.
type DossiersResponse struct {
	Items []DossierDTO `json:"items"`
	Total int64        `json:"total"`
}

// FromModel converts a stored dossier into its API representation. The
// verdict blob is attached when detail is true.
func FromModel(row store.Dossier, detail bool) DossierDTO {
	dto := DossierDTO{
		ID:             row.ID,
		Target:         row.Target,
		TargetType:     row.TargetType,
		OverallScore:   row.OverallScore,
		RiskLevel:      row.RiskLevel,
		Signal:         row.Signal,
		Confidence:     row.Confidence,
		RedFlagCount:   row.RedFlagCount,
		SentimentScore: row.SentimentScore,
		CreatedAt:      row.CreatedAt,
	}
	if detail {
		if verdict, ok := row.Verdict(); ok {
			dto.Verdict = &verdict
		}
	}
	return dto
}
