package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"corp-intel/backend/internal/collect"
	"corp-intel/backend/internal/store"
)

// analysisJob tracks the state of a running analysis.
type analysisJob struct {
	id        string
	cancel    context.CancelFunc
	startedAt time.Time
	target    collect.Target
	requestID uint
}

// startAnalysis launches a new asynchronous analysis job. The caller must
// hold s.jobMu prior to invoking this function.
func (s *Server) startAnalysis(target collect.Target) (*analysisJob, error) {
	if s.activeJob != nil {
		return nil, errors.New("analysis already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &analysisJob{
		id:        uuid.NewString(),
		cancel:    cancel,
		startedAt: time.Now().UTC(),
		target:    target,
	}

	request, err := s.db.CreateAnalysisRequest(target.Name, job.id, "running")
	if err != nil {
		job.cancel()
		return nil, fmt.Errorf("create analysis request: %w", err)
	}
	job.requestID = request.ID

	s.activeJob = job
	go s.runAnalysis(ctx, job)
	return job, nil
}

// cancelAnalysis aborts the active job if present.
func (s *Server) cancelAnalysis() {
	if s.activeJob == nil {
		return
	}
	s.activeJob.cancel()
}

func (s *Server) runAnalysis(ctx context.Context, job *analysisJob) {
	finishStatus := "completed"

	defer func() {
		if job.requestID != 0 {
			if err := s.db.UpdateAnalysisRequest(job.requestID, finishStatus); err != nil {
				logrus.WithError(err).WithField("job", job.id).Warn("update analysis request")
			}
		}
		s.jobMu.Lock()
		s.activeJob = nil
		s.jobMu.Unlock()
	}()

	target := job.target
	logrus.WithFields(logrus.Fields{
		"job":    job.id,
		"target": target.Name,
		"type":   target.Type,
	}).Info("analysis job started")

	s.notifier.Broadcast(AnalysisEvent{
		Type:    "started",
		JobID:   job.id,
		Target:  target.Name,
		Message: "analysis started",
	})

	s.notifier.Broadcast(AnalysisEvent{
		Type:   "stage",
		JobID:  job.id,
		Target: target.Name,
		Stage:  "collecting",
	})
	bundle := s.collectors.Gather(ctx, target)
	if err := ctx.Err(); err != nil {
		finishStatus = "cancelled"
		s.notifier.Broadcast(AnalysisEvent{
			Type:    "cancelled",
			JobID:   job.id,
			Target:  target.Name,
			Message: "analysis cancelled",
		})
		logrus.WithField("job", job.id).Warn("analysis job cancelled via context")
		return
	}

	s.notifier.Broadcast(AnalysisEvent{
		Type:   "stage",
		JobID:  job.id,
		Target: target.Name,
		Stage:  "scoring",
	})
	verdict := s.pipeline.Run(target.Name, bundle)

	s.notifier.Broadcast(AnalysisEvent{
		Type:   "stage",
		JobID:  job.id,
		Target: target.Name,
		Stage:  "persisting",
	})
	dossier := store.Dossier{
		Target:         target.Name,
		TargetType:     target.Type,
		State:          strings.ToUpper(strings.TrimSpace(target.State)),
		OverallScore:   verdict.OverallScore,
		RiskLevel:      verdict.RiskLevel.Label,
		Signal:         verdict.RiskLevel.Signal,
		Confidence:     string(verdict.Assessment.Confidence),
		RedFlagCount:   len(verdict.RedFlags),
		SentimentScore: verdict.Extraction.SentimentScore,
	}
	if err := dossier.SetVerdict(verdict); err != nil {
		finishStatus = "failed"
		s.notifier.Broadcast(AnalysisEvent{
			Type:    "error",
			JobID:   job.id,
			Target:  target.Name,
			Message: fmt.Sprintf("encode verdict: %v", err),
		})
		logrus.WithError(err).Error("encode verdict")
		return
	}
	if err := s.db.SaveDossier(&dossier); err != nil {
		finishStatus = "failed"
		s.notifier.Broadcast(AnalysisEvent{
			Type:    "error",
			JobID:   job.id,
			Target:  target.Name,
			Message: fmt.Sprintf("save dossier: %v", err),
		})
		logrus.WithError(err).Error("save dossier")
		return
	}

	duration := time.Since(job.startedAt).Round(time.Millisecond)
	dto := FromModel(dossier, false)
	s.notifier.Broadcast(AnalysisEvent{
		Type:    "complete",
		JobID:   job.id,
		Target:  target.Name,
		Message: fmt.Sprintf("analysis finished in %s", duration),
		Dossier: &dto,
	})
	logrus.WithFields(logrus.Fields{
		"job":        job.id,
		"target":     target.Name,
		"dossier_id": dossier.ID,
		"score":      verdict.OverallScore,
		"level":      verdict.RiskLevel.Label,
		"red_flags":  len(verdict.RedFlags),
		"duration":   duration,
	}).Info("analysis job completed")
}
