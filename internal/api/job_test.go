package api

import (
	"context"
	"testing"
	"time"
)

func TestCancelAnalysisAbortsActiveJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{activeJob: &analysisJob{id: "job-1", cancel: cancel}}

	s.cancelAnalysis()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected job context to be cancelled")
	}
}

func TestCancelAnalysisNoActiveJob(t *testing.T) {
	s := &Server{}
	s.cancelAnalysis()
}
