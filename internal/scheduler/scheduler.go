package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicpulse/civicpulse/internal/engine"
)

// AnalysisScheduler runs the analysis engine on a fixed interval.
type AnalysisScheduler struct {
	engine   *engine.Engine
	logger   *slog.Logger
	stopChan chan struct{}
	interval time.Duration
}

// NewAnalysisScheduler creates a scheduler that re-runs analysis every interval.
func NewAnalysisScheduler(eng *engine.Engine, interval time.Duration, logger *slog.Logger) *AnalysisScheduler {
	return &AnalysisScheduler{
		engine:   eng,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start begins the scheduler loop. It runs one analysis pass immediately so
// the first snapshot is available before the first tick.
func (s *AnalysisScheduler) Start(ctx context.Context) {
	s.logger.Info("starting analysis scheduler", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("analysis scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("analysis scheduler stopping due to context cancellation")
			return
		}
	}
}

// Stop stops the scheduler.
func (s *AnalysisScheduler) Stop() {
	close(s.stopChan)
}

func (s *AnalysisScheduler) runOnce(ctx context.Context) {
	if err := s.engine.Run(ctx); err != nil {
		s.logger.Error("analysis run failed", "error", err)
	}
}
