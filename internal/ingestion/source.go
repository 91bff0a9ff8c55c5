package ingestion

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicpulse/civicpulse/internal/models"
)

// ReportSource defines the interface the analysis engine pulls citizen
// reports from.
type ReportSource interface {
	// Recent retrieves reports whose timestamp falls within the lookback
	// window ending now.
	Recent(ctx context.Context, lookback time.Duration) ([]models.Report, error)
}

// ReportStore extends ReportSource with write access.
type ReportStore interface {
	ReportSource

	// Store saves a report.
	Store(ctx context.Context, report models.Report) error
}

// MemorySource implements an in-memory report store for testing/development.
type MemorySource struct {
	mu      sync.RWMutex
	reports map[string]models.Report
}

// NewMemorySource creates a new in-memory report store.
func NewMemorySource() *MemorySource {
	return &MemorySource{reports: make(map[string]models.Report)}
}

// Store saves a report, assigning an ID when the report arrives without one.
func (s *MemorySource) Store(ctx context.Context, report models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.reports[report.ID] = report
	s.mu.Unlock()
	return nil
}

// Recent retrieves reports within the lookback window, newest first.
func (s *MemorySource) Recent(ctx context.Context, lookback time.Duration) ([]models.Report, error) {
	cutoff := time.Now().Add(-lookback)

	s.mu.RLock()
	reports := make([]models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if report.Timestamp.After(cutoff) {
			reports = append(reports, report)
		}
	}
	s.mu.RUnlock()

	sort.Slice(reports, func(a, b int) bool {
		return reports[a].Timestamp.After(reports[b].Timestamp)
	})
	return reports, nil
}

// Count returns the total number of stored reports.
func (s *MemorySource) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
