package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/civicpulse/civicpulse/internal/detector"
	"github.com/civicpulse/civicpulse/internal/geo"
	"github.com/civicpulse/civicpulse/internal/ingestion"
	"github.com/civicpulse/civicpulse/internal/metrics"
	"github.com/civicpulse/civicpulse/internal/models"
	"github.com/civicpulse/civicpulse/internal/notifier"
	"github.com/civicpulse/civicpulse/internal/sentiment"
	"github.com/civicpulse/civicpulse/internal/summarizer"
)

// Snapshot is the output of one analysis run. The engine keeps the most
// recent snapshot and serves reads from it.
type Snapshot struct {
	Reports        []models.Report
	Patterns       []models.EventPattern
	Alerts         []models.PredictiveAlert
	Notifications  []models.IntelligentNotification
	SkippedReports int
	GeneratedAt    time.Time
}

// Config holds the engine's analysis parameters.
type Config struct {
	// Window is the report lookback fed into pattern detection.
	Window time.Duration
}

// Engine runs the report analysis pipeline: fetch, sanitize, detect
// patterns, raise alerts and compose the notification feed. One run
// replaces the previous snapshot wholesale; patterns and alerts are never
// mutated in place.
type Engine struct {
	source    ingestion.ReportSource
	analyzer  *sentiment.Analyzer
	detector  *detector.Detector
	composer  *notifier.Composer
	generator *summarizer.Generator
	resolver  *geo.Resolver
	cache     *summarizer.Cache
	collector *metrics.Collector
	logger    *slog.Logger
	config    Config

	mu       sync.RWMutex
	snapshot Snapshot
}

// New creates an analysis engine. The cache and collector may be nil; the
// engine then generates summaries on every request and skips metrics.
func New(
	source ingestion.ReportSource,
	analyzer *sentiment.Analyzer,
	det *detector.Detector,
	composer *notifier.Composer,
	generator *summarizer.Generator,
	resolver *geo.Resolver,
	cache *summarizer.Cache,
	collector *metrics.Collector,
	logger *slog.Logger,
	config Config,
) *Engine {
	return &Engine{
		source:    source,
		analyzer:  analyzer,
		detector:  det,
		composer:  composer,
		generator: generator,
		resolver:  resolver,
		cache:     cache,
		collector: collector,
		logger:    logger,
		config:    config,
	}
}

// Run executes one analysis pass and replaces the engine's snapshot.
func (e *Engine) Run(ctx context.Context) error {
	start := time.Now()

	fetched, err := e.source.Recent(ctx, e.config.Window)
	if err != nil {
		return fmt.Errorf("fetch reports: %w", err)
	}

	reports, skipped := ingestion.Sanitize(fetched)
	if skipped > 0 {
		e.logger.Warn("dropped malformed reports", "skipped", skipped)
	}

	// Attach sentiment where ingestion did not store one, so summaries and
	// mood trends see every report the same way.
	for i := range reports {
		if reports[i].Sentiment == nil && reports[i].Description != "" {
			result := e.analyzer.Analyze(reports[i].Description)
			reports[i].Sentiment = &result
		}
	}

	patterns := e.detector.Detect(reports, e.config.Window)
	alerts := detector.GenerateAlerts(patterns)
	notifications := e.composer.Compose(alerts, patterns)

	e.mu.Lock()
	e.snapshot = Snapshot{
		Reports:        reports,
		Patterns:       patterns,
		Alerts:         alerts,
		Notifications:  notifications,
		SkippedReports: skipped,
		GeneratedAt:    start,
	}
	e.mu.Unlock()

	duration := time.Since(start)
	if e.collector != nil {
		byCategory := make(map[string]int)
		for _, pattern := range patterns {
			byCategory[string(pattern.Category)]++
		}
		e.collector.ObserveAnalysisRun(duration, byCategory, len(alerts), skipped)
	}

	e.logger.Info("analysis run complete",
		"reports", len(reports),
		"patterns", len(patterns),
		"alerts", len(alerts),
		"notifications", len(notifications),
		"duration_ms", duration.Milliseconds(),
	)
	return nil
}

// Latest returns the most recent snapshot.
func (e *Engine) Latest() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Notifications returns the current feed with expired entries dropped.
func (e *Engine) Notifications(now time.Time) []models.IntelligentNotification {
	snapshot := e.Latest()

	live := make([]models.IntelligentNotification, 0, len(snapshot.Notifications))
	for _, notification := range snapshot.Notifications {
		if notification.Expired(now) {
			continue
		}
		live = append(live, notification)
	}
	return live
}

// Personalized returns the live feed filtered by a subscription.
func (e *Engine) Personalized(now time.Time, sub models.Subscription) []models.IntelligentNotification {
	return e.composer.Personalize(e.Notifications(now), sub)
}

// ZoneSummary produces the narrative summary for one zone, serving from the
// cache when possible. Cache failures degrade to regeneration, never to an
// error.
func (e *Engine) ZoneSummary(ctx context.Context, zone string) (models.AreaSummary, error) {
	if e.cache != nil {
		cached, ok, err := e.cache.Get(ctx, zone)
		if err != nil {
			e.logger.Warn("summary cache read failed", "zone", zone, "error", err)
		} else if ok {
			return *cached, nil
		}
	}

	snapshot := e.Latest()
	var zoneReports []models.Report
	for _, report := range snapshot.Reports {
		if e.resolver.Resolve(report.Latitude, report.Longitude) == zone {
			zoneReports = append(zoneReports, report)
		}
	}

	windowHours := int(e.config.Window / time.Hour)
	summary := e.generator.Summarize(zone, zoneReports, windowHours)

	if e.cache != nil {
		if err := e.cache.Put(ctx, summary); err != nil {
			e.logger.Warn("summary cache write failed", "zone", zone, "error", err)
		}
	}
	return summary, nil
}

// ResolveZone maps coordinates onto a zone name.
func (e *Engine) ResolveZone(lat, lng float64) string {
	return e.resolver.Resolve(lat, lng)
}

// Zones lists the zone names the engine resolves reports into.
func (e *Engine) Zones() []string {
	zones := e.resolver.Zones()
	names := make([]string, len(zones))
	for i, zone := range zones {
		names[i] = zone.Name
	}
	return names
}
