package models

import (
	"time"
)

// MoodTrend is the direction a zone's mood is moving across the window.
type MoodTrend string

const (
	TrendImproving MoodTrend = "improving"
	TrendStable    MoodTrend = "stable"
	TrendWorsening MoodTrend = "worsening"
)

// MoodAnalysis aggregates the moods of a zone's reports.
type MoodAnalysis struct {
	OverallMood Mood      `json:"overall_mood"`
	MoodTrend   MoodTrend `json:"mood_trend"`
	TopConcerns []Mood    `json:"top_concerns"`
}

// AreaSummary is the generated narrative digest for one zone over one time
// window. Summaries are regenerated on demand; any caching sits outside the
// generator.
type AreaSummary struct {
	ID              string       `json:"id"`
	Zone            string       `json:"zone"`
	TimeRange       string       `json:"time_range"`
	Summary         string       `json:"summary"`
	KeyHighlights   []string     `json:"key_highlights"`
	Trends          []string     `json:"trends"`
	Recommendations []string     `json:"recommendations"`
	MoodAnalysis    MoodAnalysis `json:"mood_analysis"`
	GeneratedAt     time.Time    `json:"generated_at"`
}
