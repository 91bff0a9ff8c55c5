package models

import (
	"time"
)

// Report is a single citizen-submitted traffic report. Reports are produced
// by the ingestion path and are read-only inside the analysis core.
type Report struct {
	ID          string           `json:"id"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Sentiment   *SentimentResult `json:"sentiment,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
}

// Age returns how long ago the report was filed relative to now.
func (r Report) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}
