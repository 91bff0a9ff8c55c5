package models

import (
	"time"
)

// AlertType grades a predictive alert by the severity of its source pattern.
type AlertType string

const (
	AlertTypeWarning  AlertType = "warning"
	AlertTypeAlert    AlertType = "alert"
	AlertTypeCritical AlertType = "critical"
)

// AlertTypeForSeverity maps a pattern severity onto the alert grade:
// critical stays critical, high becomes alert, everything else a warning.
func AlertTypeForSeverity(s Severity) AlertType {
	switch s {
	case SeverityCritical:
		return AlertTypeCritical
	case SeverityHigh:
		return AlertTypeAlert
	default:
		return AlertTypeWarning
	}
}

// PredictiveAlert is a high-confidence pattern surfaced as a user-facing
// warning. Alerts are ephemeral and regenerated on every detection run.
type PredictiveAlert struct {
	ID              string    `json:"id"`
	Type            AlertType `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Zone            string    `json:"zone"`
	Confidence      float64   `json:"confidence"`
	PredictedTime   time.Time `json:"predicted_time"`
	Recommendations []string  `json:"recommendations"`
	AffectedRoutes  []string  `json:"affected_routes"`
	Severity        Severity  `json:"severity"`
}
