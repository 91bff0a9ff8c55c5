package notifier

import (
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/models"
)

const (
	alertExpiry   = 2 * time.Hour
	patternExpiry = 6 * time.Hour

	// patternConfidenceFloor gates which patterns earn their own trend
	// notification on top of any alert they already produced.
	patternConfidenceFloor = 0.7
)

// Composer merges predictive alerts and event patterns into the unified
// notification feed.
type Composer struct{}

// NewComposer creates a notification composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose emits one notification per alert and one per pattern whose
// confidence clears the floor. Alert notifications expire after 2 hours,
// pattern notifications after 6.
func (c *Composer) Compose(alerts []models.PredictiveAlert, patterns []models.EventPattern) []models.IntelligentNotification {
	now := time.Now()

	var notifications []models.IntelligentNotification
	for _, alert := range alerts {
		notifications = append(notifications, models.IntelligentNotification{
			ID:          "notif_" + alert.ID,
			Type:        models.NotificationTypePrediction,
			Title:       alert.Title,
			Message:     alert.Message,
			Priority:    priorityForAlert(alert.Severity),
			Zone:        alert.Zone,
			Category:    "predictive",
			ActionItems: alert.Recommendations,
			RelatedData: alert,
			ExpiresAt:   now.Add(alertExpiry),
			CreatedAt:   now,
		})
	}

	for _, pattern := range patterns {
		if pattern.Confidence <= patternConfidenceFloor {
			continue
		}
		notifications = append(notifications, models.IntelligentNotification{
			ID:    "notif_pattern_" + pattern.ID,
			Type:  models.NotificationTypeTrend,
			Title: fmt.Sprintf("Pattern Detected: %s in %s", pattern.Category, pattern.Zone),
			Message: fmt.Sprintf("%s. Confidence: %d%%",
				pattern.Description, int(pattern.Confidence*100+0.5)),
			Priority:    priorityForPattern(pattern.Severity),
			Zone:        pattern.Zone,
			Category:    string(pattern.Category),
			ActionItems: pattern.Recommendations,
			RelatedData: pattern,
			ExpiresAt:   now.Add(patternExpiry),
			CreatedAt:   now,
		})
	}

	return notifications
}

// Personalize keeps the notifications matching the subscription's zones or
// interests. The match is an inclusive OR across both preference lists.
func (c *Composer) Personalize(notifications []models.IntelligentNotification, sub models.Subscription) []models.IntelligentNotification {
	var matched []models.IntelligentNotification
	for _, notification := range notifications {
		if sub.Matches(notification) {
			matched = append(matched, notification)
		}
	}
	return matched
}

func priorityForAlert(severity models.Severity) models.Priority {
	switch severity {
	case models.SeverityCritical:
		return models.PriorityUrgent
	case models.SeverityHigh:
		return models.PriorityHigh
	case models.SeverityMedium:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func priorityForPattern(severity models.Severity) models.Priority {
	switch severity {
	case models.SeverityCritical:
		return models.PriorityUrgent
	case models.SeverityHigh:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}
