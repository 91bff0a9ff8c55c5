package detector

import (
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/models"
)

// alertLeadTime is how far ahead an alert's predicted time is set.
const alertLeadTime = 30 * time.Minute

// GenerateAlerts turns high-confidence patterns into user-facing predictive
// alerts. Patterns at or below 0.6 confidence are dropped; everything about
// the surviving alert (grade, title, routes) derives from its pattern.
func GenerateAlerts(patterns []models.EventPattern) []models.PredictiveAlert {
	now := time.Now()

	var alerts []models.PredictiveAlert
	for _, pattern := range patterns {
		if !pattern.IsAlertable() {
			continue
		}

		alerts = append(alerts, models.PredictiveAlert{
			ID:              "alert_" + pattern.ID,
			Type:            models.AlertTypeForSeverity(pattern.Severity),
			Title:           alertTitle(pattern),
			Message:         alertMessage(pattern),
			Zone:            pattern.Zone,
			Confidence:      pattern.Confidence,
			PredictedTime:   now.Add(alertLeadTime),
			Recommendations: pattern.Recommendations,
			AffectedRoutes:  affectedRoutes(pattern.Category),
			Severity:        pattern.Severity,
		})
	}

	return alerts
}

func alertTitle(pattern models.EventPattern) string {
	headings := map[models.PatternCategory]string{
		models.CategoryPower:          "Power Issue Alert",
		models.CategoryWater:          "Water Supply Alert",
		models.CategoryCongestion:     "Traffic Alert",
		models.CategorySafety:         "Safety Alert",
		models.CategoryInfrastructure: "Infrastructure Alert",
		models.CategoryWeather:        "Weather Alert",
	}

	heading, ok := headings[pattern.Category]
	if !ok {
		heading = "Alert"
	}
	return fmt.Sprintf("%s - %s", heading, pattern.Zone)
}

func alertMessage(pattern models.EventPattern) string {
	return fmt.Sprintf("%s. Expected duration: %s. Please follow recommended actions and stay updated.",
		pattern.Description, pattern.PredictedDuration)
}

// affectedRoutes is a static category lookup; real route geometry belongs to
// the routing collaborator, not the analysis core.
func affectedRoutes(category models.PatternCategory) []string {
	switch category {
	case models.CategoryPower:
		return []string{"Main roads in affected area", "Commercial district routes"}
	case models.CategoryWater:
		return []string{"Residential areas", "Local service roads"}
	case models.CategoryCongestion:
		return []string{"Major arterial roads", "Highway connections"}
	case models.CategorySafety:
		return []string{"Incident location", "Surrounding areas"}
	case models.CategoryInfrastructure:
		return []string{"Construction zones", "Maintenance areas"}
	case models.CategoryWeather:
		return []string{"Low-lying areas", "Drainage routes"}
	default:
		return []string{"Affected area routes"}
	}
}
