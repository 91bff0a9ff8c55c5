package detector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civicpulse/civicpulse/internal/geo"
	"github.com/civicpulse/civicpulse/internal/models"
)

// Rule is the per-category detection rule: the keyword list matched against
// report descriptions, the minimum matching-report count that emits a
// pattern, the nominal window the rule was tuned for and the fixed severity
// assigned to patterns of this category.
type Rule struct {
	Keywords    []string
	Threshold   int
	WindowHours int
	Severity    models.Severity
}

// Rules maps each pattern category to its detection rule. The table is
// injected into the detector so tests can substitute thresholds and
// vocabularies.
type Rules map[models.PatternCategory]Rule

// DefaultRules returns the production rule table.
func DefaultRules() Rules {
	return Rules{
		models.CategoryPower: {
			Keywords:    []string{"power cut", "electricity", "blackout", "outage", "grid", "transformer"},
			Threshold:   3,
			WindowHours: 2,
			Severity:    models.SeverityHigh,
		},
		models.CategoryWater: {
			Keywords:    []string{"water supply", "pipeline", "leak", "shortage", "tank"},
			Threshold:   2,
			WindowHours: 4,
			Severity:    models.SeverityMedium,
		},
		models.CategoryCongestion: {
			Keywords:    []string{"traffic jam", "jam", "congestion", "blocked", "slow", "stuck"},
			Threshold:   5,
			WindowHours: 1,
			Severity:    models.SeverityMedium,
		},
		models.CategorySafety: {
			Keywords:    []string{"accident", "collision", "injury", "dangerous", "unsafe"},
			Threshold:   2,
			WindowHours: 1,
			Severity:    models.SeverityHigh,
		},
		models.CategoryInfrastructure: {
			Keywords:    []string{"pothole", "road damage", "construction", "repair", "maintenance"},
			Threshold:   3,
			WindowHours: 6,
			Severity:    models.SeverityMedium,
		},
		models.CategoryWeather: {
			Keywords:    []string{"rain", "flood", "waterlogging", "storm", "wind"},
			Threshold:   4,
			WindowHours: 2,
			Severity:    models.SeverityMedium,
		},
	}
}

// categoryOrder fixes the emission order of patterns within a zone.
var categoryOrder = []models.PatternCategory{
	models.CategoryPower,
	models.CategoryWater,
	models.CategoryCongestion,
	models.CategorySafety,
	models.CategoryInfrastructure,
	models.CategoryWeather,
}

// Detector groups a report snapshot by zone and emits an EventPattern for
// every (zone, category) pair whose matching-report count reaches the
// category threshold.
//
// Detection confidence is matching count over threshold, capped at 1. At the
// emission boundary the ratio is always >= 1, so confidence saturates at
// exactly 1.0 the moment the threshold is met; only above-threshold counts
// would move it, and the cap holds it at 1. This mirrors the rule table's
// intent of binary gating and must not be "fixed" into a sub-threshold ramp.
type Detector struct {
	rules    Rules
	resolver *geo.Resolver
}

// NewDetector creates a detector with the given rule table and zone resolver.
func NewDetector(rules Rules, resolver *geo.Resolver) *Detector {
	return &Detector{rules: rules, resolver: resolver}
}

// Detect runs pattern detection over a report snapshot. The detector
// re-validates timestamps against the window itself, so callers may hand it
// either a raw or a pre-filtered snapshot; reports older than now-window are
// ignored either way. An empty snapshot yields an empty pattern list.
//
// Re-running on an unchanged snapshot yields patterns equal under
// (category, zone, confidence, related reports); only IDs and CreatedAt
// differ, as both embed the generation time.
func (d *Detector) Detect(reports []models.Report, window time.Duration) []models.EventPattern {
	now := time.Now()
	cutoff := now.Add(-window)

	zoneGroups := make(map[string][]models.Report)
	for _, report := range reports {
		if report.Timestamp.Before(cutoff) {
			continue
		}
		zone := d.resolver.Resolve(report.Latitude, report.Longitude)
		zoneGroups[zone] = append(zoneGroups[zone], report)
	}

	zones := make([]string, 0, len(zoneGroups))
	for zone := range zoneGroups {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	var patterns []models.EventPattern
	for _, zone := range zones {
		for _, category := range categoryOrder {
			rule, ok := d.rules[category]
			if !ok {
				continue
			}

			var related []string
			for _, report := range zoneGroups[zone] {
				if matchesAny(report.Description, rule.Keywords) {
					related = append(related, report.ID)
				}
			}

			count := len(related)
			if count < rule.Threshold {
				continue
			}

			confidence := float64(count) / float64(rule.Threshold)
			if confidence > 1 {
				confidence = 1
			}

			patterns = append(patterns, models.EventPattern{
				ID:                fmt.Sprintf("%s_%s_%d", category, zone, now.UnixMilli()),
				Category:          category,
				Severity:          rule.Severity,
				Confidence:        confidence,
				Zone:              zone,
				Description:       patternDescription(category, zone, count),
				PredictedDuration: predictDuration(category, count),
				Recommendations:   recommendations(category),
				RelatedReports:    related,
				PredictedImpact:   predictImpact(category, count),
				CreatedAt:         now,
			})
		}
	}

	return patterns
}

func matchesAny(description string, keywords []string) bool {
	text := strings.ToLower(description)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func patternDescription(category models.PatternCategory, zone string, count int) string {
	switch category {
	case models.CategoryPower:
		return fmt.Sprintf("Multiple power-related issues reported in %s (%d reports)", zone, count)
	case models.CategoryWater:
		return fmt.Sprintf("Water supply problems detected in %s (%d reports)", zone, count)
	case models.CategoryCongestion:
		return fmt.Sprintf("Traffic congestion pattern emerging in %s (%d reports)", zone, count)
	case models.CategorySafety:
		return fmt.Sprintf("Safety concerns reported in %s (%d reports)", zone, count)
	case models.CategoryInfrastructure:
		return fmt.Sprintf("Infrastructure issues identified in %s (%d reports)", zone, count)
	case models.CategoryWeather:
		return fmt.Sprintf("Weather-related problems affecting %s (%d reports)", zone, count)
	default:
		return fmt.Sprintf("Pattern detected in %s", zone)
	}
}

func predictDuration(category models.PatternCategory, count int) string {
	base := map[models.PatternCategory]string{
		models.CategoryPower:          "2-4 hours",
		models.CategoryWater:          "4-8 hours",
		models.CategoryCongestion:     "1-2 hours",
		models.CategorySafety:         "Immediate attention required",
		models.CategoryInfrastructure: "6-12 hours",
		models.CategoryWeather:        "2-6 hours",
	}

	duration, ok := base[category]
	if !ok {
		duration = "Unknown"
	}
	if count > 5 {
		return "Extended: " + duration
	}
	return duration
}

func recommendations(category models.PatternCategory) []string {
	switch category {
	case models.CategoryPower:
		return []string{
			"Contact BESCOM emergency helpline",
			"Avoid affected area if possible",
			"Use backup power sources",
			"Monitor official updates",
		}
	case models.CategoryWater:
		return []string{
			"Contact BWSSB for updates",
			"Store water for essential use",
			"Check for local water tankers",
			"Report leaks immediately",
		}
	case models.CategoryCongestion:
		return []string{
			"Use alternative routes",
			"Consider public transport",
			"Check real-time traffic updates",
			"Plan travel during off-peak hours",
		}
	case models.CategorySafety:
		return []string{
			"Contact traffic police immediately",
			"Avoid the affected area",
			"Follow official safety guidelines",
			"Report any additional incidents",
		}
	case models.CategoryInfrastructure:
		return []string{
			"Report to BBMP helpline",
			"Use alternative routes",
			"Follow traffic diversions",
			"Monitor for updates",
		}
	case models.CategoryWeather:
		return []string{
			"Check weather forecasts",
			"Avoid waterlogged areas",
			"Use public transport if possible",
			"Stay updated on road conditions",
		}
	default:
		return []string{"Monitor the situation", "Follow official updates"}
	}
}

func predictImpact(category models.PatternCategory, count int) models.PredictedImpact {
	switch category {
	case models.CategoryPower:
		impact := models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowHeavy,
			SafetyRisk:     models.SafetyRiskHigh,
			EconomicImpact: models.EconomicImpactSignificant,
		}
		if count > 5 {
			impact.TrafficFlow = models.TrafficFlowSevere
		}
		return impact
	case models.CategoryWater:
		return models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowModerate,
			SafetyRisk:     models.SafetyRiskMedium,
			EconomicImpact: models.EconomicImpactModerate,
		}
	case models.CategoryCongestion:
		impact := models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowHeavy,
			SafetyRisk:     models.SafetyRiskMedium,
			EconomicImpact: models.EconomicImpactModerate,
		}
		if count > 8 {
			impact.TrafficFlow = models.TrafficFlowSevere
		}
		return impact
	case models.CategorySafety:
		return models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowHeavy,
			SafetyRisk:     models.SafetyRiskHigh,
			EconomicImpact: models.EconomicImpactSignificant,
		}
	case models.CategoryInfrastructure:
		return models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowModerate,
			SafetyRisk:     models.SafetyRiskMedium,
			EconomicImpact: models.EconomicImpactModerate,
		}
	case models.CategoryWeather:
		impact := models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowHeavy,
			SafetyRisk:     models.SafetyRiskHigh,
			EconomicImpact: models.EconomicImpactModerate,
		}
		if count > 6 {
			impact.TrafficFlow = models.TrafficFlowSevere
		}
		return impact
	default:
		return models.PredictedImpact{
			TrafficFlow:    models.TrafficFlowNormal,
			SafetyRisk:     models.SafetyRiskLow,
			EconomicImpact: models.EconomicImpactMinimal,
		}
	}
}
