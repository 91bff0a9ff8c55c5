package models

import (
	"time"
)

// PatternCategory is the primary classification of a detected incident pattern.
type PatternCategory string

const (
	CategoryCongestion     PatternCategory = "congestion"
	CategoryInfrastructure PatternCategory = "infrastructure"
	CategorySafety         PatternCategory = "safety"
	CategoryWeather        PatternCategory = "weather"
	CategoryPower          PatternCategory = "power"
	CategoryWater          PatternCategory = "water"
)

// Severity is a four-level impact ranking. It is fixed per category by the
// detection rule table rather than computed continuously.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// TrafficFlow describes the expected traffic condition around a pattern.
type TrafficFlow string

const (
	TrafficFlowNormal   TrafficFlow = "normal"
	TrafficFlowModerate TrafficFlow = "moderate"
	TrafficFlowHeavy    TrafficFlow = "heavy"
	TrafficFlowSevere   TrafficFlow = "severe"
)

// SafetyRisk describes the expected risk to road users.
type SafetyRisk string

const (
	SafetyRiskLow    SafetyRisk = "low"
	SafetyRiskMedium SafetyRisk = "medium"
	SafetyRiskHigh   SafetyRisk = "high"
)

// EconomicImpact describes the expected economic disruption.
type EconomicImpact string

const (
	EconomicImpactMinimal     EconomicImpact = "minimal"
	EconomicImpactModerate    EconomicImpact = "moderate"
	EconomicImpactSignificant EconomicImpact = "significant"
)

// PredictedImpact is the category-keyed impact triple attached to a pattern.
type PredictedImpact struct {
	TrafficFlow    TrafficFlow    `json:"traffic_flow"`
	SafetyRisk     SafetyRisk     `json:"safety_risk"`
	EconomicImpact EconomicImpact `json:"economic_impact"`
}

// EventPattern is a cluster of same-category reports in one zone that
// exceeded the category's count threshold within the analysis window.
//
// The ID embeds the generation timestamp and is regenerated on every
// detection run. It is a display/debug token, not a stable join key; anything
// persisting patterns across runs should key by (category, zone, time bucket).
type EventPattern struct {
	ID                string          `json:"id"`
	Category          PatternCategory `json:"category"`
	Severity          Severity        `json:"severity"`
	Confidence        float64         `json:"confidence"`
	Zone              string          `json:"zone"`
	Description       string          `json:"description"`
	PredictedDuration string          `json:"predicted_duration"`
	Recommendations   []string        `json:"recommendations"`
	RelatedReports    []string        `json:"related_reports"`
	PredictedImpact   PredictedImpact `json:"predicted_impact"`
	CreatedAt         time.Time       `json:"created_at"`
}

// IsAlertable reports whether the pattern is confident enough to surface as
// a user-facing predictive alert.
func (p EventPattern) IsAlertable() bool {
	return p.Confidence > 0.6
}
