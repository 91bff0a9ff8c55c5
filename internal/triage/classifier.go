package triage

import (
	"strings"

	"github.com/civicpulse/civicpulse/internal/models"
)

// ImageContext carries what the image-analysis collaborator saw: detected
// content labels joined into a token stream plus an overall confidence.
// The zero value means "no image" and the classifier works from text alone.
type ImageContext struct {
	Tokens     []string
	Confidence float64
}

func (c ImageContext) joined() string {
	return strings.ToLower(strings.Join(c.Tokens, " "))
}

// Assessment is the triage verdict for one report.
type Assessment struct {
	IssueType          string          `json:"issue_type"`
	Urgency            int             `json:"urgency"`
	Severity           models.Severity `json:"severity"`
	ResponseTime       string          `json:"response_time"`
	RecommendedActions []string        `json:"recommended_actions"`
}

// issueRule pairs a result label with the substrings that select it. Rules
// are evaluated in order and the first match wins, so more specific issues
// must precede generic ones.
type issueRule struct {
	issueType     string
	textKeywords  []string
	imageKeywords []string
}

// urgencyRule is one escalation keyword group. Every matching group adds its
// boost; groups are not mutually exclusive.
type urgencyRule struct {
	textKeywords  []string
	imageKeywords []string
	boost         int
}

// Classifier maps report text (and optional image labels) onto an issue
// type, an urgency score and a severity tier. All lookups are fixed tables;
// classification is pure and never fails.
type Classifier struct {
	issueRules   []issueRule
	urgencyRules []urgencyRule
	actions      map[string][]string
}

const baseUrgency = 30

// NewClassifier creates a classifier with the production rule tables.
func NewClassifier() *Classifier {
	return &Classifier{
		issueRules: []issueRule{
			{
				issueType:     "Traffic Incident",
				textKeywords:  []string{"accident", "crash", "collision"},
				imageKeywords: []string{"accident", "crash", "emergency", "police", "ambulance", "fire truck"},
			},
			{
				issueType:     "Road Damage",
				textKeywords:  []string{"pothole", "hole", "damage"},
				imageKeywords: []string{"pothole", "damage", "broken", "crack"},
			},
			{
				issueType:     "Traffic Signal",
				textKeywords:  []string{"signal", "light", "traffic light"},
				imageKeywords: []string{"signal", "light", "traffic light", "stop light"},
			},
			{
				issueType:     "Water Logging",
				textKeywords:  []string{"water", "flood", "logging"},
				imageKeywords: []string{"water", "flood", "rain", "drainage"},
			},
			{
				issueType:     "Construction Work",
				textKeywords:  []string{"construction", "work", "barrier"},
				imageKeywords: []string{"construction", "barrier", "cone", "work"},
			},
			{
				issueType:     "Traffic Congestion",
				textKeywords:  []string{"congestion", "jam", "traffic jam"},
				imageKeywords: []string{"traffic", "congestion", "jam", "vehicle"},
			},
			{
				issueType:     "Parking Issue",
				textKeywords:  []string{"parking", "parked"},
				imageKeywords: []string{"parking", "parked"},
			},
			{
				issueType:     "Vehicle Related Issue",
				imageKeywords: []string{"vehicle", "car", "bus", "truck"},
			},
			{
				issueType:     "Road Issue",
				imageKeywords: []string{"road", "street", "highway", "pavement"},
			},
		},
		urgencyRules: []urgencyRule{
			{
				textKeywords:  []string{"accident", "crash", "collision", "emergency"},
				imageKeywords: []string{"accident", "crash", "emergency", "police", "ambulance", "fire truck"},
				boost:         45,
			},
			{
				textKeywords:  []string{"dangerous", "unsafe", "urgent"},
				imageKeywords: []string{"dangerous", "unsafe"},
				boost:         35,
			},
			{
				textKeywords:  []string{"blocking", "closed", "stuck", "obstruction"},
				imageKeywords: []string{"blocking", "barrier", "obstruction"},
				boost:         30,
			},
			{
				textKeywords:  []string{"severe", "major", "heavy"},
				imageKeywords: []string{"severe", "major"},
				boost:         25,
			},
			{
				textKeywords:  []string{"broken", "damage", "hole", "crack"},
				imageKeywords: []string{"damage", "broken", "crack"},
				boost:         20,
			},
			{
				textKeywords:  []string{"traffic", "congestion", "jam", "heavy traffic"},
				imageKeywords: []string{"traffic", "congestion", "jam"},
				boost:         15,
			},
			{
				textKeywords:  []string{"construction", "work"},
				imageKeywords: []string{"construction", "work"},
				boost:         10,
			},
		},
		actions: map[string][]string{
			"Traffic Incident": {
				"Dispatch emergency services immediately",
				"Set up traffic diversion and roadblocks",
				"Notify traffic police and ambulance services",
				"Coordinate with fire department if needed",
			},
			"Road Damage": {
				"Assess damage severity and safety risks",
				"Install temporary warning signs and barriers",
				"Schedule repair work with priority",
				"Notify local authorities and residents",
			},
			"Traffic Signal": {
				"Send technician for immediate inspection",
				"Implement manual traffic control if needed",
				"Update signal timing and synchronization",
				"Install backup power systems",
			},
			"Water Logging": {
				"Deploy water pumps and drainage equipment",
				"Clear blocked drainage systems",
				"Monitor water levels and weather conditions",
				"Set up flood warning systems",
			},
			"Construction Work": {
				"Verify construction permits and safety protocols",
				"Set up proper signage and traffic management",
				"Coordinate with construction team and authorities",
				"Monitor construction progress and safety",
			},
			"Traffic Congestion": {
				"Analyze traffic patterns and bottlenecks",
				"Implement traffic diversion and alternative routes",
				"Update traffic signals and timing",
				"Deploy traffic police for manual control",
			},
			"Parking Issue": {
				"Assess parking violation and obstruction",
				"Contact vehicle owner if possible",
				"Coordinate with towing services if needed",
				"Update parking regulations and enforcement",
			},
			"Vehicle Related Issue": {
				"Assess vehicle condition and safety",
				"Contact vehicle owner or authorities",
				"Coordinate with towing or repair services",
				"Update traffic management if needed",
			},
			"Road Issue": {
				"Assess road condition and safety",
				"Schedule maintenance or repair work",
				"Update traffic management and signage",
				"Notify relevant departments",
			},
			"General Issue": {
				"Review and assess the reported issue",
				"Coordinate with relevant departments",
				"Schedule inspection and follow-up",
				"Update incident tracking system",
			},
		},
	}
}

// Classify evaluates the issue cascade and urgency tables for one report.
func (c *Classifier) Classify(text string, image ImageContext) Assessment {
	lowerText := strings.ToLower(text)
	imageContent := image.joined()

	issueType := c.issueType(lowerText, imageContent)
	urgency := c.urgency(lowerText, imageContent, image.Confidence)

	return Assessment{
		IssueType:          issueType,
		Urgency:            urgency,
		Severity:           SeverityForUrgency(urgency),
		ResponseTime:       responseTime(urgency),
		RecommendedActions: c.recommendedActions(issueType, urgency),
	}
}

func (c *Classifier) issueType(text, imageContent string) string {
	for _, rule := range c.issueRules {
		if containsAny(text, rule.textKeywords) || containsAny(imageContent, rule.imageKeywords) {
			return rule.issueType
		}
	}
	return "General Issue"
}

func (c *Classifier) urgency(text, imageContent string, confidence float64) int {
	urgency := baseUrgency

	for _, rule := range c.urgencyRules {
		if containsAny(text, rule.textKeywords) || containsAny(imageContent, rule.imageKeywords) {
			urgency += rule.boost
		}
	}

	if confidence > 0.8 {
		urgency += 15
	} else if confidence > 0.6 {
		urgency += 10
	}

	// Compound escalations on the image content.
	if strings.Contains(imageContent, "vehicle") && strings.Contains(imageContent, "damage") {
		urgency += 15
	}
	if strings.Contains(imageContent, "water") && strings.Contains(imageContent, "road") {
		urgency += 20
	}

	if urgency > 100 {
		urgency = 100
	}
	if urgency < 0 {
		urgency = 0
	}
	return urgency
}

func (c *Classifier) recommendedActions(issueType string, urgency int) []string {
	base := c.actions[issueType]
	actions := make([]string, 0, len(base)+2)

	switch {
	case urgency >= 90:
		actions = append(actions, "Alert all emergency services", "IMMEDIATE EMERGENCY RESPONSE REQUIRED")
	case urgency >= 70:
		actions = append(actions, "IMMEDIATE RESPONSE REQUIRED")
	case urgency >= 50:
		actions = append(actions, "HIGH PRIORITY RESPONSE NEEDED")
	case urgency >= 30:
		actions = append(actions, "STANDARD RESPONSE SCHEDULED")
	}

	return append(actions, base...)
}

// SeverityForUrgency maps the 0-100 urgency score onto the severity tiers.
func SeverityForUrgency(urgency int) models.Severity {
	switch {
	case urgency >= 80:
		return models.SeverityCritical
	case urgency >= 60:
		return models.SeverityHigh
	case urgency >= 40:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func responseTime(urgency int) string {
	switch {
	case urgency >= 80:
		return "Immediate (0-2 hours)"
	case urgency >= 60:
		return "High Priority (2-6 hours)"
	case urgency >= 40:
		return "Medium Priority (6-24 hours)"
	default:
		return "Standard (24-48 hours)"
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
