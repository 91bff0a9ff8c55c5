package triage

import (
	"reflect"
	"testing"

	"github.com/civicpulse/civicpulse/internal/models"
)

func TestClassifier_IssueTypeCascade(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name     string
		text     string
		image    ImageContext
		expected string
	}{
		{"Accident text", "major accident near silk board", ImageContext{}, "Traffic Incident"},
		{"Pothole text", "huge pothole on the service road", ImageContext{}, "Road Damage"},
		{"Signal text", "signal not functioning at junction", ImageContext{}, "Traffic Signal"},
		{"Flooding text", "water logging under the flyover", ImageContext{}, "Water Logging"},
		{"Construction text", "construction debris everywhere", ImageContext{}, "Construction Work"},
		{"Congestion text", "terrible jam on the outer ring", ImageContext{}, "Traffic Congestion"},
		{"Parking text", "car parked across the gate", ImageContext{}, "Parking Issue"},
		{"Vehicle from image only", "", ImageContext{Tokens: []string{"truck"}}, "Vehicle Related Issue"},
		{"Road from image only", "", ImageContext{Tokens: []string{"street", "pavement"}}, "Road Issue"},
		{"Default", "something odd happened", ImageContext{}, "General Issue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.text, tt.image)
			if got.IssueType != tt.expected {
				t.Errorf("IssueType = %q, want %q", got.IssueType, tt.expected)
			}
		})
	}
}

func TestClassifier_CascadeFirstMatchWins(t *testing.T) {
	classifier := NewClassifier()

	// Text hits incident, damage and signal groups; the cascade must stop at
	// the highest-priority rule.
	got := classifier.Classify("accident caused a pothole and a broken signal", ImageContext{})
	if got.IssueType != "Traffic Incident" {
		t.Errorf("IssueType = %q, want Traffic Incident", got.IssueType)
	}
}

func TestClassifier_UrgencyAdditive(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name     string
		text     string
		image    ImageContext
		expected int
	}{
		{"Base only", "nothing notable", ImageContext{}, 30},
		{"Single emergency group", "accident ahead", ImageContext{}, 75},
		{"Emergency plus dangerous", "dangerous accident ahead", ImageContext{}, 100},
		{"Damage via pothole substring", "pothole spotted", ImageContext{}, 50},
		{"Traffic group", "jam building up", ImageContext{}, 45},
		{"Construction group", "construction underway", ImageContext{}, 40},
		{"High confidence boost", "jam building up", ImageContext{Confidence: 0.9}, 60},
		{"Medium confidence boost", "jam building up", ImageContext{Confidence: 0.7}, 55},
		{"Clamped at 100", "dangerous accident blocking severe broken traffic construction", ImageContext{}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.text, tt.image)
			if got.Urgency != tt.expected {
				t.Errorf("Urgency = %d, want %d", got.Urgency, tt.expected)
			}
			if got.Urgency < 0 || got.Urgency > 100 {
				t.Errorf("Urgency %d out of [0,100]", got.Urgency)
			}
		})
	}
}

func TestClassifier_CompoundImageBoosts(t *testing.T) {
	classifier := NewClassifier()

	// vehicle+damage: damage group (+20) plus compound (+15) on top of base.
	got := classifier.Classify("", ImageContext{Tokens: []string{"vehicle", "damage"}})
	if want := 30 + 20 + 15; got.Urgency != want {
		t.Errorf("vehicle+damage urgency = %d, want %d", got.Urgency, want)
	}

	// water+road: no keyword group matches "road" or "water" image tokens
	// except the compound rule.
	got = classifier.Classify("", ImageContext{Tokens: []string{"water", "road"}})
	if want := 30 + 20; got.Urgency != want {
		t.Errorf("water+road urgency = %d, want %d", got.Urgency, want)
	}
}

func TestSeverityForUrgency(t *testing.T) {
	tests := []struct {
		urgency  int
		expected models.Severity
	}{
		{100, models.SeverityCritical},
		{80, models.SeverityCritical},
		{79, models.SeverityHigh},
		{60, models.SeverityHigh},
		{59, models.SeverityMedium},
		{40, models.SeverityMedium},
		{39, models.SeverityLow},
		{0, models.SeverityLow},
	}

	for _, tt := range tests {
		if got := SeverityForUrgency(tt.urgency); got != tt.expected {
			t.Errorf("SeverityForUrgency(%d) = %v, want %v", tt.urgency, got, tt.expected)
		}
	}
}

func TestClassifier_ResponseTimes(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		expected string
	}{
		{"dangerous accident blocking road", "Immediate (0-2 hours)"},
		{"accident ahead", "High Priority (2-6 hours)"},
		{"pothole spotted", "Medium Priority (6-24 hours)"},
		{"nothing notable", "Standard (24-48 hours)"},
	}

	for _, tt := range tests {
		if got := classifier.Classify(tt.text, ImageContext{}); got.ResponseTime != tt.expected {
			t.Errorf("Classify(%q).ResponseTime = %q, want %q", tt.text, got.ResponseTime, tt.expected)
		}
	}
}

func TestClassifier_ActionHeaders(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name    string
		text    string
		headers []string
	}{
		{
			name:    "Emergency tier",
			text:    "dangerous accident blocking road",
			headers: []string{"Alert all emergency services", "IMMEDIATE EMERGENCY RESPONSE REQUIRED"},
		},
		{
			name:    "Immediate tier",
			text:    "accident ahead",
			headers: []string{"IMMEDIATE RESPONSE REQUIRED"},
		},
		{
			name:    "High priority tier",
			text:    "pothole spotted",
			headers: []string{"HIGH PRIORITY RESPONSE NEEDED"},
		},
		{
			name:    "Standard tier",
			text:    "nothing notable",
			headers: []string{"STANDARD RESPONSE SCHEDULED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.text, ImageContext{})
			if len(got.RecommendedActions) < len(tt.headers)+4 {
				t.Fatalf("expected headers plus 4 issue actions, got %d: %v",
					len(got.RecommendedActions), got.RecommendedActions)
			}
			if !reflect.DeepEqual(got.RecommendedActions[:len(tt.headers)], tt.headers) {
				t.Errorf("headers = %v, want %v", got.RecommendedActions[:len(tt.headers)], tt.headers)
			}
		})
	}
}

func TestClassifier_Determinism(t *testing.T) {
	classifier := NewClassifier()
	image := ImageContext{Tokens: []string{"vehicle", "damage", "road"}, Confidence: 0.85}

	first := classifier.Classify("dangerous pothole near signal", image)
	for i := 0; i < 5; i++ {
		if got := classifier.Classify("dangerous pothole near signal", image); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
