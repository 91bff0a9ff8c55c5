package detector

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/geo"
	"github.com/civicpulse/civicpulse/internal/models"
)

// koramangala / hsrLayout are gazetteer centroids, so every report placed on
// them resolves to that zone.
const (
	koramangalaLat = 12.9349
	koramangalaLng = 77.6057
	hsrLat         = 12.9716
	hsrLng         = 77.5946
)

func newTestDetector() *Detector {
	return NewDetector(DefaultRules(), geo.NewResolver(geo.DefaultGazetteer()))
}

func makeReports(prefix, description string, count int, lat, lng float64, age time.Duration) []models.Report {
	reports := make([]models.Report, 0, count)
	for i := 0; i < count; i++ {
		reports = append(reports, models.Report{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			Latitude:    lat,
			Longitude:   lng,
			Description: description,
			Timestamp:   time.Now().Add(-age),
		})
	}
	return reports
}

func TestDetector_ThresholdGating(t *testing.T) {
	d := newTestDetector()

	// Congestion threshold is 5: four matching reports must stay silent, a
	// fifth emits exactly one pattern with confidence capped at 1.0.
	below := makeReports("c", "stuck in a traffic jam", 4, hsrLat, hsrLng, 10*time.Minute)
	if patterns := d.Detect(below, time.Hour); len(patterns) != 0 {
		t.Fatalf("4 reports below threshold emitted %d patterns", len(patterns))
	}

	at := makeReports("c", "stuck in a traffic jam", 5, hsrLat, hsrLng, 10*time.Minute)
	patterns := d.Detect(at, time.Hour)
	if len(patterns) != 1 {
		t.Fatalf("expected exactly one pattern at threshold, got %d", len(patterns))
	}

	p := patterns[0]
	if p.Category != models.CategoryCongestion {
		t.Errorf("Category = %v, want congestion", p.Category)
	}
	if p.Zone != "HSR Layout" {
		t.Errorf("Zone = %q, want HSR Layout", p.Zone)
	}
	if p.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", p.Confidence)
	}
	if len(p.RelatedReports) != 5 {
		t.Errorf("RelatedReports = %d, want 5", len(p.RelatedReports))
	}
}

func TestDetector_ConfidenceBounds(t *testing.T) {
	d := newTestDetector()

	// Well above threshold: ratio exceeds 1 and must be capped.
	reports := makeReports("s", "accident at the junction", 10, koramangalaLat, koramangalaLng, 5*time.Minute)
	patterns := d.Detect(reports, time.Hour)
	if len(patterns) != 1 {
		t.Fatalf("expected one safety pattern, got %d", len(patterns))
	}
	if patterns[0].Confidence != 1.0 {
		t.Errorf("Confidence = %v, want capped 1.0", patterns[0].Confidence)
	}
}

func TestDetector_WindowFiltering(t *testing.T) {
	d := newTestDetector()

	// Stale reports must not count toward the threshold even when the caller
	// hands them in unfiltered.
	stale := makeReports("old", "accident on the main road", 2, koramangalaLat, koramangalaLng, 3*time.Hour)
	if patterns := d.Detect(stale, time.Hour); len(patterns) != 0 {
		t.Fatalf("stale reports emitted %d patterns", len(patterns))
	}

	mixed := append(stale,
		makeReports("new", "accident on the main road", 2, koramangalaLat, koramangalaLng, 10*time.Minute)...)
	patterns := d.Detect(mixed, time.Hour)
	if len(patterns) != 1 {
		t.Fatalf("expected one pattern from fresh reports, got %d", len(patterns))
	}
	if len(patterns[0].RelatedReports) != 2 {
		t.Errorf("RelatedReports = %d, want only the 2 fresh reports", len(patterns[0].RelatedReports))
	}
}

func TestDetector_CaseInsensitiveSubstringMatch(t *testing.T) {
	d := newTestDetector()

	reports := makeReports("c", "TRAFFIC JAM near mall", 5, hsrLat, hsrLng, 10*time.Minute)
	patterns := d.Detect(reports, time.Hour)
	if len(patterns) != 1 || patterns[0].Category != models.CategoryCongestion {
		t.Fatalf("uppercase description did not match congestion keywords: %+v", patterns)
	}
}

func TestDetector_EmptyInput(t *testing.T) {
	d := newTestDetector()

	if patterns := d.Detect(nil, 24*time.Hour); len(patterns) != 0 {
		t.Errorf("empty input emitted %d patterns", len(patterns))
	}
}

func TestDetector_GroupsByZone(t *testing.T) {
	d := newTestDetector()

	// Two reports in each of two zones; safety threshold is 2, so each zone
	// gets its own pattern and counts never bleed across zones.
	reports := append(
		makeReports("kor", "dangerous collision", 2, koramangalaLat, koramangalaLng, 5*time.Minute),
		makeReports("hsr", "dangerous collision", 2, hsrLat, hsrLng, 5*time.Minute)...)

	patterns := d.Detect(reports, time.Hour)
	if len(patterns) != 2 {
		t.Fatalf("expected one pattern per zone, got %d", len(patterns))
	}

	zones := map[string]bool{}
	for _, p := range patterns {
		zones[p.Zone] = true
	}
	if !zones["Koramangala"] || !zones["HSR Layout"] {
		t.Errorf("patterns missing a zone: %v", zones)
	}
}

func TestDetector_IdempotentModuloIDs(t *testing.T) {
	d := newTestDetector()
	reports := makeReports("s", "unsafe accident spot", 4, koramangalaLat, koramangalaLng, 15*time.Minute)

	first := d.Detect(reports, time.Hour)
	second := d.Detect(reports, time.Hour)

	if len(first) != len(second) {
		t.Fatalf("pattern counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = "", ""
		a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("pattern %d differs beyond ID/CreatedAt:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestDetector_ExtendedDurationAndSevereImpact(t *testing.T) {
	d := newTestDetector()

	// Six matching power reports: count > 5 extends the duration and bumps
	// traffic flow to severe.
	reports := makeReports("p", "transformer blew, total blackout", 6, hsrLat, hsrLng, 30*time.Minute)
	patterns := d.Detect(reports, 2*time.Hour)
	if len(patterns) != 1 {
		t.Fatalf("expected one power pattern, got %d", len(patterns))
	}

	p := patterns[0]
	if p.PredictedDuration != "Extended: 2-4 hours" {
		t.Errorf("PredictedDuration = %q, want extended", p.PredictedDuration)
	}
	if p.PredictedImpact.TrafficFlow != models.TrafficFlowSevere {
		t.Errorf("TrafficFlow = %v, want severe", p.PredictedImpact.TrafficFlow)
	}
	if p.Severity != models.SeverityHigh {
		t.Errorf("Severity = %v, want fixed high for power", p.Severity)
	}
}

func TestDetector_CustomRules(t *testing.T) {
	rules := Rules{
		models.CategoryWeather: {
			Keywords:  []string{"drizzle"},
			Threshold: 1,
			Severity:  models.SeverityLow,
		},
	}
	d := NewDetector(rules, geo.NewResolver(geo.DefaultGazetteer()))

	reports := makeReports("w", "light drizzle all morning", 1, hsrLat, hsrLng, 5*time.Minute)
	patterns := d.Detect(reports, time.Hour)
	if len(patterns) != 1 || patterns[0].Category != models.CategoryWeather {
		t.Fatalf("custom rule table not honored: %+v", patterns)
	}
	if patterns[0].Severity != models.SeverityLow {
		t.Errorf("Severity = %v, want low from custom rule", patterns[0].Severity)
	}
}

func TestGenerateAlerts_ConfidenceFilter(t *testing.T) {
	patterns := []models.EventPattern{
		{ID: "p1", Category: models.CategorySafety, Severity: models.SeverityHigh, Confidence: 0.6, Zone: "Koramangala"},
		{ID: "p2", Category: models.CategorySafety, Severity: models.SeverityHigh, Confidence: 0.61, Zone: "Koramangala"},
	}

	alerts := GenerateAlerts(patterns)
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert (0.6 excluded, 0.61 included), got %d", len(alerts))
	}
	if alerts[0].ID != "alert_p2" {
		t.Errorf("alert derived from wrong pattern: %s", alerts[0].ID)
	}
	if alerts[0].Severity != models.SeverityHigh {
		t.Errorf("alert severity = %v, want pattern severity high", alerts[0].Severity)
	}
}

func TestGenerateAlerts_TypeMapping(t *testing.T) {
	tests := []struct {
		severity models.Severity
		expected models.AlertType
	}{
		{models.SeverityCritical, models.AlertTypeCritical},
		{models.SeverityHigh, models.AlertTypeAlert},
		{models.SeverityMedium, models.AlertTypeWarning},
		{models.SeverityLow, models.AlertTypeWarning},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			alerts := GenerateAlerts([]models.EventPattern{
				{ID: "p", Category: models.CategoryCongestion, Severity: tt.severity, Confidence: 1.0, Zone: "HSR Layout"},
			})
			if len(alerts) != 1 {
				t.Fatalf("expected one alert, got %d", len(alerts))
			}
			if alerts[0].Type != tt.expected {
				t.Errorf("Type = %v, want %v", alerts[0].Type, tt.expected)
			}
		})
	}
}

func TestGenerateAlerts_PredictedTimeOffset(t *testing.T) {
	before := time.Now()
	alerts := GenerateAlerts([]models.EventPattern{
		{ID: "p", Category: models.CategoryWeather, Severity: models.SeverityMedium, Confidence: 1.0, Zone: "Bellandur"},
	})
	after := time.Now()

	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}

	predicted := alerts[0].PredictedTime
	if predicted.Before(before.Add(alertLeadTime)) || predicted.After(after.Add(alertLeadTime)) {
		t.Errorf("PredictedTime %v not ~30m ahead", predicted)
	}
}

func TestEndToEnd_KoramangalaAccidents(t *testing.T) {
	d := newTestDetector()

	// Six accident reports in Koramangala inside the last hour: safety
	// threshold is 2, so one pattern at capped confidence 1.0 and exactly
	// one "alert"-grade alert referencing the zone.
	reports := makeReports("acc", "accident near the forum signal-free corridor", 6,
		koramangalaLat, koramangalaLng, 20*time.Minute)

	patterns := d.Detect(reports, time.Hour)
	var safety []models.EventPattern
	for _, p := range patterns {
		if p.Category == models.CategorySafety {
			safety = append(safety, p)
		}
	}
	if len(safety) != 1 {
		t.Fatalf("expected one safety pattern, got %d (all: %d)", len(safety), len(patterns))
	}
	if safety[0].Confidence != 1.0 {
		t.Errorf("safety pattern confidence = %v, want 1.0", safety[0].Confidence)
	}

	alerts := GenerateAlerts(safety)
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Type != models.AlertTypeAlert {
		t.Errorf("alert type = %v, want alert", a.Type)
	}
	if a.Severity != models.SeverityHigh {
		t.Errorf("alert severity = %v, want high", a.Severity)
	}
	if a.Zone != "Koramangala" {
		t.Errorf("alert zone = %q, want Koramangala", a.Zone)
	}
	if !strings.Contains(a.Title, "Koramangala") {
		t.Errorf("alert title %q does not reference the zone", a.Title)
	}
}
