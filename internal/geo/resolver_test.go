package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expectedKm             float64
		tolerance              float64
	}{
		{"Same point", 12.9716, 77.5946, 12.9716, 77.5946, 0, 0.001},
		{"HSR Layout to Koramangala", 12.9716, 77.5946, 12.9349, 77.6057, 4.25, 0.3},
		{"HSR Layout to Whitefield", 12.9716, 77.5946, 12.9692, 77.7499, 16.8, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.expectedKm) > tt.tolerance {
				t.Errorf("Distance() = %vkm, want %vkm ±%v", got, tt.expectedKm, tt.tolerance)
			}
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver(DefaultGazetteer())

	tests := []struct {
		name     string
		lat, lng float64
		expected string
	}{
		{"Exact HSR Layout centroid", 12.9716, 77.5946, "HSR Layout"},
		{"Exact Koramangala centroid", 12.9349, 77.6057, "Koramangala"},
		{"Exact Sarjapur centroid", 12.8677, 77.6736, "Sarjapur"},
		{"Near Whitefield snaps to its centroid", 12.9750, 77.7450, "Whitefield"},
		{"Far point snaps to nearest zone", 12.80, 77.60, "Electronic City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.Resolve(tt.lat, tt.lng); got != tt.expected {
				t.Errorf("Resolve(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.expected)
			}
		})
	}
}

func TestResolver_EveryCentroidResolvesToItsOwnZone(t *testing.T) {
	// Guards the gazetteer against radii large enough that an earlier zone's
	// circle contains a later zone's centroid. Indiranagar's centroid sits
	// ~0.87km from HSR Layout's and Sarjapur's ~2.58km from Electronic
	// City's, so kilometer-scale radii would misfile both.
	resolver := NewResolver(DefaultGazetteer())

	for _, zone := range DefaultGazetteer() {
		t.Run(zone.Name, func(t *testing.T) {
			if got := resolver.Resolve(zone.Lat, zone.Lng); got != zone.Name {
				t.Errorf("Resolve(%v, %v) = %q, want %q", zone.Lat, zone.Lng, got, zone.Name)
			}
		})
	}
}

func TestResolver_RadiusBeatsProximity(t *testing.T) {
	// The point sits closer to zone B's centroid, but only zone A's radius
	// contains it; containment must win.
	zones := []Zone{
		{Name: "A", Lat: 0, Lng: 0, RadiusKm: 50},
		{Name: "B", Lat: 0.5, Lng: 0, RadiusKm: 1},
	}
	resolver := NewResolver(zones)

	// ~0.3 degrees north: ~33km from A (inside radius), ~22km from B (outside).
	if got := resolver.Resolve(0.3, 0); got != "A" {
		t.Errorf("Resolve() = %q, want containment match %q", got, "A")
	}
}

func TestResolver_OverlapPrefersGazetteerOrder(t *testing.T) {
	zones := []Zone{
		{Name: "First", Lat: 0, Lng: 0, RadiusKm: 100},
		{Name: "Second", Lat: 0.1, Lng: 0, RadiusKm: 100},
	}
	resolver := NewResolver(zones)

	if got := resolver.Resolve(0.05, 0); got != "First" {
		t.Errorf("Resolve() = %q, want %q on overlapping radii", got, "First")
	}
}

func TestResolver_TotalOverGazetteer(t *testing.T) {
	resolver := NewResolver(DefaultGazetteer())

	// Points far outside the city still resolve to some zone.
	for _, p := range [][2]float64{{0, 0}, {28.6, 77.2}, {-33.8, 151.2}} {
		if got := resolver.Resolve(p[0], p[1]); got == "" {
			t.Errorf("Resolve(%v, %v) returned empty zone", p[0], p[1])
		}
	}
}
