package vision

import (
	"context"
	"strings"
)

// MockLabeler provides a test implementation of the Labeler interface. It
// derives labels from tokens in the image URL, so tests can stage a scene by
// naming the file (no API calls).
type MockLabeler struct{}

// NewMockLabeler creates a mock labeler for testing without vision API calls.
func NewMockLabeler() *MockLabeler {
	return &MockLabeler{}
}

// mockScenes maps URL tokens to the label set a real photo of that scene
// would produce. Kept as an ordered list so repeated calls label identically.
var mockScenes = []struct {
	token  string
	labels []string
}{
	{"accident", []string{"vehicle", "damage", "road"}},
	{"crash", []string{"vehicle", "crash", "damage"}},
	{"pothole", []string{"pothole", "hole", "road"}},
	{"flood", []string{"water", "flood", "road"}},
	{"waterlogging", []string{"water", "road"}},
	{"jam", []string{"traffic", "congestion", "vehicle"}},
	{"construction", []string{"construction", "crane", "barrier"}},
	{"fire", []string{"fire", "smoke"}},
}

// Label derives labels from the image URL.
func (m *MockLabeler) Label(ctx context.Context, imageURL string) (*Analysis, error) {
	url := strings.ToLower(imageURL)

	seen := make(map[string]bool)
	var labels []string
	for _, scene := range mockScenes {
		if !strings.Contains(url, scene.token) {
			continue
		}
		for _, label := range scene.labels {
			if seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}
	if labels == nil {
		labels = []string{"road"}
	}

	return &Analysis{
		Labels:     labels,
		Confidence: 0.9,
		Caption:    "mock analysis",
	}, nil
}
