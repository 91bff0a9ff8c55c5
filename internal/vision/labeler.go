package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/civicpulse/civicpulse/internal/triage"
)

// Analysis is the label set extracted from a report photo. Labels are
// lowercase tokens such as "vehicle" or "pothole" that feed the triage
// classifier's image keyword matching.
type Analysis struct {
	Labels     []string `json:"labels"`
	Confidence float64  `json:"confidence"`
	Caption    string   `json:"caption,omitempty"`
}

// ImageContext converts the analysis into the triage classifier's input form.
func (a Analysis) ImageContext() triage.ImageContext {
	return triage.ImageContext{
		Tokens:     a.Labels,
		Confidence: a.Confidence,
	}
}

// Labeler extracts scene labels from a report image.
type Labeler interface {
	// Label analyzes the image at the given URL.
	Label(ctx context.Context, imageURL string) (*Analysis, error)
}

// Config holds configuration for the OpenAI vision labeler.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns sensible defaults for scene labeling.
func DefaultConfig() Config {
	return Config{
		Model:       openai.GPT4oMini,
		Temperature: 0.1,
		MaxTokens:   200,
		Timeout:     30 * time.Second,
	}
}

// OpenAILabeler labels report images through the OpenAI vision API.
type OpenAILabeler struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

// NewOpenAILabeler creates an OpenAI-backed labeler.
func NewOpenAILabeler(config Config, logger *slog.Logger) *OpenAILabeler {
	return &OpenAILabeler{
		client: openai.NewClient(config.APIKey),
		config: config,
		logger: logger,
	}
}

const labelPrompt = `You are labeling a photo attached to a civic traffic report.
List the road-scene elements you see as lowercase single-word labels separated
by commas. Use labels from this vocabulary where they apply: vehicle, car,
truck, damage, crash, pothole, hole, crack, water, flood, road, street,
traffic, congestion, jam, construction, crane, barrier, debris, fire, smoke,
pole, wire, crowd. Answer with the label list only.`

// Label analyzes the image at the given URL.
func (l *OpenAILabeler) Label(ctx context.Context, imageURL string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       l.config.Model,
		Temperature: l.config.Temperature,
		MaxTokens:   l.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: labelPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailLow},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision labeling failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision labeling returned no choices")
	}

	content := resp.Choices[0].Message.Content
	labels := parseLabels(content)

	l.logger.Debug("labeled report image",
		"labels", len(labels),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Analysis{
		Labels:     labels,
		Confidence: modelLabelConfidence,
		Caption:    content,
	}, nil
}

// modelLabelConfidence is the flat confidence assigned to model-produced
// labels. The API does not expose per-label scores.
const modelLabelConfidence = 0.85

func parseLabels(content string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, part := range strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		label := strings.ToLower(strings.TrimSpace(part))
		label = strings.Trim(label, ".")
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}
