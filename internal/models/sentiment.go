package models

// Mood classifies the dominant emotion expressed in a report's text.
type Mood string

const (
	MoodPositive   Mood = "positive"
	MoodNegative   Mood = "negative"
	MoodNeutral    Mood = "neutral"
	MoodFrustrated Mood = "frustrated"
	MoodConcerned  Mood = "concerned"
	MoodSatisfied  Mood = "satisfied"
)

// MoodOrder is the fixed enumeration order used wherever ties between mood
// buckets must be broken deterministically (the first bucket wins).
var MoodOrder = []Mood{
	MoodPositive,
	MoodNegative,
	MoodFrustrated,
	MoodConcerned,
	MoodSatisfied,
	MoodNeutral,
}

// Emotion returns the display label for the mood.
func (m Mood) Emotion() string {
	switch m {
	case MoodPositive:
		return "Happy"
	case MoodNegative:
		return "Angry"
	case MoodFrustrated:
		return "Frustrated"
	case MoodConcerned:
		return "Worried"
	case MoodSatisfied:
		return "Satisfied"
	default:
		return "Neutral"
	}
}

// SentimentResult is the output of the keyword-based text classifier.
// Score ranges over [-1, 1], Confidence over [0, 1].
type SentimentResult struct {
	Mood       Mood     `json:"mood"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
	Emotion    string   `json:"emotion"`
}
