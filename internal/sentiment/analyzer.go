package sentiment

import (
	"math"
	"strings"

	"github.com/civicpulse/civicpulse/internal/models"
)

// Config holds the keyword and weight tables the analyzer scores against.
// The tables are injected rather than read from package globals so tests can
// substitute their own vocabularies.
type Config struct {
	Keywords map[models.Mood][]string
	Weights  map[models.Mood]float64
}

// DefaultConfig returns the production vocabulary. Multi-word entries only
// ever match when the tokenizer produces them as a single token, which it
// does not; they are kept for parity with the report-intake vocabulary.
func DefaultConfig() Config {
	return Config{
		Keywords: map[models.Mood][]string{
			models.MoodPositive:   {"good", "great", "excellent", "amazing", "wonderful", "fantastic", "perfect", "smooth", "clear", "fixed", "resolved", "improved"},
			models.MoodNegative:   {"bad", "terrible", "awful", "horrible", "disgusting", "filthy", "broken", "damaged", "destroyed"},
			models.MoodFrustrated: {"frustrated", "angry", "annoyed", "irritated", "fed up", "tired", "sick of", "hate", "dislike", "upset"},
			models.MoodConcerned:  {"worried", "concerned", "scared", "afraid", "dangerous", "unsafe", "risky", "problem", "issue", "trouble"},
			models.MoodSatisfied:  {"happy", "pleased", "satisfied", "content", "relieved", "thankful", "grateful", "appreciate"},
			models.MoodNeutral:    {"normal", "okay", "fine", "average", "usual", "regular", "standard"},
		},
		Weights: map[models.Mood]float64{
			models.MoodPositive:   1.0,
			models.MoodNegative:   1.0,
			models.MoodFrustrated: 1.5,
			models.MoodConcerned:  1.2,
			models.MoodSatisfied:  1.0,
			models.MoodNeutral:    0.5,
		},
	}
}

// Analyzer scores free-form report text against mood vocabularies.
// It is stateless; Analyze is safe for concurrent use.
type Analyzer struct {
	cfg      Config
	keywords map[models.Mood]map[string]bool
}

// NewAnalyzer creates an analyzer for the given vocabulary.
func NewAnalyzer(cfg Config) *Analyzer {
	keywords := make(map[models.Mood]map[string]bool, len(cfg.Keywords))
	for mood, words := range cfg.Keywords {
		set := make(map[string]bool, len(words))
		for _, word := range words {
			set[word] = true
		}
		keywords[mood] = set
	}
	return &Analyzer{cfg: cfg, keywords: keywords}
}

// Analyze classifies the text's dominant mood, sentiment score, confidence
// and matched keywords. The result is deterministic for a given input and
// never fails; text with no vocabulary hits degrades to a zero-score result.
func (a *Analyzer) Analyze(text string) models.SentimentResult {
	words := strings.Fields(strings.ToLower(text))

	scores := make(map[models.Mood]float64, len(models.MoodOrder))
	var found []string
	seen := make(map[string]bool)

	for _, word := range words {
		clean := cleanToken(word)
		if clean == "" {
			continue
		}
		for _, mood := range models.MoodOrder {
			if a.keywords[mood][clean] {
				scores[mood] += a.cfg.Weights[mood]
				if !seen[clean] {
					seen[clean] = true
					found = append(found, clean)
				}
			}
		}
	}

	total := 0.0
	for _, score := range scores {
		total += score
	}

	// Highest bucket wins; exact ties go to the earlier entry in MoodOrder.
	dominant := models.MoodOrder[0]
	for _, mood := range models.MoodOrder[1:] {
		if scores[mood] > scores[dominant] {
			dominant = mood
		}
	}

	confidence := 0.0
	if len(words) > 0 {
		confidence = math.Min(total/float64(len(words))*10, 1)
	}

	var score float64
	switch dominant {
	case models.MoodPositive, models.MoodSatisfied:
		score = math.Min((scores[models.MoodPositive]+scores[models.MoodSatisfied])/5, 1)
	case models.MoodNegative, models.MoodFrustrated:
		score = -math.Min((scores[models.MoodNegative]+scores[models.MoodFrustrated])/5, 1)
	case models.MoodConcerned:
		score = -0.3
	default:
		score = 0
	}

	if found == nil {
		found = []string{}
	}

	return models.SentimentResult{
		Mood:       dominant,
		Score:      score,
		Confidence: confidence,
		Keywords:   found,
		Emotion:    dominant.Emotion(),
	}
}

// cleanToken strips everything but letters, digits and underscores.
func cleanToken(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
