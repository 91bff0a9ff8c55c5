package sentiment

import (
	"github.com/civicpulse/civicpulse/internal/models"
)

// MoodShare is one mood's slice of a report batch.
type MoodShare struct {
	Mood       models.Mood `json:"mood"`
	Count      int         `json:"count"`
	Percentage float64     `json:"percentage"`
}

// BatchTrends aggregates per-report sentiment over a batch.
type BatchTrends struct {
	Results          []models.SentimentResult `json:"results"`
	MoodCounts       map[models.Mood]int      `json:"mood_counts"`
	MoodShares       []MoodShare              `json:"mood_shares"`
	DominantMood     models.Mood              `json:"dominant_mood"`
	TotalReports     int                      `json:"total_reports"`
	AverageSentiment float64                  `json:"average_sentiment"`
}

// Trends analyzes each report and aggregates mood counts, shares and the
// average sentiment score. An empty batch yields a neutral dominant mood.
func (a *Analyzer) Trends(reports []models.Report) BatchTrends {
	trends := BatchTrends{
		MoodCounts:   make(map[models.Mood]int, len(models.MoodOrder)),
		DominantMood: models.MoodNeutral,
		TotalReports: len(reports),
	}

	if len(reports) == 0 {
		return trends
	}

	sum := 0.0
	for _, report := range reports {
		result := a.Analyze(report.Description)
		trends.Results = append(trends.Results, result)
		trends.MoodCounts[result.Mood]++
		sum += result.Score
	}
	trends.AverageSentiment = sum / float64(len(reports))

	for _, mood := range models.MoodOrder {
		count := trends.MoodCounts[mood]
		trends.MoodShares = append(trends.MoodShares, MoodShare{
			Mood:       mood,
			Count:      count,
			Percentage: float64(count) / float64(len(reports)) * 100,
		})
	}

	trends.DominantMood = DominantMood(trends.MoodCounts)
	return trends
}

// DominantMood picks the mood with the highest count, breaking ties in
// favor of the earlier entry in models.MoodOrder.
func DominantMood(counts map[models.Mood]int) models.Mood {
	dominant := models.MoodOrder[0]
	for _, mood := range models.MoodOrder[1:] {
		if counts[mood] > counts[dominant] {
			dominant = mood
		}
	}
	return dominant
}
