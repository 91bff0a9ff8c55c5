package summarizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civicpulse/civicpulse/internal/models"
	"github.com/civicpulse/civicpulse/internal/sentiment"
)

// summaryCategories fixes the order categories appear in narrative text and
// highlights.
var summaryCategories = []string{"traffic", "safety", "infrastructure", "power", "water", "weather"}

// categoryKeywords drives the multi-category counting: a report counts
// toward every category whose keywords its description contains.
var categoryKeywords = map[string][]string{
	"traffic":        {"traffic", "congestion", "jam"},
	"safety":         {"accident", "safety", "dangerous"},
	"infrastructure": {"pothole", "road", "construction"},
	"power":          {"power", "electricity"},
	"water":          {"water", "supply"},
	"weather":        {"rain", "weather"},
}

// Generator builds per-zone narrative summaries from a zone's report slice.
// It leans on the sentiment analyzer for reports that arrived without a
// stored sentiment.
type Generator struct {
	analyzer *sentiment.Analyzer
}

// NewGenerator creates a summary generator backed by the given analyzer.
func NewGenerator(analyzer *sentiment.Analyzer) *Generator {
	return &Generator{analyzer: analyzer}
}

// Summarize digests one zone's reports for the window into a narrative
// summary. An empty slice yields the canned quiet summary with neutral mood
// and stable trend, never an error.
func (g *Generator) Summarize(zone string, reports []models.Report, windowHours int) models.AreaSummary {
	now := time.Now()
	summary := models.AreaSummary{
		ID:        fmt.Sprintf("summary_%s_%d", zone, now.UnixMilli()),
		Zone:      zone,
		TimeRange: fmt.Sprintf("Last %d hours", windowHours),
		MoodAnalysis: models.MoodAnalysis{
			OverallMood: models.MoodNeutral,
			MoodTrend:   models.TrendStable,
			TopConcerns: []models.Mood{},
		},
		GeneratedAt: now,
	}

	if len(reports) == 0 {
		summary.Summary = fmt.Sprintf("No significant activity reported in %s in the last %d hours.", zone, windowHours)
		summary.KeyHighlights = []string{"Area is currently quiet"}
		summary.Trends = []string{"No trends detected"}
		summary.Recommendations = []string{"Continue monitoring"}
		return summary
	}

	categories := categorize(reports)
	summary.MoodAnalysis = g.moodAnalysis(reports)
	summary.Trends = identifyTrends(categories)
	summary.Recommendations = recommend(categories, summary.MoodAnalysis.MoodTrend)
	summary.KeyHighlights = keyHighlights(categories, len(reports))
	summary.Summary = narrative(zone, len(reports), windowHours, categories, summary.MoodAnalysis)

	return summary
}

// categorize counts reports per category; a report may land in several.
func categorize(reports []models.Report) map[string]int {
	counts := make(map[string]int, len(summaryCategories))
	for _, report := range reports {
		text := strings.ToLower(report.Description)
		for category, keywords := range categoryKeywords {
			for _, keyword := range keywords {
				if strings.Contains(text, keyword) {
					counts[category]++
					break
				}
			}
		}
	}
	return counts
}

// moodAnalysis derives the dominant mood, its trend across the window and
// the leading concerns. Reports without a stored sentiment are analyzed on
// the fly.
func (g *Generator) moodAnalysis(reports []models.Report) models.MoodAnalysis {
	moods := make([]models.Mood, len(reports))
	counts := make(map[models.Mood]int)
	for i, report := range reports {
		moods[i] = g.moodOf(report)
		counts[moods[i]]++
	}

	// Most-recent half vs the remainder decides the trend direction.
	ordered := make([]int, len(reports))
	for i := range ordered {
		ordered[i] = i
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return reports[ordered[a]].Timestamp.After(reports[ordered[b]].Timestamp)
	})

	split := (len(reports) + 1) / 2
	recentPositive, olderPositive := 0, 0
	for rank, idx := range ordered {
		mood := moods[idx]
		if mood != models.MoodPositive && mood != models.MoodSatisfied {
			continue
		}
		if rank < split {
			recentPositive++
		} else {
			olderPositive++
		}
	}

	trend := models.TrendStable
	if recentPositive > olderPositive {
		trend = models.TrendImproving
	} else if recentPositive < olderPositive {
		trend = models.TrendWorsening
	}

	return models.MoodAnalysis{
		OverallMood: sentiment.DominantMood(counts),
		MoodTrend:   trend,
		TopConcerns: topConcerns(counts),
	}
}

func (g *Generator) moodOf(report models.Report) models.Mood {
	if report.Sentiment != nil {
		return report.Sentiment.Mood
	}
	if strings.TrimSpace(report.Description) == "" {
		return models.MoodNeutral
	}
	return g.analyzer.Analyze(report.Description).Mood
}

// topConcerns picks up to three of the worried moods, most frequent first.
func topConcerns(counts map[models.Mood]int) []models.Mood {
	concernMoods := []models.Mood{models.MoodFrustrated, models.MoodConcerned, models.MoodNegative}

	var concerns []models.Mood
	for _, mood := range concernMoods {
		if counts[mood] > 0 {
			concerns = append(concerns, mood)
		}
	}
	sort.SliceStable(concerns, func(a, b int) bool {
		return counts[concerns[a]] > counts[concerns[b]]
	})
	if len(concerns) > 3 {
		concerns = concerns[:3]
	}
	if concerns == nil {
		concerns = []models.Mood{}
	}
	return concerns
}

func identifyTrends(categories map[string]int) []string {
	var trends []string
	if categories["traffic"] > 3 {
		trends = append(trends, "Increasing traffic congestion")
	}
	if categories["safety"] > 2 {
		trends = append(trends, "Rising safety concerns")
	}
	if categories["infrastructure"] > 2 {
		trends = append(trends, "Infrastructure issues on the rise")
	}
	if len(trends) == 0 {
		trends = []string{"No significant trends detected"}
	}
	return trends
}

func recommend(categories map[string]int, trend models.MoodTrend) []string {
	var recs []string
	if categories["traffic"] > 3 {
		recs = append(recs, "Consider alternative routes during peak hours")
	}
	if categories["safety"] > 2 {
		recs = append(recs, "Exercise caution in affected areas")
	}
	if trend == models.TrendWorsening {
		recs = append(recs, "Monitor situation closely for further developments")
	}
	if len(recs) == 0 {
		recs = []string{"Continue monitoring the area"}
	}
	return recs
}

func keyHighlights(categories map[string]int, total int) []string {
	var highlights []string
	for _, category := range summaryCategories {
		if count := categories[category]; count > 2 {
			highlights = append(highlights, fmt.Sprintf("%d %s issues reported", count, category))
		}
	}
	if len(highlights) == 0 {
		highlights = []string{fmt.Sprintf("%d total reports", total)}
	}
	return highlights
}

func narrative(zone string, total, windowHours int, categories map[string]int, mood models.MoodAnalysis) string {
	var parts []string
	for _, category := range summaryCategories {
		if count := categories[category]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s issues", count, category))
		}
	}

	lead := fmt.Sprintf("%s experienced %d reports in the last %d hours", zone, total, windowHours)
	if len(parts) > 0 {
		lead += ", primarily " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s. Overall mood is %s with a %s trend.", lead, mood.OverallMood, mood.MoodTrend)
}
