package ingestion

import (
	"fmt"

	"github.com/civicpulse/civicpulse/internal/models"
)

// ValidationError describes why a report was rejected.
type ValidationError struct {
	ReportID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report %q: invalid %s: %s", e.ReportID, e.Field, e.Reason)
}

// ValidateReport checks a report for the fields the analysis pipeline
// depends on. Descriptions may be empty; sentiment analysis treats an empty
// description as neutral.
func ValidateReport(report models.Report) error {
	if report.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if report.Latitude < -90 || report.Latitude > 90 {
		return &ValidationError{ReportID: report.ID, Field: "latitude", Reason: fmt.Sprintf("%f out of range [-90, 90]", report.Latitude)}
	}
	if report.Longitude < -180 || report.Longitude > 180 {
		return &ValidationError{ReportID: report.ID, Field: "longitude", Reason: fmt.Sprintf("%f out of range [-180, 180]", report.Longitude)}
	}
	if report.Timestamp.IsZero() {
		return &ValidationError{ReportID: report.ID, Field: "timestamp", Reason: "must be set"}
	}
	return nil
}

// Sanitize drops invalid reports from a batch and reports how many were
// skipped. A single malformed report never fails an analysis run.
func Sanitize(reports []models.Report) (valid []models.Report, skipped int) {
	valid = make([]models.Report, 0, len(reports))
	for _, report := range reports {
		if err := ValidateReport(report); err != nil {
			skipped++
			continue
		}
		valid = append(valid, report)
	}
	return valid, skipped
}
