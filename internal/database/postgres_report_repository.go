package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/models"
)

// PostgresReportRepository implements ingestion.ReportStore using PostgreSQL.
type PostgresReportRepository struct {
	db *sql.DB
}

// NewPostgresReportRepository creates a new PostgreSQL report repository.
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// EnsureSchema creates the reports table if it does not exist.
func (r *PostgresReportRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reports (
			id          TEXT PRIMARY KEY,
			latitude    DOUBLE PRECISION NOT NULL,
			longitude   DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url   TEXT,
			sentiment   JSONB,
			reported_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS reports_reported_at_idx ON reports (reported_at DESC);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure reports schema: %w", err)
	}
	return nil
}

// Store inserts a report, overwriting any previous row with the same ID.
func (r *PostgresReportRepository) Store(ctx context.Context, report models.Report) error {
	var sentimentJSON []byte
	if report.Sentiment != nil {
		var err error
		sentimentJSON, err = json.Marshal(report.Sentiment)
		if err != nil {
			return fmt.Errorf("failed to marshal sentiment: %w", err)
		}
	}

	query := `
		INSERT INTO reports (id, latitude, longitude, description, image_url, sentiment, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			sentiment = EXCLUDED.sentiment,
			reported_at = EXCLUDED.reported_at
	`

	var imageURL *string
	if report.ImageURL != "" {
		imageURL = &report.ImageURL
	}

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Latitude,
		report.Longitude,
		report.Description,
		imageURL,
		nullableJSON(sentimentJSON),
		report.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Recent retrieves reports from the lookback window ending now, newest first.
func (r *PostgresReportRepository) Recent(ctx context.Context, lookback time.Duration) ([]models.Report, error) {
	query := `
		SELECT id, latitude, longitude, description, image_url, sentiment, reported_at
		FROM reports
		WHERE reported_at > $1
		ORDER BY reported_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, time.Now().Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		var imageURL sql.NullString
		var sentimentJSON []byte

		err := rows.Scan(
			&report.ID,
			&report.Latitude,
			&report.Longitude,
			&report.Description,
			&imageURL,
			&sentimentJSON,
			&report.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		if imageURL.Valid {
			report.ImageURL = imageURL.String
		}
		if len(sentimentJSON) > 0 {
			var sentiment models.SentimentResult
			if err := json.Unmarshal(sentimentJSON, &sentiment); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sentiment: %w", err)
			}
			report.Sentiment = &sentiment
		}

		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// Count returns the total number of stored reports.
func (r *PostgresReportRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// nullableJSON maps an empty payload to SQL NULL instead of an empty string,
// which JSONB would reject.
func nullableJSON(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	return payload
}
