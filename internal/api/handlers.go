package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/civicpulse/civicpulse/internal/engine"
	"github.com/civicpulse/civicpulse/internal/ingestion"
	"github.com/civicpulse/civicpulse/internal/models"
	"github.com/civicpulse/civicpulse/internal/sentiment"
	"github.com/civicpulse/civicpulse/internal/triage"
	"github.com/civicpulse/civicpulse/internal/vision"
)

type Handler struct {
	engine     *engine.Engine
	classifier *triage.Classifier
	analyzer   *sentiment.Analyzer
	labeler    vision.Labeler
	store      ingestion.ReportStore
	logger     *slog.Logger
	startTime  time.Time
}

// NewHandler creates the API handler. The store may be nil when report
// submission over HTTP is disabled.
func NewHandler(
	eng *engine.Engine,
	classifier *triage.Classifier,
	analyzer *sentiment.Analyzer,
	labeler vision.Labeler,
	store ingestion.ReportStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		engine:     eng,
		classifier: classifier,
		analyzer:   analyzer,
		labeler:    labeler,
		store:      store,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// PatternsResponse wraps the pattern list for GET /api/patterns.
type PatternsResponse struct {
	Patterns    []models.EventPattern `json:"patterns"`
	Count       int                   `json:"count"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// GetPatternsHandler handles GET /api/patterns
func (h *Handler) GetPatternsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.engine.Latest()
	patterns := snapshot.Patterns
	if patterns == nil {
		patterns = []models.EventPattern{}
	}

	writeJSON(w, h.logger, PatternsResponse{
		Patterns:    patterns,
		Count:       len(patterns),
		GeneratedAt: snapshot.GeneratedAt,
	})
}

// AlertsResponse wraps the alert list for GET /api/alerts.
type AlertsResponse struct {
	Alerts      []models.PredictiveAlert `json:"alerts"`
	Count       int                      `json:"count"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// GetAlertsHandler handles GET /api/alerts
func (h *Handler) GetAlertsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.engine.Latest()
	alerts := snapshot.Alerts
	if alerts == nil {
		alerts = []models.PredictiveAlert{}
	}

	writeJSON(w, h.logger, AlertsResponse{
		Alerts:      alerts,
		Count:       len(alerts),
		GeneratedAt: snapshot.GeneratedAt,
	})
}

// NotificationsResponse wraps the feed for GET /api/notifications.
type NotificationsResponse struct {
	Notifications []models.IntelligentNotification `json:"notifications"`
	Count         int                              `json:"count"`
}

// GetNotificationsHandler handles GET /api/notifications. Optional query
// parameters zones and interests (comma separated) filter the feed the way a
// stored subscription would.
func (h *Handler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	zones := splitParam(r.URL.Query().Get("zones"))
	interests := splitParam(r.URL.Query().Get("interests"))

	var notifications []models.IntelligentNotification
	if len(zones) > 0 || len(interests) > 0 {
		notifications = h.engine.Personalized(now, models.Subscription{
			Zones:     zones,
			Interests: interests,
		})
	} else {
		notifications = h.engine.Notifications(now)
	}
	if notifications == nil {
		notifications = []models.IntelligentNotification{}
	}

	writeJSON(w, h.logger, NotificationsResponse{
		Notifications: notifications,
		Count:         len(notifications),
	})
}

// ZonesResponse lists the zones reports resolve into.
type ZonesResponse struct {
	Zones []string `json:"zones"`
}

// GetZonesHandler handles GET /api/zones
func (h *Handler) GetZonesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, ZonesResponse{Zones: h.engine.Zones()})
}

// GetZoneSummaryHandler handles GET /api/zones/:zone/summary
func (h *Handler) GetZoneSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /api/zones/{zone}/summary
	trimmed := strings.TrimPrefix(r.URL.Path, "/api/zones/")
	zone := strings.TrimSuffix(trimmed, "/summary")
	zone, err := unescapeZone(zone)
	if err != nil || zone == "" {
		http.Error(w, "Zone required", http.StatusBadRequest)
		return
	}

	if !h.knownZone(zone) {
		http.Error(w, "Unknown zone", http.StatusNotFound)
		return
	}

	summary, err := h.engine.ZoneSummary(r.Context(), zone)
	if err != nil {
		h.logger.Error("failed to build zone summary", "zone", zone, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, summary)
}

// ClassifyRequest is the POST /api/reports/classify payload.
type ClassifyRequest struct {
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ClassifyResponse carries the triage assessment for one report.
type ClassifyResponse struct {
	Zone       string                 `json:"zone"`
	Sentiment  models.SentimentResult `json:"sentiment"`
	Assessment triage.Assessment      `json:"assessment"`
	Image      *vision.Analysis       `json:"image,omitempty"`
}

// ClassifyReportHandler handles POST /api/reports/classify
func (h *Handler) ClassifyReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Description) == "" && req.ImageURL == "" {
		http.Error(w, "Description or image_url required", http.StatusBadRequest)
		return
	}

	var (
		imgCtx   triage.ImageContext
		analysis *vision.Analysis
	)
	if req.ImageURL != "" && h.labeler != nil {
		result, err := h.labeler.Label(r.Context(), req.ImageURL)
		if err != nil {
			// Classification still works from text alone.
			h.logger.Warn("image labeling failed", "error", err)
		} else {
			analysis = result
			imgCtx = result.ImageContext()
		}
	}

	resp := ClassifyResponse{
		Zone:       h.resolveZone(req.Latitude, req.Longitude),
		Sentiment:  h.analyzer.Analyze(req.Description),
		Assessment: h.classifier.Classify(req.Description, imgCtx),
		Image:      analysis,
	}
	writeJSON(w, h.logger, resp)
}

// SubmitReportRequest is the POST /api/reports payload.
type SubmitReportRequest struct {
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// SubmitReportHandler handles POST /api/reports. The report is stored with
// its sentiment attached and picked up by the next analysis run.
func (h *Handler) SubmitReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.Error(w, "Report submission disabled", http.StatusServiceUnavailable)
		return
	}

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report := models.Report{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Timestamp:   time.Now(),
	}
	if strings.TrimSpace(req.Description) != "" {
		result := h.analyzer.Analyze(req.Description)
		report.Sentiment = &result
	}

	report.ID = newReportID()
	if err := ingestion.ValidateReport(report); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Store(r.Context(), report); err != nil {
		h.logger.Error("failed to store report", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"id":   report.ID,
		"zone": h.resolveZone(report.Latitude, report.Longitude),
	}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// HealthHandler handles GET /api/health
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.engine.Latest()
	writeJSON(w, h.logger, map[string]any{
		"status":           "ok",
		"uptime_seconds":   int64(time.Since(h.startTime).Seconds()),
		"last_analysis_at": snapshot.GeneratedAt,
	})
}

func (h *Handler) resolveZone(lat, lng float64) string {
	return h.engine.ResolveZone(lat, lng)
}

func unescapeZone(raw string) (string, error) {
	return url.PathUnescape(raw)
}

func newReportID() string {
	return uuid.NewString()
}

func (h *Handler) knownZone(zone string) bool {
	for _, name := range h.engine.Zones() {
		if name == zone {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS for dev
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
