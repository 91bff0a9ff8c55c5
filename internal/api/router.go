package api

import (
	"net/http"
	"strings"
)

// SetupRoutes configures all API routes.
func SetupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("/api/patterns", handler.GetPatternsHandler)
	mux.HandleFunc("/api/alerts", handler.GetAlertsHandler)
	mux.HandleFunc("/api/notifications", handler.GetNotificationsHandler)

	mux.HandleFunc("/api/zones", handler.GetZonesHandler)
	mux.HandleFunc("/api/zones/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/summary") {
			handler.GetZoneSummaryHandler(w, r)
			return
		}
		http.Error(w, "Not found", http.StatusNotFound)
	})

	mux.HandleFunc("/api/reports", handler.SubmitReportHandler)
	mux.HandleFunc("/api/reports/classify", handler.ClassifyReportHandler)

	mux.HandleFunc("/api/health", handler.HealthHandler)
}
