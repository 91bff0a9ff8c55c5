package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and for
// the periodic analysis runs.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	analysisRuns     prometheus.Counter
	analysisDuration prometheus.Histogram
	patternsDetected *prometheus.GaugeVec
	alertsGenerated  prometheus.Gauge
	reportsSkipped   prometheus.Counter
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civicpulse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicpulse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	analysisRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "civicpulse",
		Subsystem: "analysis",
		Name:      "runs_total",
		Help:      "Total number of completed analysis runs.",
	})

	analysisDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "civicpulse",
		Subsystem: "analysis",
		Name:      "run_duration_seconds",
		Help:      "Latency distribution for analysis runs.",
		Buckets:   prometheus.DefBuckets,
	})

	patternsDetected := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "civicpulse",
		Subsystem: "analysis",
		Name:      "patterns_detected",
		Help:      "Patterns found by the most recent analysis run, by category.",
	}, []string{"category"})

	alertsGenerated := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "civicpulse",
		Subsystem: "analysis",
		Name:      "alerts_generated",
		Help:      "Alerts produced by the most recent analysis run.",
	})

	reportsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "civicpulse",
		Subsystem: "analysis",
		Name:      "reports_skipped_total",
		Help:      "Total number of malformed reports dropped before analysis.",
	})

	collectors := []prometheus.Collector{
		requestDuration, requestTotal,
		analysisRuns, analysisDuration, patternsDetected, alertsGenerated, reportsSkipped,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:         registry,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		analysisRuns:     analysisRuns,
		analysisDuration: analysisDuration,
		patternsDetected: patternsDetected,
		alertsGenerated:  alertsGenerated,
		reportsSkipped:   reportsSkipped,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// ObserveAnalysisRun records the outcome of one analysis run.
func (c *Collector) ObserveAnalysisRun(duration time.Duration, patternsByCategory map[string]int, alerts, skipped int) {
	c.analysisRuns.Inc()
	c.analysisDuration.Observe(duration.Seconds())
	c.patternsDetected.Reset()
	for category, count := range patternsByCategory {
		c.patternsDetected.WithLabelValues(category).Set(float64(count))
	}
	c.alertsGenerated.Set(float64(alerts))
	if skipped > 0 {
		c.reportsSkipped.Add(float64(skipped))
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
