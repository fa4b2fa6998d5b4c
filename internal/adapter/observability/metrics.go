package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI evaluation requests by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"backend"},
	)

	PipelineEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_enqueued_total",
			Help: "Total number of candidate pipeline runs enqueued",
		},
	)
	PipelineRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_running",
			Help: "Number of pipeline runs currently processing",
		},
	)
	PipelineCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_completed_total",
			Help: "Total number of pipeline runs ending DONE",
		},
	)
	PipelineFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_failed_total",
			Help: "Total number of pipeline runs ending FAILED, by stage",
		},
		[]string{"stage"},
	)

	FitScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_fit_score",
			Help:    "Distribution of fit scores in [1,10]",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)
)

// InitMetrics registers all metrics with the default registry. Call once
// per process.
func InitMetrics() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AIRequestsTotal,
		AIRequestDuration,
		PipelineEnqueuedTotal,
		PipelineRunning,
		PipelineCompletedTotal,
		PipelineFailedTotal,
		FitScoreHistogram,
	)
}

// HTTPMetricsMiddleware records request counts and latency per route.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
