package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes used as metric labels.
const (
	outcomeAccepted    = "accepted"
	outcomeInvalid     = "invalid"
	outcomeRateLimited = "rate_limited"
	outcomeNotFound    = "not_found"
	outcomeError       = "error"
)

type metrics struct {
	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	commentSubmissions *prometheus.CounterVec
	suggestions        *prometheus.CounterVec
	postReads          prometheus.Counter
}

// newMetrics registers collectors on a registry owned by one router.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		commentSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_comment_submissions_total",
			Help: "Comment submissions by outcome.",
		}, []string{"outcome"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_suggestion_submissions_total",
			Help: "Suggestion submissions by outcome.",
		}, []string{"outcome"}),
		postReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_post_reads_total",
			Help: "Blog detail pages served.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.commentSubmissions,
		m.suggestions,
		m.postReads,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware records every request under its chi route pattern.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(srw.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
