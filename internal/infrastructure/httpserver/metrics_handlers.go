package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HTTP collectors live on the default registry next to the feed cache counters,
// so a single /metrics scrape covers both.
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	metricsHandler = echo.WrapHandler(promhttp.Handler())
)

func (s *Server) logMetricsInitialization() {
	s.logger.WithFields(logrus.Fields{
		"endpoint": "/metrics",
		"http":     "http_requests_total, http_request_duration_seconds",
		"cache":    "news_cache_hits_total, news_cache_misses_total",
	}).Debug("Prometheus collectors registered")
}

func (s *Server) metricsEndpoint(c echo.Context) error {
	return metricsHandler(c)
}
