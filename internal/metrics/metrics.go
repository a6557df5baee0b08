// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the feed cache.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors registered for the application.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	feedCacheHits   prometheus.Counter
	feedCacheMisses prometheus.Counter
}

// New creates the collectors on a private registry so tests can build
// independent instances.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		feedCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_cache_hits_total",
			Help: "Number of feed page requests served from cache.",
		}),
		feedCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_cache_misses_total",
			Help: "Number of feed page requests that queried storage.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.feedCacheHits,
		m.feedCacheMisses,
	)
	return m
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RequestMiddleware records a counter and latency sample per request, keyed
// by the route template rather than the raw path.
func (m *Metrics) RequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// FeedCacheHit implements services.FeedMetrics.
func (m *Metrics) FeedCacheHit() { m.feedCacheHits.Inc() }

// FeedCacheMiss implements services.FeedMetrics.
func (m *Metrics) FeedCacheMiss() { m.feedCacheMisses.Inc() }
