// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for the API. Metrics() measures
// request counts, latencies, in-flight concurrency, and response sizes under
// the "aidex_http" namespace. Label cardinality is kept bounded:
//
//   - method:   HTTP verb (GET/POST/…)
//   - path:     the registered Gin route (e.g. /api/v1/items/:id); falls back
//     to the raw URL path when no route matched
//   - status:   numeric status code as a string ("200", "404")
//
// Because business failures ride on HTTP 200 envelopes, the status label
// reflects transport health only; per-code business failure rates come from
// logs and traces, not these collectors.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// reqCount counts requests by method, route path, and status code.
	reqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aidex",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// reqLatency records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality low.
	reqLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aidex",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// reqInFlight gauges the number of requests currently being processed.
	reqInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aidex",
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	// respBytes captures response sizes. Buckets cover small JSON envelopes
	// up to multi-megabyte paper downloads.
	respBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aidex",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 5 << 10,
				25 << 10, 100 << 10, 500 << 10,
				1 << 20, 5 << 20, 20 << 20,
			},
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(reqCount, reqLatency, reqInFlight, respBytes)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// The path label uses the registered route (c.FullPath()) so parameterized
// routes collapse to one series; unmatched requests fall back to the raw URL
// path. A negative response size (hijacked or bodiless responses) is skipped
// rather than recorded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqInFlight.Inc()
		defer reqInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		reqCount.WithLabelValues(method, path, status).Inc()
		reqLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			respBytes.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
