package router

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	v1 "github.com/budgetmaster/backend/internal/controllers/v1"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatched is the route label of requests that no handler matched.
const unmatched = "unmatched"

// HTTP metrics are labelled with the route template, so identities in the
// path do not create new series.
var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "budgetmaster",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by status code, method and route.",
		},
		[]string{"code", "method", "route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "budgetmaster",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds. Event streams are observed when they close.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"code", "method", "route"},
	)
)

func collectors() []prometheus.Collector {
	return append([]prometheus.Collector{requestCount, requestDuration}, v1.Metrics...)
}

// registerMetrics registers all collectors with reg. Collectors that are
// registered already are kept.
func registerMetrics(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		err := reg.Register(c)

		var already prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &already) {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}

	return nil
}

// unregisterMetrics reports whether every collector was registered.
func unregisterMetrics(reg prometheus.Registerer) bool {
	ok := true
	for _, c := range collectors() {
		ok = reg.Unregister(c) && ok
	}

	return ok
}

// MetricsMiddleware counts requests and observes their duration.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatched
		}

		labels := prometheus.Labels{
			"code":   strconv.Itoa(c.Writer.Status()),
			"method": c.Request.Method,
			"route":  route,
		}
		requestCount.With(labels).Inc()
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
