package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "prize_draw",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prize_draw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prize_draw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	ticketsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prize_draw",
			Subsystem: "ledger",
			Name:      "tickets_issued_total",
			Help:      "Total number of tickets written to the ledger.",
		},
	)

	allocationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prize_draw",
			Subsystem: "ledger",
			Name:      "allocation_retries_total",
			Help:      "Ticket batches retried after a numbering conflict.",
		},
	)

	winnerMarks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prize_draw",
			Subsystem: "winner",
			Name:      "marks_total",
			Help:      "Winner flag changes by action and result.",
		},
		[]string{"action", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ticketsIssued,
		allocationRetries,
		winnerMarks,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTicketsIssued counts tickets committed by one issuance.
func RecordTicketsIssued(n int) {
	if n > 0 {
		ticketsIssued.Add(float64(n))
	}
}

// RecordAllocationRetry counts one whole-batch retry.
func RecordAllocationRetry() {
	allocationRetries.Inc()
}

// RecordWinnerMark counts a winner flag change attempt.
func RecordWinnerMark(isWinner bool, result string) {
	action := "clear"
	if isWinner {
		action = "select"
	}
	if result == "" {
		result = "unknown"
	}
	winnerMarks.WithLabelValues(action, result).Inc()
}
