package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware holds the HTTP metrics registered against a single
// registry: a request counter, a latency histogram and an in-progress gauge.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inProgress      prometheus.Gauge
}

// NewPrometheusMiddleware creates a PrometheusMiddleware and registers its
// collectors with reg. Use a fresh registry per instance; duplicate
// registration returns an error rather than panicking.
func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inProgress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inprogress_requests",
				Help: "Number of requests currently being served.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration, m.inProgress} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the fiber middleware handler.
func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The metrics endpoint itself is not measured
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		m.inProgress.Inc()

		err := c.Next()

		// Use the route pattern (e.g. /work/runs) rather than the raw path.
		// Unmatched requests report the catch-all "/" pattern; those get the
		// raw path so 404s stay distinguishable.
		path := c.Route().Path
		if path == "/" && c.Path() != "/" {
			path = c.Path()
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.requestCount.WithLabelValues(
			c.Method(),
			path,
			strconv.Itoa(status),
		).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).
			Observe(time.Since(start).Seconds())
		m.inProgress.Dec()

		return err
	}
}
