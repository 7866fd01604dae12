// Package metrics exposes prometheus collectors for the lookup API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	"github.com/i474232898/weather-history/internal/weather"
)

const namespace = "weather_history"

// unmatchedRoute labels requests that did not hit a registered route.
const unmatchedRoute = "unmatched"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	dataset  *prometheus.GaugeVec

	total  atomic.Uint64
	failed atomic.Uint64
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"route", "method"}),
		dataset: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_entries",
			Help:      "Number of loaded entries per dataset level.",
		}, []string{"level"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.dataset,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SetDataset publishes the size of the loaded dataset.
func (m *Metrics) SetDataset(s weather.Stats) {
	m.dataset.WithLabelValues("countries").Set(float64(s.Countries))
	m.dataset.WithLabelValues("cities").Set(float64(s.Cities))
	m.dataset.WithLabelValues("records").Set(float64(s.Records))
}

// Totals returns the number of requests served and how many ended with 5xx.
func (m *Metrics) Totals() (total, failed uint64) {
	return m.total.Load(), m.failed.Load()
}

// Middleware records every request. It must run outside the access log so
// the response status is final when it is read.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if route == "/" && c.Path() != "/" {
			route = unmatchedRoute
		}

		m.requests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())

		m.total.Inc()
		if status >= fiber.StatusInternalServerError {
			m.failed.Inc()
		}
		return err
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
