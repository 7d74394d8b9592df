package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeTotal      *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propstore_http_requests_total",
				Help: "Total number of HTTP requests by method and status.",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propstore_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		storeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propstore_store_operations_total",
				Help: "Total number of store operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propstore_store_operation_duration_seconds",
				Help:    "Duration of store operations in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.storeTotal,
		m.storeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts requests and observes their duration.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		method := c.Method()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.requestTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveStore records one store operation started at start.
func (m *Metrics) ObserveStore(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeTotal.WithLabelValues(operation, outcome).Inc()
	m.storeDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// NewApp returns a Fiber app that only serves GET /metrics.
func (m *Metrics) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", m.Handler())
	return app
}
