package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/terraincognita07/cyclekit/internal/services"
)

const namespace = "cyclekit"

type Metrics struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cycleOperations  *prometheus.CounterVec
	remindersCreated *prometheus.CounterVec
	dispatchedTotal  *prometheus.CounterVec
	lastDispatchUnix prometheus.Gauge
}

// New registers every collector on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cycleOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cycles",
			Name:      "operations_total",
			Help:      "Cycle lifecycle operations by kind and outcome.",
		}, []string{"operation", "result"}),
		remindersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "created_total",
			Help:      "Reminders persisted by type.",
		}, []string{"type"}),
		dispatchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "dispatched_total",
			Help:      "Due reminders handed to the notifier by result.",
		}, []string{"result"}),
		lastDispatchUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "last_dispatch_timestamp_seconds",
			Help:      "Unix time of the last completed dispatch sweep.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cycleOperations,
		m.remindersCreated,
		m.dispatchedTotal,
		m.lastDispatchUnix,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records every request under its matched route pattern so that
// path parameters do not explode label cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(started).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) ObserveCycleOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cycleOperations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveRemindersCreated(result services.CycleResult) {
	for _, reminder := range result.Reminders {
		m.remindersCreated.WithLabelValues(string(reminder.Type)).Inc()
	}
}

func (m *Metrics) ObserveDispatch(report services.DispatchReport, finishedAt time.Time) {
	m.dispatchedTotal.WithLabelValues("sent").Add(float64(report.Sent))
	m.dispatchedTotal.WithLabelValues("failed").Add(float64(report.Failed))
	m.lastDispatchUnix.Set(float64(finishedAt.Unix()))
}
