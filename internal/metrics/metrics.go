// Package metrics exposes Prometheus instrumentation for the stores and
// the HTTP layer. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "profnet"

// Metrics holds the registered collectors.
type Metrics struct {
	sessionOps     *prometheus.CounterVec
	authFailures   *prometheus.CounterVec
	contentOps     *prometheus.CounterVec
	droppedEvents  *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	realtimeClient prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg. When reg is also a Gatherer (as
// *prometheus.Registry is), Handler serves from it.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		sessionOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Session store operations by outcome",
		}, []string{"op", "result"}),

		authFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "auth_failures_total",
			Help:      "Rejected login and registration attempts",
		}, []string{"reason"}),

		contentOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "operations_total",
			Help:      "Content store mutations; result is applied or noop",
		}, []string{"op", "result"}),

		droppedEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Change events not delivered to a slow subscriber",
		}, []string{"source"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		realtimeClient: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Open websocket event connections",
		}),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// SessionOp records a session store operation.
func (m *Metrics) SessionOp(op string, err error) {
	if m == nil {
		return
	}
	m.sessionOps.WithLabelValues(op, result(err)).Inc()
}

// AuthFailure records a rejected login or registration.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// ContentOp records a content store mutation.
func (m *Metrics) ContentOp(op string, applied bool) {
	if m == nil {
		return
	}
	res := "applied"
	if !applied {
		res = "noop"
	}
	m.contentOps.WithLabelValues(op, res).Inc()
}

// DroppedEvent returns a callback counting drops for source.
func (m *Metrics) DroppedEvent(source string) func() {
	if m == nil {
		return nil
	}
	c := m.droppedEvents.WithLabelValues(source)
	return c.Inc
}

// HTTPRequest records a completed HTTP request.
func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RealtimeConnected adjusts the open websocket gauge by delta.
func (m *Metrics) RealtimeConnected(delta int) {
	if m == nil {
		return
	}
	m.realtimeClient.Add(float64(delta))
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
