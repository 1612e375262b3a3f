package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	appointmentsCreated  prometheus.Counter
	appointmentsRejected *prometheus.CounterVec
	conflictsDetected    *prometheus.CounterVec
	lockFailures         *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "appointments_created_total",
			Help:      "Appointments successfully booked.",
		}),
		appointmentsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "appointments_rejected_total",
			Help:      "Appointment writes rejected by scheduling rules.",
		}, []string{"reason"}),
		conflictsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "conflicts_detected_total",
			Help:      "Conflict records found, by shared party.",
		}, []string{"party"}),
		lockFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "booking_lock_failures_total",
			Help:      "Booking lock acquisitions that timed out or errored.",
		}, []string{"backend"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.appointmentsCreated,
		m.appointmentsRejected,
		m.conflictsDetected,
		m.lockFailures,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.Inc()
}

func (m *Metrics) AppointmentRejected(reason string) {
	if m == nil {
		return
	}
	m.appointmentsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ConflictDetected(party string) {
	if m == nil {
		return
	}
	m.conflictsDetected.WithLabelValues(party).Inc()
}

func (m *Metrics) LockFailed(backend string) {
	if m == nil {
		return
	}
	m.lockFailures.WithLabelValues(backend).Inc()
}
