package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService holds the process metrics on a private registry so tests
// can build several instances without collisions.
type MetricsService struct {
	registry *prometheus.Registry

	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	EnrollmentsCommitted prometheus.Counter
	EnrollmentsFailed    prometheus.Counter
	EnrollmentsDeleted   prometheus.Counter
	CapacityShortfalls   prometheus.Counter
	ExportsRequested     prometheus.Counter
	LoginAttempts        *prometheus.CounterVec
}

// NewMetricsService registers every collector on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		EnrollmentsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enrollments_committed_total",
			Help: "Enrollment pairs committed.",
		}),
		EnrollmentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enrollments_failed_total",
			Help: "Enrollment pairs that failed the capacity gate or store.",
		}),
		EnrollmentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enrollments_deleted_total",
			Help: "Enrollments deleted and archived.",
		}),
		CapacityShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capacity_shortfalls_total",
			Help: "Batches rejected or trimmed for lack of seats.",
		}),
		ExportsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exports_requested_total",
			Help: "Rollup exports requested.",
		}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.EnrollmentsCommitted,
		m.EnrollmentsFailed,
		m.EnrollmentsDeleted,
		m.CapacityShortfalls,
		m.ExportsRequested,
		m.LoginAttempts,
	)
	return m
}

// Registry exposes the registry for the metrics endpoint handler.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}
