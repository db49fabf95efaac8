package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Admin API client metrics
	APIRequests     *prometheus.CounterVec
	APILatency      *prometheus.HistogramVec
	APIBreakerState *prometheus.GaugeVec

	// Console metrics
	Workspaces        prometheus.Gauge
	Mutations         *prometheus.CounterVec
	SupersededFetches prometheus.Counter
	BellPolls         *prometheus.CounterVec

	// Audit metrics
	AuditRecords *prometheus.CounterVec
}

// New creates the console metrics. Nothing is registered until Register is called.
func New(namespace string) *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of admin API requests",
		}, []string{"method", "endpoint", "status"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of admin API requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "endpoint"}),
		APIBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "breaker_open",
			Help:      "1 while the admin API circuit breaker is open",
		}, []string{"name"}),
		Workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workspaces",
			Help:      "Current number of live console workspaces",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations dispatched by console pages",
		}, []string{"page", "action", "outcome"}),
		SupersededFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_fetches_total",
			Help:      "List responses discarded because a newer request was issued",
		}),
		BellPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bell_polls_total",
			Help:      "Notification bell polls",
		}, []string{"outcome"}),
		AuditRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_records_total",
			Help:      "Audit entries written",
		}, []string{"outcome"}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.APIRequests,
		m.APILatency,
		m.APIBreakerState,
		m.Workspaces,
		m.Mutations,
		m.SupersededFetches,
		m.BellPolls,
		m.AuditRecords,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
