package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// Handler exposes the console metrics and measures its own HTTP traffic.
type Handler struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(namespace string, m *metrics.Metrics) (*Handler, error) {
	registry := prometheus.NewRegistry()
	h := &Handler{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Total number of HTTP errors",
			},
			[]string{"method", "path", "status"},
		),
	}

	registry.MustRegister(
		h.requestDuration,
		h.requestTotal,
		h.errorTotal,
		prometheus.NewGoCollector(),
	)
	if m != nil {
		if err := m.Register(registry); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Middleware records every request under its route template.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		h.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		h.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 500 {
			h.errorTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		}
	}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}
