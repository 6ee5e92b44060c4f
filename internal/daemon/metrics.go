package daemon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/kepatuhan/internal/model"
)

// Metrics collects Prometheus metrics for the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reloadsTotal    *prometheus.CounterVec
	taxpayers       prometheus.Gauge
	labels          *prometheus.GaugeVec
}

// NewMetrics initializes the registry and the service metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kepatuhan_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kepatuhan_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kepatuhan_dataset_reloads_total",
		Help: "Dataset reload attempts by result.",
	}, []string{"result"})
	taxpayers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kepatuhan_taxpayers",
		Help: "Taxpayer records in the current snapshot.",
	})
	labels := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kepatuhan_taxpayers_by_label",
		Help: "Unfiltered taxpayer count per compliance label in the current snapshot.",
	}, []string{"label"})
	registry.MustRegister(requests, duration, reloads, taxpayers, labels)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reloadsTotal:    reloads,
		taxpayers:       taxpayers,
		labels:          labels,
	}
}

// Handler returns the /metrics handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and duration per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) observeReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloadsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) observeSnapshot(taxpayers int, dist []model.LabelCount) {
	if m == nil {
		return
	}
	m.taxpayers.Set(float64(taxpayers))
	for _, d := range dist {
		m.labels.WithLabelValues(d.Label.String()).Set(float64(d.Count))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
