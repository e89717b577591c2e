package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	rendersTotal      *prometheus.CounterVec
	samplesLoaded     prometheus.Gauge
	loadErrors        prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_chart_renders_total",
			Help: "Total charts rendered by format.",
		}, []string{"format"}),
		samplesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_samples_loaded",
			Help: "Number of samples currently held for rendering.",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_sample_load_errors_total",
			Help: "Total failed sample loads.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.rendersTotal,
		m.samplesLoaded,
		m.loadErrors,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts and times requests to route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(duration)
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Rendered(format string) {
	m.rendersTotal.WithLabelValues(format).Inc()
}

func (m *Metrics) SetSamples(n int) {
	m.samplesLoaded.Set(float64(n))
}

func (m *Metrics) LoadFailed() {
	m.loadErrors.Inc()
}
