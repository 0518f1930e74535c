package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Freedom outcome label values.
const (
	outcomeReached       = "reached"
	outcomeNotReached    = "not_reached"
	outcomeNotComputable = "not_computable"
)

// metrics is the set of collectors exported by one handler. Each handler owns
// its registry so handlers built in tests never collide.
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	projectionTime  prometheus.Histogram
	freedomOutcomes *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		projectionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "projection_duration_seconds",
			Help:      "Time spent computing one projection.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		freedomOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "freedom_outcomes_total",
			Help:      "Projections by freedom search outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.requests, m.projectionTime, m.freedomOutcomes)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(endpoint string, status int) {
	m.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// observeProjection records the duration and outcome of one projection.
func (m *metrics) observeProjection(p projection.Projection, elapsed time.Duration) {
	m.projectionTime.Observe(elapsed.Seconds())
	m.freedomOutcomes.WithLabelValues(freedomOutcome(p.Freedom)).Inc()
}

func freedomOutcome(result projection.FreedomResult) string {
	switch {
	case !result.Computable:
		return outcomeNotComputable
	case result.Reached:
		return outcomeReached
	default:
		return outcomeNotReached
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts every request served by next under endpoint.
func (m *metrics) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		m.observeRequest(endpoint, recorder.status)
	}
}
