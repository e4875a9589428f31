// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
)

const namespace = "smartsignal"

// Metrics agrupa los colectores del servicio sobre un registry propio.
type Metrics struct {
	registry          *prometheus.Registry
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	LoginAttempts     *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	Registrations     prometheus.Counter
}

// New crea un registry nuevo y registra todas las métricas más los colectores de runtime.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		registry: reg,
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP atendidas",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginAttempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Intentos de login por resultado",
			},
			[]string{"outcome"},
		),
		StatusTransitions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_status_transitions_total",
				Help:      "Cambios de estado aplicados por administradores",
			},
			[]string{"from", "to"},
		),
		Registrations: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Cuentas registradas",
			},
		),
	}
}

// LoginAttempt registra el resultado de un login.
func (m *Metrics) LoginAttempt(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// Registered registra un alta de cuenta.
func (m *Metrics) Registered() {
	m.Registrations.Inc()
}

// StatusChanged registra una transición de estado.
func (m *Metrics) StatusChanged(from, to entity.Status) {
	m.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler devuelve el handler HTTP de exposición para este registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry (tests y exportadores adicionales).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
