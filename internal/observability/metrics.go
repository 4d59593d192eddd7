package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores Prometheus del servicio. Implementa los puertos de métricas
// del ledger, traslados, daños y alertas.
type Metrics struct {
	registry            *prometheus.Registry
	movements           *prometheus.CounterVec
	rejections          *prometheus.CounterVec
	transferTransitions *prometheus.CounterVec
	damageTransitions   *prometheus.CounterVec
	alertsRaised        prometheus.Counter
	jobRuns             *prometheus.CounterVec
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
}

// NewMetrics crea un registry propio con todos los contadores registrados.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_movements_total",
			Help: "Movimientos registrados por tipo.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_rejections_total",
			Help: "Operaciones rechazadas por stock insuficiente.",
		}, []string{"type"}),
		transferTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_transfer_transitions_total",
			Help: "Transiciones de traslados por estado destino.",
		}, []string{"status"}),
		damageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_damage_transitions_total",
			Help: "Transiciones de reportes de daño por estado destino.",
		}, []string{"status"}),
		alertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_alerts_raised_total",
			Help: "Alertas creadas por el barrido periódico.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_job_runs_total",
			Help: "Ejecuciones de tareas en segundo plano por resultado.",
		}, []string{"task", "result"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Peticiones HTTP por ruta y código.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "Duración de peticiones HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.movements, m.rejections, m.transferTransitions, m.damageTransitions,
		m.alertsRaised, m.jobRuns, m.requestsTotal, m.requestDuration,
	)
	return m
}

// Registerer expone el registry para métricas adicionales.
func (m *Metrics) Registerer() prometheus.Registerer { return m.registry }

// Gatherer expone el registry para lectura (tests y exportación).
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// MovementRecorded cuenta un movimiento confirmado.
func (m *Metrics) MovementRecorded(t entity.MovementType) {
	m.movements.WithLabelValues(string(t)).Inc()
}

// StockRejected cuenta un rechazo por stock insuficiente.
func (m *Metrics) StockRejected(t entity.MovementType) {
	m.rejections.WithLabelValues(string(t)).Inc()
}

// TransferTransition cuenta una transición de traslado.
func (m *Metrics) TransferTransition(status string) {
	m.transferTransitions.WithLabelValues(status).Inc()
}

// DamageTransition cuenta una transición de reporte de daño.
func (m *Metrics) DamageTransition(status string) {
	m.damageTransitions.WithLabelValues(status).Inc()
}

// AlertsRaised suma alertas creadas por el barrido.
func (m *Metrics) AlertsRaised(n int) {
	m.alertsRaised.Add(float64(n))
}

// JobRun cuenta la ejecución de una tarea asíncrona.
func (m *Metrics) JobRun(task string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(task, result).Inc()
}

// Handler endpoint /metrics para Fiber.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware registra conteo y duración por ruta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
