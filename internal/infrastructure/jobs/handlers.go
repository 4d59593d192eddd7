package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// AlertScanner reevalúa umbrales de alerta.
type AlertScanner interface {
	Scan(ctx context.Context) (alerting.ScanReport, error)
}

// LotExpirer marca lotes vencidos.
type LotExpirer interface {
	ExpireLots(ctx context.Context) (int, error)
}

// Revaluer recalcula todas las valorizaciones.
type Revaluer interface {
	RecomputeAll(ctx context.Context) (inventory.RecomputeReport, error)
}

// Metrics contador de ejecuciones por tarea y resultado.
type Metrics interface {
	JobRun(task string, err error)
}

type nopMetrics struct{}

func (nopMetrics) JobRun(string, error) {}

// Handlers agrupa los handlers asynq de mantenimiento.
type Handlers struct {
	alerts   AlertScanner
	expirer  LotExpirer
	revaluer Revaluer
	metrics  Metrics
	log      *logger.Logger
}

// NewHandlers construye los handlers. metrics puede ser nil.
func NewHandlers(alerts AlertScanner, expirer LotExpirer, revaluer Revaluer, metrics Metrics, log *logger.Logger) *Handlers {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Handlers{alerts: alerts, expirer: expirer, revaluer: revaluer, metrics: metrics, log: log}
}

// TaskHandlers pares tipo -> handler para registrar en el worker.
func (h *Handlers) TaskHandlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskAlertsScan, Handler: h.HandleAlertsScan},
		{Type: TaskExpireLots, Handler: h.HandleExpireLots},
		{Type: TaskRevaluation, Handler: h.HandleRevaluation},
	}
}

// HandleAlertsScan procesa TaskAlertsScan.
func (h *Handlers) HandleAlertsScan(ctx context.Context, t *asynq.Task) error {
	return h.run(ctx, t, func(ctx context.Context) (map[string]int, error) {
		report, err := h.alerts.Scan(ctx)
		return map[string]int{"pairs": report.Pairs, "raised": report.Raised}, err
	})
}

// HandleExpireLots procesa TaskExpireLots.
func (h *Handlers) HandleExpireLots(ctx context.Context, t *asynq.Task) error {
	return h.run(ctx, t, func(ctx context.Context) (map[string]int, error) {
		n, err := h.expirer.ExpireLots(ctx)
		return map[string]int{"lots": n}, err
	})
}

// HandleRevaluation procesa TaskRevaluation.
func (h *Handlers) HandleRevaluation(ctx context.Context, t *asynq.Task) error {
	return h.run(ctx, t, func(ctx context.Context) (map[string]int, error) {
		report, err := h.revaluer.RecomputeAll(ctx)
		return map[string]int{"pairs": report.Pairs, "rows": report.Rows, "drifted": report.Drifted}, err
	})
}

func (h *Handlers) run(ctx context.Context, t *asynq.Task, fn func(ctx context.Context) (map[string]int, error)) error {
	var payload Payload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.metrics.JobRun(t.Type(), err)
		h.log.Error().Err(err).Str("task", t.Type()).Msg("payload inválido")
		return fmt.Errorf("%s: %w: %w", t.Type(), err, asynq.SkipRetry)
	}
	start := time.Now()
	counts, err := fn(ctx)
	h.metrics.JobRun(t.Type(), err)
	if err != nil {
		ev := h.log.Error().Err(err).Str("task", t.Type()).Str("trigger", payload.Trigger)
		if !domain.IsRetryable(err) && ctx.Err() == nil {
			ev.Msg("tarea fallida sin reintento")
			return fmt.Errorf("%s: %w: %w", t.Type(), err, asynq.SkipRetry)
		}
		ev.Msg("tarea fallida")
		return err
	}
	ev := h.log.Info().Str("task", t.Type()).Str("trigger", payload.Trigger).Dur("elapsed", time.Since(start))
	for k, v := range counts {
		ev = ev.Int(k, v)
	}
	ev.Msg("tarea completada")
	return nil
}
