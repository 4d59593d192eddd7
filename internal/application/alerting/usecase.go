package alerting

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const scanPageSize = 500

// Metrics contador de alertas creadas por el barrido.
type Metrics interface {
	AlertsRaised(n int)
}

type nopMetrics struct{}

func (nopMetrics) AlertsRaised(int) {}

// UseCase consulta y gestiona alertas de stock. La creación ocurre dentro de cada movimiento
// y en el barrido periódico (Scan).
type UseCase struct {
	ledger  *inventory.Ledger
	log     *logger.Logger
	metrics Metrics
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(ledger *inventory.Ledger, log *logger.Logger, metrics Metrics) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{ledger: ledger, log: log, metrics: metrics}
}

// List lista alertas, las más recientes primero.
func (uc *UseCase) List(ctx context.Context, filter entity.AlertFilter) ([]*entity.StockAlert, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.ledger.Reader().Alerts.List(ctx, filter)
}

// ScanReport resultado de un barrido.
type ScanReport struct {
	Pairs  int
	Raised int
}

// Scan reevalúa todos los balances. Idempotente: una alerta abierta del mismo tipo no se duplica.
func (uc *UseCase) Scan(ctx context.Context) (ScanReport, error) {
	var report ScanReport
	reader := uc.ledger.Reader()
	for offset := 0; ; offset += scanPageSize {
		balances, err := reader.Balances.List(ctx, scanPageSize, offset)
		if err != nil {
			return report, err
		}
		if len(balances) == 0 {
			break
		}
		raised := 0
		err = uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
			raised = 0
			for _, b := range balances {
				n, err := tx.RaiseAlerts(ctx, b.Key())
				if err != nil {
					return err
				}
				raised += n
			}
			return nil
		})
		if err != nil {
			return report, err
		}
		report.Pairs += len(balances)
		report.Raised += raised
		if len(balances) < scanPageSize {
			break
		}
	}
	uc.metrics.AlertsRaised(report.Raised)
	uc.log.Info().Int("pairs", report.Pairs).Int("raised", report.Raised).Msg("barrido de alertas completado")
	return report, nil
}

// MarkRead marca la alerta como leída.
func (uc *UseCase) MarkRead(ctx context.Context, id string) (*entity.StockAlert, error) {
	return uc.update(ctx, id, func(a *entity.StockAlert) error {
		a.IsRead = true
		return nil
	})
}

// Resolve cierra la alerta; una nueva del mismo tipo puede abrirse después.
func (uc *UseCase) Resolve(ctx context.Context, id, actor string) (*entity.StockAlert, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor", "es requerido")
	}
	return uc.update(ctx, id, func(a *entity.StockAlert) error {
		if a.IsResolved {
			return &domain.TransitionError{Entity: "alerta", From: "resolved", Action: "resolver"}
		}
		now := uc.ledger.Now()
		a.IsResolved = true
		a.IsRead = true
		a.ResolvedBy = &actor
		a.ResolvedAt = &now
		return nil
	})
}

func (uc *UseCase) update(ctx context.Context, id string, fn func(a *entity.StockAlert) error) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		a, err := tx.Alerts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := fn(a); err != nil {
			return err
		}
		if err := tx.Alerts().Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
