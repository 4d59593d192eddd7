package damage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

const entityName = "reporte de daño"

// Metrics contador de transiciones de reportes de daño.
type Metrics interface {
	DamageTransition(status string)
}

type nopMetrics struct{}

func (nopMetrics) DamageTransition(string) {}

// UseCase ciclo reported -> approved -> disposed | rejected.
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

// ReportInput datos del reporte.
type ReportInput struct {
	ProductID  string
	LocationID string
	LotID      string
	DamageType string
	Reason     string
	Quantity   decimal.Decimal
	UnitCost   *decimal.Decimal
	ReportedBy string
}

func (in ReportInput) validate() error {
	switch {
	case in.ProductID == "":
		return domain.NewValidationError("product_id", "es requerido")
	case in.LocationID == "":
		return domain.NewValidationError("location_id", "es requerido")
	case !entity.ValidDamageType(in.DamageType):
		return domain.NewValidationError("damage_type", "desconocido: "+in.DamageType)
	case !in.Quantity.GreaterThan(decimal.Zero):
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	case in.UnitCost != nil && in.UnitCost.IsNegative():
		return domain.NewValidationError("unit_cost", "no puede ser negativo")
	case in.ReportedBy == "":
		return domain.NewValidationError("reported_by", "es requerido")
	}
	return nil
}

// Report registra el daño. El costo unitario se toma de la entrada, si no del lote, si no del producto.
// No mueve stock.
func (uc *UseCase) Report(ctx context.Context, in ReportInput) (*entity.DamagedStock, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *entity.DamagedStock
	err := uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		product, err := tx.Product(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if err := tx.RequireLocation(ctx, in.LocationID); err != nil {
			return err
		}
		cost := product.DefaultCost
		var lotID *string
		if in.LotID != "" {
			lot, err := tx.Lots().GetByID(ctx, in.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return fmt.Errorf("lote %s: %w", in.LotID, domain.ErrNotFound)
			}
			if lot.ProductID != in.ProductID || lot.LocationID != in.LocationID {
				return domain.NewValidationError("lot_id", "no pertenece al producto y ubicación")
			}
			cost = lot.UnitCost
			id := lot.ID
			lotID = &id
		}
		if in.UnitCost != nil {
			cost = *in.UnitCost
		}
		now := tx.Now()
		d := &entity.DamagedStock{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			LotID:      lotID,
			LocationID: in.LocationID,
			DamageType: in.DamageType,
			Reason:     in.Reason,
			Quantity:   in.Quantity,
			UnitCost:   cost,
			TotalLoss:  in.Quantity.Mul(cost),
			Status:     entity.DamageReported,
			ReportedBy: in.ReportedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Damages().Create(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(out, "reportado")
	return out, nil
}

// Get devuelve un reporte.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.DamagedStock, error) {
	d, err := uc.ledger.Reader().Damages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// List lista reportes con filtros.
func (uc *UseCase) List(ctx context.Context, filter entity.DamageFilter) ([]*entity.DamagedStock, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	return uc.ledger.Reader().Damages.List(ctx, filter)
}

// Approve aprueba el reporte. Sin efecto en stock.
func (uc *UseCase) Approve(ctx context.Context, id, actor string) (*entity.DamagedStock, error) {
	return uc.transition(ctx, id, actor, "aprobado", func(_ context.Context, _ *inventory.Tx, d *entity.DamagedStock) error {
		if d.Status != entity.DamageReported {
			return &domain.TransitionError{Entity: entityName, From: string(d.Status), Action: "aprobar"}
		}
		d.Status = entity.DamageApproved
		d.ApprovedBy = &actor
		return nil
	})
}

// Reject rechaza el reporte; queda archivado para auditoría. Sin efecto en stock.
func (uc *UseCase) Reject(ctx context.Context, id, actor string) (*entity.DamagedStock, error) {
	return uc.transition(ctx, id, actor, "rechazado", func(_ context.Context, _ *inventory.Tx, d *entity.DamagedStock) error {
		if d.Status != entity.DamageReported {
			return &domain.TransitionError{Entity: entityName, From: string(d.Status), Action: "rechazar"}
		}
		d.Status = entity.DamageRejected
		d.RejectedBy = &actor
		return nil
	})
}

// DisposeInput datos de la disposición.
type DisposeInput struct {
	Method string
	Date   *time.Time
	Actor  string
}

// Dispose escribe el movimiento damage que descuenta stock y lote, y registra la pérdida real.
func (uc *UseCase) Dispose(ctx context.Context, id string, in DisposeInput) (*entity.DamagedStock, error) {
	if !entity.ValidDisposalMethod(in.Method) {
		return nil, domain.NewValidationError("disposal_method", "desconocido: "+in.Method)
	}
	return uc.transition(ctx, id, in.Actor, "dispuesto", func(ctx context.Context, tx *inventory.Tx, d *entity.DamagedStock) error {
		if d.Status != entity.DamageApproved {
			return &domain.TransitionError{Entity: entityName, From: string(d.Status), Action: "disponer"}
		}
		mi := inventory.MovementInput{
			ProductID:      d.ProductID,
			FromLocationID: d.LocationID,
			Type:           entity.MovementDamage,
			Quantity:       d.Quantity,
			ReferenceType:  entity.ReferenceDamage,
			ReferenceID:    d.ID,
			CreatedBy:      in.Actor,
		}
		if d.LotID != nil {
			mi.LotID = *d.LotID
		}
		mov, err := tx.Record(ctx, mi)
		if err != nil {
			return err
		}
		date := tx.Now()
		if in.Date != nil {
			date = *in.Date
		}
		method := in.Method
		d.Status = entity.DamageDisposed
		d.DisposalMethod = &method
		d.DisposalDate = &date
		d.DisposedBy = &in.Actor
		d.DisposalMovementID = &mov.ID
		if mov.UnitCost != nil {
			d.UnitCost = *mov.UnitCost
		}
		if mov.TotalCost != nil {
			d.TotalLoss = *mov.TotalCost
		}
		return nil
	})
}

func (uc *UseCase) transition(ctx context.Context, id, actor, label string, fn func(ctx context.Context, tx *inventory.Tx, d *entity.DamagedStock) error) (*entity.DamagedStock, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor", "es requerido")
	}
	var out *entity.DamagedStock
	err := uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		d, err := tx.Damages().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if err := fn(ctx, tx, d); err != nil {
			return err
		}
		d.UpdatedAt = tx.Now()
		if err := tx.Damages().Update(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("damage_id", id).Str("action", label).Msg("transición de daño rechazada")
		return nil, err
	}
	uc.transitioned(out, label)
	return out, nil
}

func (uc *UseCase) transitioned(d *entity.DamagedStock, label string) {
	uc.metrics.DamageTransition(string(d.Status))
	uc.log.Info().
		Str("damage_id", d.ID).
		Str("product_id", d.ProductID).
		Str("status", string(d.Status)).
		Str("total_loss", d.TotalLoss.String()).
		Msg("daño " + label)
}
