package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

const entityName = "traslado"

// Metrics contador de transiciones de traslados.
type Metrics interface {
	TransferTransition(status string)
}

type nopMetrics struct{}

func (nopMetrics) TransferTransition(string) {}

// UseCase coordina el ciclo de vida de un traslado sobre el ledger.
type UseCase struct {
	ledger  *inventory.Ledger
	log     *logger.Logger
	metrics Metrics
}

// NewUseCase construye el coordinador. metrics puede ser nil.
func NewUseCase(ledger *inventory.Ledger, log *logger.Logger, metrics Metrics) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{ledger: ledger, log: log, metrics: metrics}
}

// ItemInput línea solicitada.
type ItemInput struct {
	ProductID string
	LotID     string
	Quantity  decimal.Decimal
}

// CreateInput solicitud de traslado.
type CreateInput struct {
	FromLocationID string
	ToLocationID   string
	Notes          string
	RequestedBy    string
	Items          []ItemInput
}

func (in CreateInput) validate() error {
	if in.FromLocationID == "" {
		return domain.NewValidationError("from_location_id", "es requerido")
	}
	if in.ToLocationID == "" {
		return domain.NewValidationError("to_location_id", "es requerido")
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.NewValidationError("to_location_id", "debe ser distinta del origen")
	}
	if in.RequestedBy == "" {
		return domain.NewValidationError("requested_by", "es requerido")
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "el traslado no tiene líneas")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "es requerido")
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
	}
	return nil
}

// Create registra el traslado en estado pending. No mueve stock.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Transfer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *entity.Transfer
	err := uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		for _, id := range []string{in.FromLocationID, in.ToLocationID} {
			if err := tx.RequireLocation(ctx, id); err != nil {
				return err
			}
		}
		for i, it := range in.Items {
			if _, err := tx.Product(ctx, it.ProductID); err != nil {
				return err
			}
			if it.LotID == "" {
				continue
			}
			lot, err := tx.Lots().GetByID(ctx, it.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return fmt.Errorf("lote %s: %w", it.LotID, domain.ErrNotFound)
			}
			if lot.ProductID != it.ProductID || lot.LocationID != in.FromLocationID {
				return domain.NewValidationError(fmt.Sprintf("items[%d].lot_id", i), "no pertenece al producto en la ubicación de origen")
			}
		}
		number, err := tx.Transfers().NextNumber(ctx)
		if err != nil {
			return err
		}
		now := tx.Now()
		t := &entity.Transfer{
			ID:             uuid.New().String(),
			TransferNumber: number,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Status:         entity.TransferPending,
			Notes:          in.Notes,
			RequestedBy:    in.RequestedBy,
			RequestedAt:    now,
			UpdatedAt:      now,
		}
		for _, it := range in.Items {
			item := entity.TransferItem{
				ID:         uuid.New().String(),
				TransferID: t.ID,
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
			}
			if it.LotID != "" {
				lotID := it.LotID
				item.LotID = &lotID
			}
			t.Items = append(t.Items, item)
		}
		if err := tx.Transfers().Create(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(out, "creado")
	return out, nil
}

// Get devuelve el traslado con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := uc.ledger.Reader().Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados con filtros.
func (uc *UseCase) List(ctx context.Context, filter entity.TransferFilter) ([]*entity.Transfer, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	return uc.ledger.Reader().Transfers.List(ctx, filter)
}

// Approve registra la aprobación y reserva el stock de cada línea en origen. El estado sigue pending.
func (uc *UseCase) Approve(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	return uc.transition(ctx, id, actor, "aprobado", func(ctx context.Context, tx *inventory.Tx, t *entity.Transfer) error {
		if t.Status != entity.TransferPending {
			return &domain.TransitionError{Entity: entityName, From: string(t.Status), Action: "aprobar"}
		}
		if t.IsApproved() {
			return &domain.TransitionError{Entity: entityName, From: "pending (ya aprobado)", Action: "aprobar"}
		}
		if err := tx.LockPairs(ctx, sourceKeys(t)...); err != nil {
			return err
		}
		for _, it := range t.Items {
			if err := tx.Reserve(ctx, sourceKey(t, it), it.Quantity); err != nil {
				return err
			}
		}
		now := tx.Now()
		t.ApprovedBy = &actor
		t.ApprovedAt = &now
		return nil
	})
}

// Dispatch consume el stock de origen con un movimiento transfer por línea y pasa a in_transit.
// Si alguna línea no tiene stock se rechaza todo el traslado.
func (uc *UseCase) Dispatch(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	return uc.transition(ctx, id, actor, "despachado", func(ctx context.Context, tx *inventory.Tx, t *entity.Transfer) error {
		if t.Status != entity.TransferPending {
			return &domain.TransitionError{Entity: entityName, From: string(t.Status), Action: "despachar"}
		}
		if err := tx.LockPairs(ctx, sourceKeys(t)...); err != nil {
			return err
		}
		if t.IsApproved() {
			for _, it := range t.Items {
				if err := tx.Release(ctx, sourceKey(t, it), it.Quantity); err != nil {
					return err
				}
			}
		}
		for i := range t.Items {
			it := &t.Items[i]
			in := inventory.MovementInput{
				ProductID:      it.ProductID,
				FromLocationID: t.FromLocationID,
				Type:           entity.MovementTransfer,
				Quantity:       it.Quantity,
				ReferenceType:  entity.ReferenceTransfer,
				ReferenceID:    t.ID,
				CreatedBy:      actor,
			}
			if it.LotID != nil {
				in.LotID = *it.LotID
			}
			mov, err := tx.Record(ctx, in)
			if err != nil {
				return err
			}
			it.DispatchMovementID = &mov.ID
			it.UnitCost = mov.UnitCost
			if err := tx.Transfers().UpdateItem(ctx, it); err != nil {
				return err
			}
		}
		now := tx.Now()
		t.Status = entity.TransferInTransit
		t.DispatchedBy = &actor
		t.DispatchedAt = &now
		return nil
	})
}

// Receive crea en destino un lote por cada lote consumido en el despacho y completa el traslado.
func (uc *UseCase) Receive(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	return uc.transition(ctx, id, actor, "recibido", func(ctx context.Context, tx *inventory.Tx, t *entity.Transfer) error {
		if t.Status != entity.TransferInTransit {
			return &domain.TransitionError{Entity: entityName, From: string(t.Status), Action: "recibir"}
		}
		if err := tx.LockPairs(ctx, destinationKeys(t)...); err != nil {
			return err
		}
		perProduct := make(map[string]int, len(t.Items))
		for _, it := range t.Items {
			perProduct[it.ProductID]++
		}
		for i := range t.Items {
			it := &t.Items[i]
			prefix := t.TransferNumber
			if perProduct[it.ProductID] > 1 {
				prefix = fmt.Sprintf("%s-%d", t.TransferNumber, i+1)
			}
			allocs, err := uc.dispatchAllocations(ctx, tx, t, it)
			if err != nil {
				return err
			}
			mov, err := tx.RecordTransferIn(ctx, inventory.MovementInput{
				ProductID:     it.ProductID,
				ToLocationID:  t.ToLocationID,
				Type:          entity.MovementTransfer,
				Quantity:      it.Quantity,
				ReferenceType: entity.ReferenceTransfer,
				ReferenceID:   t.ID,
				CreatedBy:     actor,
			}, allocs, prefix)
			if err != nil {
				return err
			}
			it.ReceiveMovementID = &mov.ID
			if err := tx.Transfers().UpdateItem(ctx, it); err != nil {
				return err
			}
		}
		now := tx.Now()
		t.Status = entity.TransferCompleted
		t.ReceivedBy = &actor
		t.ReceivedAt = &now
		return nil
	})
}

// Cancel cancela un traslado pending (libera la reserva si estaba aprobado) o in_transit
// (reingresa el stock en los mismos lotes de origen con un movimiento de reverso).
func (uc *UseCase) Cancel(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	return uc.transition(ctx, id, actor, "cancelado", func(ctx context.Context, tx *inventory.Tx, t *entity.Transfer) error {
		switch t.Status {
		case entity.TransferPending:
			if t.IsApproved() {
				if err := tx.LockPairs(ctx, sourceKeys(t)...); err != nil {
					return err
				}
				for _, it := range t.Items {
					if err := tx.Release(ctx, sourceKey(t, it), it.Quantity); err != nil {
						return err
					}
				}
			}
		case entity.TransferInTransit:
			if err := tx.LockPairs(ctx, sourceKeys(t)...); err != nil {
				return err
			}
			for i := range t.Items {
				it := &t.Items[i]
				allocs, err := uc.dispatchAllocations(ctx, tx, t, it)
				if err != nil {
					return err
				}
				if _, err := tx.RecordReversal(ctx, inventory.MovementInput{
					ProductID:     it.ProductID,
					ToLocationID:  t.FromLocationID,
					Type:          entity.MovementTransfer,
					Quantity:      it.Quantity,
					ReferenceType: entity.ReferenceTransferCancel,
					ReferenceID:   t.ID,
					CreatedBy:     actor,
				}, allocs); err != nil {
					return err
				}
			}
		default:
			return &domain.TransitionError{Entity: entityName, From: string(t.Status), Action: "cancelar"}
		}
		now := tx.Now()
		t.Status = entity.TransferCancelled
		t.CancelledBy = &actor
		t.CancelledAt = &now
		return nil
	})
}

// transition bloquea el traslado, aplica fn y persiste la cabecera en la misma transacción.
func (uc *UseCase) transition(ctx context.Context, id, actor, label string, fn func(ctx context.Context, tx *inventory.Tx, t *entity.Transfer) error) (*entity.Transfer, error) {
	if actor == "" {
		return nil, domain.NewValidationError("actor", "es requerido")
	}
	var out *entity.Transfer
	err := uc.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		t, err := tx.Transfers().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := fn(ctx, tx, t); err != nil {
			return err
		}
		t.UpdatedAt = tx.Now()
		if err := tx.Transfers().Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", id).Str("action", label).Msg("transición de traslado rechazada")
		return nil, err
	}
	uc.transitioned(out, label)
	return out, nil
}

func (uc *UseCase) transitioned(t *entity.Transfer, label string) {
	uc.metrics.TransferTransition(string(t.Status))
	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("transfer_number", t.TransferNumber).
		Str("status", string(t.Status)).
		Msg("traslado " + label)
}

// dispatchAllocations recupera los lotes que consumió el movimiento de despacho de la línea.
func (uc *UseCase) dispatchAllocations(ctx context.Context, tx *inventory.Tx, t *entity.Transfer, it *entity.TransferItem) ([]entity.LotAllocation, error) {
	if it.DispatchMovementID == nil {
		return nil, fmt.Errorf("%w: línea %s sin movimiento de despacho", domain.ErrConflict, it.ID)
	}
	mov, err := tx.Movements().GetByID(ctx, *it.DispatchMovementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, fmt.Errorf("movimiento %s: %w", *it.DispatchMovementID, domain.ErrNotFound)
	}
	return mov.AllocationsAt(t.FromLocationID), nil
}

func sourceKey(t *entity.Transfer, it entity.TransferItem) entity.PairKey {
	return entity.PairKey{ProductID: it.ProductID, LocationID: t.FromLocationID}
}

func sourceKeys(t *entity.Transfer) []entity.PairKey {
	keys := make([]entity.PairKey, 0, len(t.Items))
	for _, it := range t.Items {
		keys = append(keys, sourceKey(t, it))
	}
	return keys
}

func destinationKeys(t *entity.Transfer) []entity.PairKey {
	keys := make([]entity.PairKey, 0, len(t.Items))
	for _, it := range t.Items {
		keys = append(keys, entity.PairKey{ProductID: it.ProductID, LocationID: t.ToLocationID})
	}
	return keys
}
