package inventory

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotSpec datos del lote que crea una entrada. BatchNumber se genera si viene vacío.
type LotSpec struct {
	Kind              entity.LotKind
	BatchNumber       string
	LotNumber         *string
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	QualityGrade      *string
	PieceSize         *decimal.Decimal
	OriginalLotID     *string
}

// MovementInput entrada para registrar un movimiento en el ledger.
// FromLocationID saca stock, ToLocationID lo ingresa; ambos = traslado inmediato.
type MovementInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Type           entity.MovementType
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal // solo entradas; si falta se usa el costo por defecto del producto
	LotID          string           // lote fijado para el consumo (identificación específica)
	Lot            *LotSpec
	ReferenceType  string
	ReferenceID    string
	CreatedBy      string
}

// Validate revisa campos obligatorios y la dirección permitida por tipo de movimiento.
func (in MovementInput) Validate() error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "es requerido")
	}
	if !in.Type.Valid() {
		return domain.NewValidationError("movement_type", "desconocido: "+string(in.Type))
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.CreatedBy == "" {
		return domain.NewValidationError("created_by", "es requerido")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	from, to := in.FromLocationID != "", in.ToLocationID != ""
	if !from && !to {
		return domain.NewValidationError("location", "se requiere from_location_id o to_location_id")
	}
	if from && to && in.FromLocationID == in.ToLocationID {
		return domain.NewValidationError("to_location_id", "debe ser distinta del origen")
	}
	switch in.Type {
	case entity.MovementPurchase:
		if from || !to {
			return domain.NewValidationError("location", "purchase solo admite destino")
		}
	case entity.MovementSale, entity.MovementDamage:
		if !from || to {
			return domain.NewValidationError("location", string(in.Type)+" solo admite origen")
		}
	case entity.MovementTransfer:
		if from != to && in.ReferenceType != entity.ReferenceTransfer && in.ReferenceType != entity.ReferenceTransferCancel {
			return domain.NewValidationError("location", "un traslado de una sola ubicación requiere referencia de traslado")
		}
	case entity.MovementReturn, entity.MovementProduction, entity.MovementAdjustment:
		if from && to {
			return domain.NewValidationError("location", string(in.Type)+" admite origen o destino, no ambos")
		}
	}
	if in.LotID != "" && !from {
		return domain.NewValidationError("lot_id", "solo aplica a salidas")
	}
	if in.Lot != nil {
		if !to {
			return domain.NewValidationError("lot", "solo aplica a entradas")
		}
		if in.Lot.Kind == entity.LotKindOddSize && (in.Lot.PieceSize == nil || !in.Lot.PieceSize.GreaterThan(decimal.Zero)) {
			return domain.NewValidationError("piece_size", "es requerido para piezas irregulares")
		}
		if in.Lot.ExpiryDate != nil && in.Lot.ManufacturingDate != nil && in.Lot.ExpiryDate.Before(*in.Lot.ManufacturingDate) {
			return domain.NewValidationError("expiry_date", "anterior a la fecha de fabricación")
		}
	}
	return nil
}

// singleLegTransfer indica un tramo de traslado (solo origen o solo destino). Esos tramos los
// registra el coordinador de traslados dentro de su transacción.
func (in MovementInput) singleLegTransfer() bool {
	return in.Type == entity.MovementTransfer && (in.FromLocationID == "") != (in.ToLocationID == "")
}

func (in MovementInput) keys() []entity.PairKey {
	var keys []entity.PairKey
	if in.FromLocationID != "" {
		keys = append(keys, entity.PairKey{ProductID: in.ProductID, LocationID: in.FromLocationID})
	}
	if in.ToLocationID != "" {
		keys = append(keys, entity.PairKey{ProductID: in.ProductID, LocationID: in.ToLocationID})
	}
	return keys
}
