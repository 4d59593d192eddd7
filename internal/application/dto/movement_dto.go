package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotRequest datos de lote para entradas.
type LotRequest struct {
	Kind              string           `json:"kind,omitempty" validate:"omitempty,oneof=standard odd_size"`
	BatchNumber       string           `json:"batch_number,omitempty" validate:"max=100"`
	LotNumber         *string          `json:"lot_number,omitempty"`
	ManufacturingDate *time.Time       `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	QualityGrade      *string          `json:"quality_grade,omitempty"`
	PieceSize         *decimal.Decimal `json:"piece_size,omitempty"`
	OriginalLotID     *string          `json:"original_lot_id,omitempty"`
}

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	MovementType   string           `json:"movement_type" validate:"required"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	LotID          string           `json:"lot_id,omitempty"`
	Lot            *LotRequest      `json:"lot,omitempty"`
	ReferenceType  string           `json:"reference_type,omitempty" validate:"max=50"`
	ReferenceID    string           `json:"reference_id,omitempty" validate:"max=100"`
}

// ToInput traduce el request; el actor viene del token.
func (r RecordMovementRequest) ToInput(actor string) inventory.MovementInput {
	in := inventory.MovementInput{
		ProductID:      r.ProductID,
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		Type:           entity.MovementType(r.MovementType),
		Quantity:       r.Quantity,
		UnitCost:       r.UnitCost,
		LotID:          r.LotID,
		ReferenceType:  r.ReferenceType,
		ReferenceID:    r.ReferenceID,
		CreatedBy:      actor,
	}
	if r.Lot != nil {
		in.Lot = &inventory.LotSpec{
			Kind:              entity.LotKind(r.Lot.Kind),
			BatchNumber:       r.Lot.BatchNumber,
			LotNumber:         r.Lot.LotNumber,
			ManufacturingDate: r.Lot.ManufacturingDate,
			ExpiryDate:        r.Lot.ExpiryDate,
			QualityGrade:      r.Lot.QualityGrade,
			PieceSize:         r.Lot.PieceSize,
			OriginalLotID:     r.Lot.OriginalLotID,
		}
	}
	return in
}

// AllocationResponse porción de un lote consumida o recibida.
type AllocationResponse struct {
	LotID      string          `json:"lot_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID             string               `json:"id"`
	ProductID      string               `json:"product_id"`
	LotID          *string              `json:"lot_id,omitempty"`
	FromLocationID *string              `json:"from_location_id,omitempty"`
	ToLocationID   *string              `json:"to_location_id,omitempty"`
	MovementType   string               `json:"movement_type"`
	Quantity       decimal.Decimal      `json:"quantity"`
	UnitCost       *decimal.Decimal     `json:"unit_cost,omitempty"`
	TotalCost      *decimal.Decimal     `json:"total_cost,omitempty"`
	ReferenceType  string               `json:"reference_type,omitempty"`
	ReferenceID    string               `json:"reference_id,omitempty"`
	CreatedBy      string               `json:"created_by"`
	CreatedAt      time.Time            `json:"created_at"`
	Allocations    []AllocationResponse `json:"allocations,omitempty"`
}

// FromMovement mapea la entidad.
func FromMovement(m *entity.Movement) MovementResponse {
	out := MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LotID:          m.LotID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		MovementType:   string(m.Type),
		Quantity:       m.Quantity,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
	for _, a := range m.Allocations {
		out.Allocations = append(out.Allocations, AllocationResponse{
			LotID: a.LotID, LocationID: a.LocationID, Quantity: a.Quantity, UnitCost: a.UnitCost,
		})
	}
	return out
}

// BalanceResponse saldo de un par producto+ubicación.
type BalanceResponse struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FromBalance mapea la entidad.
func FromBalance(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		ProductID:      b.ProductID,
		LocationID:     b.LocationID,
		CurrentStock:   b.CurrentStock,
		ReservedStock:  b.ReservedStock,
		AvailableStock: b.Available(),
		UpdatedAt:      b.UpdatedAt,
	}
}

// LotResponse lote o pieza de tamaño especial.
type LotResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	LocationID        string           `json:"location_id"`
	Kind              string           `json:"kind"`
	BatchNumber       string           `json:"batch_number"`
	LotNumber         *string          `json:"lot_number,omitempty"`
	ManufacturingDate *time.Time       `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	QualityGrade      *string          `json:"quality_grade,omitempty"`
	PieceSize         *decimal.Decimal `json:"piece_size,omitempty"`
	OriginalLotID     *string          `json:"original_lot_id,omitempty"`
	InitialQuantity   decimal.Decimal  `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal  `json:"remaining_quantity"`
	UnitCost          decimal.Decimal  `json:"unit_cost"`
	Status            string           `json:"status"`
	PieceStatus       string           `json:"piece_status,omitempty"` // solo odd_size: available | reserved | sold | scrapped
	CreatedAt         time.Time        `json:"created_at"`
}

// FromLot mapea la entidad. pinned marca la pieza fijada por un traslado aprobado.
func FromLot(l *entity.Lot, pinned bool) LotResponse {
	out := LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		LocationID:        l.LocationID,
		Kind:              string(l.Kind),
		BatchNumber:       l.BatchNumber,
		LotNumber:         l.LotNumber,
		ManufacturingDate: l.ManufacturingDate,
		ExpiryDate:        l.ExpiryDate,
		QualityGrade:      l.QualityGrade,
		PieceSize:         l.PieceSize,
		OriginalLotID:     l.OriginalLotID,
		InitialQuantity:   l.InitialQuantity,
		RemainingQuantity: l.RemainingQuantity,
		UnitCost:          l.UnitCost,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt,
	}
	if l.Kind == entity.LotKindOddSize {
		out.PieceStatus = l.OddSizeStatus(pinned)
	}
	return out
}

// ValuationResponse valoración de un par por método.
type ValuationResponse struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Method         string          `json:"valuation_method"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	LastCalculated time.Time       `json:"last_calculated"`
}

// FromValuation mapea la entidad.
func FromValuation(v *entity.StockValuation) ValuationResponse {
	return ValuationResponse{
		ProductID:      v.ProductID,
		LocationID:     v.LocationID,
		Method:         string(v.Method),
		CurrentValue:   v.CurrentValue,
		AverageCost:    v.AverageCost,
		LastCalculated: v.LastCalculated,
	}
}

// RecomputeResponse resultado de un recálculo global.
type RecomputeResponse struct {
	Pairs   int `json:"pairs"`
	Rows    int `json:"rows"`
	Drifted int `json:"drifted"`
}
