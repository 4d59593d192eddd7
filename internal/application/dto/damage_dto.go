package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReportDamageRequest body para POST /api/damages.
type ReportDamageRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	LotID      string           `json:"lot_id,omitempty"`
	DamageType string           `json:"damage_type" validate:"required,oneof=breakage defect expiry water theft other"`
	Reason     string           `json:"reason,omitempty" validate:"max=1000"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ToInput traduce el request; ReportedBy viene del token.
func (r ReportDamageRequest) ToInput(actor string) damage.ReportInput {
	return damage.ReportInput{
		ProductID:  r.ProductID,
		LocationID: r.LocationID,
		LotID:      r.LotID,
		DamageType: r.DamageType,
		Reason:     r.Reason,
		Quantity:   r.Quantity,
		UnitCost:   r.UnitCost,
		ReportedBy: actor,
	}
}

// DisposeDamageRequest body para POST /api/damages/:id/dispose.
type DisposeDamageRequest struct {
	DisposalMethod string     `json:"disposal_method" validate:"required,oneof=scrap return_to_vendor sell_as_seconds recycle donate"`
	DisposalDate   *time.Time `json:"disposal_date,omitempty"`
}

// DamageResponse reporte de daño.
type DamageResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	LotID              *string         `json:"lot_id,omitempty"`
	LocationID         string          `json:"location_id"`
	DamageType         string          `json:"damage_type"`
	Reason             string          `json:"reason,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	TotalLoss          decimal.Decimal `json:"total_loss"`
	DisposalMethod     *string         `json:"disposal_method,omitempty"`
	DisposalDate       *time.Time      `json:"disposal_date,omitempty"`
	Status             string          `json:"status"`
	ReportedBy         string          `json:"reported_by"`
	ApprovedBy         *string         `json:"approved_by,omitempty"`
	RejectedBy         *string         `json:"rejected_by,omitempty"`
	DisposedBy         *string         `json:"disposed_by,omitempty"`
	DisposalMovementID *string         `json:"disposal_movement_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FromDamage mapea la entidad.
func FromDamage(d *entity.DamagedStock) DamageResponse {
	return DamageResponse{
		ID:                 d.ID,
		ProductID:          d.ProductID,
		LotID:              d.LotID,
		LocationID:         d.LocationID,
		DamageType:         d.DamageType,
		Reason:             d.Reason,
		Quantity:           d.Quantity,
		UnitCost:           d.UnitCost,
		TotalLoss:          d.TotalLoss,
		DisposalMethod:     d.DisposalMethod,
		DisposalDate:       d.DisposalDate,
		Status:             string(d.Status),
		ReportedBy:         d.ReportedBy,
		ApprovedBy:         d.ApprovedBy,
		RejectedBy:         d.RejectedBy,
		DisposedBy:         d.DisposedBy,
		DisposalMovementID: d.DisposalMovementID,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}
