package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransferItemRequest línea de un traslado.
type TransferItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	LotID     string          `json:"lot_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id" validate:"required"`
	ToLocationID   string                `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Notes          string                `json:"notes,omitempty" validate:"max=1000"`
	Items          []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ToInput traduce el request; RequestedBy viene del token.
func (r CreateTransferRequest) ToInput(actor string) transfer.CreateInput {
	in := transfer.CreateInput{
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		Notes:          r.Notes,
		RequestedBy:    actor,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, transfer.ItemInput{ProductID: it.ProductID, LotID: it.LotID, Quantity: it.Quantity})
	}
	return in
}

// TransferItemResponse línea con costos y movimientos asociados.
type TransferItemResponse struct {
	ID                 string           `json:"id"`
	ProductID          string           `json:"product_id"`
	LotID              *string          `json:"lot_id,omitempty"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitCost           *decimal.Decimal `json:"unit_cost,omitempty"`
	DispatchMovementID *string          `json:"dispatch_movement_id,omitempty"`
	ReceiveMovementID  *string          `json:"receive_movement_id,omitempty"`
}

// TransferResponse traslado con su historial de actores.
type TransferResponse struct {
	ID             string                 `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	RequestedBy    string                 `json:"requested_by"`
	ApprovedBy     *string                `json:"approved_by,omitempty"`
	DispatchedBy   *string                `json:"dispatched_by,omitempty"`
	ReceivedBy     *string                `json:"received_by,omitempty"`
	CancelledBy    *string                `json:"cancelled_by,omitempty"`
	RequestedAt    time.Time              `json:"requested_at"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	DispatchedAt   *time.Time             `json:"dispatched_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Items          []TransferItemResponse `json:"items"`
}

// FromTransfer mapea la entidad.
func FromTransfer(t *entity.Transfer) TransferResponse {
	out := TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         string(t.Status),
		Notes:          t.Notes,
		RequestedBy:    t.RequestedBy,
		ApprovedBy:     t.ApprovedBy,
		DispatchedBy:   t.DispatchedBy,
		ReceivedBy:     t.ReceivedBy,
		CancelledBy:    t.CancelledBy,
		RequestedAt:    t.RequestedAt,
		ApprovedAt:     t.ApprovedAt,
		DispatchedAt:   t.DispatchedAt,
		ReceivedAt:     t.ReceivedAt,
		CancelledAt:    t.CancelledAt,
		Items:          make([]TransferItemResponse, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, TransferItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			LotID:              it.LotID,
			Quantity:           it.Quantity,
			UnitCost:           it.UnitCost,
			DispatchMovementID: it.DispatchMovementID,
			ReceiveMovementID:  it.ReceiveMovementID,
		})
	}
	return out
}
