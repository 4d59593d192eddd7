package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado del traslado entre ubicaciones.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferInTransit TransferStatus = "in_transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// IsTerminal indica si el estado ya no admite transiciones.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferCancelled
}

// Transfer traslado con ciclo de vida aprobación/despacho/recepción.
type Transfer struct {
	ID             string
	TransferNumber string
	FromLocationID string
	ToLocationID   string
	Status         TransferStatus
	Notes          string
	RequestedBy    string
	ApprovedBy     *string
	DispatchedBy   *string
	ReceivedBy     *string
	CancelledBy    *string
	RequestedAt    time.Time
	ApprovedAt     *time.Time
	DispatchedAt   *time.Time
	ReceivedAt     *time.Time
	CancelledAt    *time.Time
	UpdatedAt      time.Time
	Items          []TransferItem
}

// IsApproved indica si el traslado tiene aprobación (y por tanto reserva en origen).
func (t *Transfer) IsApproved() bool { return t.ApprovedBy != nil }

// TransferItem línea del traslado.
type TransferItem struct {
	ID                 string
	TransferID         string
	ProductID          string
	LotID              *string // lote fijado en origen (identificación específica)
	Quantity           decimal.Decimal
	UnitCost           *decimal.Decimal // costo unitario consumido en el despacho
	DispatchMovementID *string
	ReceiveMovementID  *string
}

// TransferFilter filtros para listar traslados.
type TransferFilter struct {
	LocationID string
	Status     TransferStatus
	Limit      int
	Offset     int
}
