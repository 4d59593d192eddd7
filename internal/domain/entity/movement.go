package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
	MovementDamage     MovementType = "damage"
	MovementReturn     MovementType = "return"
	MovementProduction MovementType = "production"
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementTransfer, MovementAdjustment,
		MovementDamage, MovementReturn, MovementProduction:
		return true
	}
	return false
}

// Tipos de referencia al evento de negocio que originó el movimiento.
const (
	ReferenceTransfer       = "transfer"
	ReferenceTransferCancel = "transfer_cancel"
	ReferenceDamage         = "damaged_stock"
	ReferenceManual         = "manual"
)

// LotAllocation porción de un lote implicada en un movimiento. LocationID indica el lado
// (origen en consumos, destino en entradas).
type LotAllocation struct {
	LotID      string
	LocationID string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// Total = Quantity * UnitCost.
func (a LotAllocation) Total() decimal.Decimal {
	return a.Quantity.Mul(a.UnitCost)
}

// Movement entrada inmutable del ledger. Quantity siempre positiva; la dirección la dan
// FromLocationID (sale stock) y ToLocationID (entra stock); ambos = traslado.
type Movement struct {
	ID             string
	ProductID      string
	LotID          *string // presente cuando un único lote está implicado
	FromLocationID *string
	ToLocationID   *string
	Type           MovementType
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal
	TotalCost      *decimal.Decimal
	ReferenceType  string
	ReferenceID    string
	CreatedBy      string
	CreatedAt      time.Time
	Allocations    []LotAllocation
}

// IsReceipt indica si el movimiento ingresa stock a ToLocationID.
func (m *Movement) IsReceipt() bool { return m.ToLocationID != nil }

// IsConsumption indica si el movimiento saca stock de FromLocationID.
func (m *Movement) IsConsumption() bool { return m.FromLocationID != nil }

// MovementFilter filtros para listar el ledger.
type MovementFilter struct {
	ProductID     string
	LocationID    string // coincide con from o to
	Type          MovementType
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// AllocationsAt filtra las asignaciones del lado indicado.
func (m *Movement) AllocationsAt(locationID string) []LotAllocation {
	var out []LotAllocation
	for _, a := range m.Allocations {
		if a.LocationID == locationID {
			out = append(out, a)
		}
	}
	return out
}
