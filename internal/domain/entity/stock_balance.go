package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la proyección de stock por producto+ubicación (lectura rápida).
// Solo el ledger de movimientos la escribe; Available siempre se deriva.
type StockBalance struct {
	ProductID     string
	LocationID    string
	CurrentStock  decimal.Decimal
	ReservedStock decimal.Decimal
	UpdatedAt     time.Time
}

// NewStockBalance crea un balance vacío (se crea de forma perezosa en el primer movimiento).
func NewStockBalance(productID, locationID string) *StockBalance {
	return &StockBalance{
		ProductID:     productID,
		LocationID:    locationID,
		CurrentStock:  decimal.Zero,
		ReservedStock: decimal.Zero,
	}
}

// Available = current - reserved.
func (b *StockBalance) Available() decimal.Decimal {
	return b.CurrentStock.Sub(b.ReservedStock)
}

// Valid verifica current >= 0 y 0 <= reserved <= current.
func (b *StockBalance) Valid() bool {
	return !b.CurrentStock.IsNegative() &&
		!b.ReservedStock.IsNegative() &&
		b.ReservedStock.LessThanOrEqual(b.CurrentStock)
}

// PairKey identifica la unidad mínima de exclusión mutua: (producto, ubicación).
type PairKey struct {
	ProductID  string
	LocationID string
}

// Key devuelve la clave del balance.
func (b *StockBalance) Key() PairKey {
	return PairKey{ProductID: b.ProductID, LocationID: b.LocationID}
}

// Less define el orden global de bloqueo: ubicación ascendente y luego producto.
func (k PairKey) Less(o PairKey) bool {
	if k.LocationID != o.LocationID {
		return k.LocationID < o.LocationID
	}
	return k.ProductID < o.ProductID
}

func (k PairKey) String() string {
	return k.ProductID + "@" + k.LocationID
}
