package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product referencia de catálogo que el ledger necesita: identidad, costo por defecto y umbrales de alerta.
// El CRUD del catálogo vive fuera de este servicio.
type Product struct {
	ID            string
	SKU           string
	Name          string
	UnitMeasure   string
	DefaultCost   decimal.Decimal  // costo de respaldo cuando la entrada no trae unit_cost
	ReorderLevel  decimal.Decimal  // low_stock cuando 0 < disponible <= ReorderLevel
	MaxStockLevel *decimal.Decimal // overstock cuando current_stock > MaxStockLevel (opcional)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
