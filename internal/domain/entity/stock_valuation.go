package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationMethod convención contable para valorizar inventario.
type ValuationMethod string

const (
	ValuationFIFO            ValuationMethod = "fifo"
	ValuationLIFO            ValuationMethod = "lifo"
	ValuationWeightedAverage ValuationMethod = "weighted_average"
	ValuationSpecific        ValuationMethod = "specific"
)

// Valid indica si el método es conocido.
func (m ValuationMethod) Valid() bool {
	switch m {
	case ValuationFIFO, ValuationLIFO, ValuationWeightedAverage, ValuationSpecific:
		return true
	}
	return false
}

// LotBased indica si el valor se obtiene sumando lotes (todo excepto promedio ponderado).
func (m ValuationMethod) LotBased() bool {
	return m != ValuationWeightedAverage
}

// StockValuation valor actual por producto+ubicación+método. Siempre recalculable desde lotes y ledger.
type StockValuation struct {
	ProductID      string
	LocationID     string
	Method         ValuationMethod
	CurrentValue   decimal.Decimal
	AverageCost    decimal.Decimal
	LastCalculated time.Time
}
