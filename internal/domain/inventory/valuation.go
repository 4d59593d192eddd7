package inventory

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotsValue suma remaining * unit_cost de los lotes con cantidad física (activos o vencidos).
func LotsValue(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.HasStock() {
			total = total.Add(l.Value())
		}
	}
	return total
}

// LotBasedValuation valoriza FIFO/LIFO/específica: el valor es la suma de los lotes vigentes.
func LotBasedValuation(key entity.PairKey, method entity.ValuationMethod, lots []*entity.Lot, currentStock decimal.Decimal, now time.Time) entity.StockValuation {
	value := LotsValue(lots)
	avg := decimal.Zero
	if currentStock.GreaterThan(decimal.Zero) {
		avg = value.Div(currentStock)
	}
	return entity.StockValuation{
		ProductID:      key.ProductID,
		LocationID:     key.LocationID,
		Method:         method,
		CurrentValue:   value,
		AverageCost:    avg,
		LastCalculated: now,
	}
}

// ApplyReceipt actualiza un promedio ponderado con una entrada de receivedQty a receivedCost.
// oldStock es el current_stock antes del movimiento.
func ApplyReceipt(v entity.StockValuation, oldStock, receivedQty, receivedCost decimal.Decimal, now time.Time) entity.StockValuation {
	v.AverageCost = CostCalculator(oldStock, v.AverageCost, receivedQty, receivedCost)
	v.CurrentValue = oldStock.Add(receivedQty).Mul(v.AverageCost)
	v.LastCalculated = now
	return v
}

// ApplyConsumption retira valor al promedio vigente; el promedio no cambia.
func ApplyConsumption(v entity.StockValuation, newStock decimal.Decimal, now time.Time) entity.StockValuation {
	v.CurrentValue = newStock.Mul(v.AverageCost)
	v.LastCalculated = now
	return v
}

// ApplyReinstatement reingresa cantidad al promedio vigente (reverso de un despacho cancelado):
// el valor vuelve a newStock * promedio y el promedio no cambia.
func ApplyReinstatement(v entity.StockValuation, newStock decimal.Decimal, now time.Time) entity.StockValuation {
	v.CurrentValue = newStock.Mul(v.AverageCost)
	v.LastCalculated = now
	return v
}

// ReplayWeightedAverage reconstruye el promedio ponderado de un par recorriendo sus movimientos en orden.
func ReplayWeightedAverage(key entity.PairKey, movements []*entity.Movement, now time.Time) entity.StockValuation {
	v := entity.StockValuation{
		ProductID:   key.ProductID,
		LocationID:  key.LocationID,
		Method:      entity.ValuationWeightedAverage,
		AverageCost: decimal.Zero,
	}
	stock := decimal.Zero
	for _, m := range movements {
		in := m.ToLocationID != nil && *m.ToLocationID == key.LocationID
		out := m.FromLocationID != nil && *m.FromLocationID == key.LocationID
		switch {
		case in && !out && m.ReferenceType == entity.ReferenceTransferCancel:
			stock = stock.Add(m.Quantity)
			v = ApplyReinstatement(v, stock, now)
		case in && !out:
			cost := decimal.Zero
			if m.UnitCost != nil {
				cost = *m.UnitCost
			}
			v = ApplyReceipt(v, stock, m.Quantity, cost, now)
			stock = stock.Add(m.Quantity)
		case out && !in:
			stock = stock.Sub(m.Quantity)
			v = ApplyConsumption(v, stock, now)
		}
	}
	v.CurrentValue = stock.Mul(v.AverageCost)
	v.LastCalculated = now
	return v
}
