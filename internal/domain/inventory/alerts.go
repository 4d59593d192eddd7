package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EvaluateAlerts devuelve las alertas candidatas para un par producto+ubicación.
// Función pura: la persistencia (insertar si no hay una abierta) es responsabilidad del caller.
func EvaluateAlerts(balance *entity.StockBalance, product *entity.Product, lots []*entity.Lot, now time.Time, horizon time.Duration) []entity.StockAlert {
	var out []entity.StockAlert
	available := balance.Available()

	newAlert := func(t entity.AlertType, current decimal.Decimal, threshold *decimal.Decimal, msg string) entity.StockAlert {
		return entity.StockAlert{
			ProductID:      balance.ProductID,
			LocationID:     balance.LocationID,
			AlertType:      t,
			CurrentStock:   current,
			ThresholdValue: threshold,
			Message:        msg,
			CreatedAt:      now,
		}
	}

	switch {
	case available.IsZero():
		out = append(out, newAlert(entity.AlertOutOfStock, available, nil,
			fmt.Sprintf("%s sin stock disponible", productLabel(product))))
	case available.GreaterThan(decimal.Zero) && product != nil && available.LessThanOrEqual(product.ReorderLevel):
		reorder := product.ReorderLevel
		out = append(out, newAlert(entity.AlertLowStock, available, &reorder,
			fmt.Sprintf("%s bajo punto de reorden: disponible %s, reorden %s", productLabel(product), available.String(), reorder.String())))
	}

	if product != nil && product.MaxStockLevel != nil && balance.CurrentStock.GreaterThan(*product.MaxStockLevel) {
		maxLevel := *product.MaxStockLevel
		out = append(out, newAlert(entity.AlertOverstock, balance.CurrentStock, &maxLevel,
			fmt.Sprintf("%s sobre stock máximo: actual %s, máximo %s", productLabel(product), balance.CurrentStock.String(), maxLevel.String())))
	}

	if horizon > 0 {
		var soonest *entity.Lot
		for _, l := range lots {
			if l.Status != entity.LotActive || !l.RemainingQuantity.GreaterThan(decimal.Zero) {
				continue
			}
			if !l.ExpiresWithin(now, horizon) {
				continue
			}
			if soonest == nil || l.ExpiryDate.Before(*soonest.ExpiryDate) {
				soonest = l
			}
		}
		if soonest != nil {
			out = append(out, newAlert(entity.AlertExpiryWarning, soonest.RemainingQuantity, nil,
				fmt.Sprintf("lote %s de %s vence el %s", soonest.BatchNumber, productLabel(product), soonest.ExpiryDate.Format("2006-01-02"))))
		}
	}
	return out
}

func productLabel(p *entity.Product) string {
	if p == nil {
		return "producto"
	}
	if p.SKU != "" {
		return p.SKU
	}
	return p.Name
}
