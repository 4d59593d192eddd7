package alerting

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// idealFactor stock objetivo cuando el producto no define nivel máximo: 1.5 x punto de reorden.
var idealFactor = decimal.RequireFromString("1.5")

// Suggestion par producto+ubicación bajo su punto de reorden con la cantidad sugerida de pedido.
type Suggestion struct {
	ProductID     string
	SKU           string
	ProductName   string
	LocationID    string
	Available     decimal.Decimal
	ReorderLevel  decimal.Decimal
	IdealStock    decimal.Decimal
	SuggestedQty  decimal.Decimal
	UnitCost      decimal.Decimal
	EstimatedCost decimal.Decimal
	Priority      int
}

// deficitRatio (reorden - disponible) / reorden; 1 = agotado.
func (s Suggestion) deficitRatio() decimal.Decimal {
	if s.ReorderLevel.IsZero() {
		return decimal.Zero
	}
	return s.ReorderLevel.Sub(s.Available).Div(s.ReorderLevel)
}

// Replenishment lista de reposición: pares con disponible <= punto de reorden, priorizados por déficit relativo.
// locationID vacío considera todas las ubicaciones. El costo unitario es el promedio ponderado guardado
// o, si no hay valorización, el costo por defecto del producto.
func (uc *UseCase) Replenishment(ctx context.Context, locationID string) ([]Suggestion, error) {
	reader := uc.ledger.Reader()
	products := map[string]*entity.Product{}
	var out []Suggestion
	for offset := 0; ; offset += scanPageSize {
		page, err := reader.Balances.List(ctx, scanPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, b := range page {
			if locationID != "" && b.LocationID != locationID {
				continue
			}
			p, ok := products[b.ProductID]
			if !ok {
				if p, err = reader.Catalog.GetProduct(ctx, b.ProductID); err != nil {
					return nil, err
				}
				products[b.ProductID] = p
			}
			if p == nil || !p.ReorderLevel.GreaterThan(decimal.Zero) || b.Available().GreaterThan(p.ReorderLevel) {
				continue
			}
			s, err := uc.suggest(ctx, p, b)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		if len(page) < scanPageSize {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].deficitRatio(), out[j].deficitRatio()
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return out[i].EstimatedCost.GreaterThan(out[j].EstimatedCost)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

func (uc *UseCase) suggest(ctx context.Context, p *entity.Product, b *entity.StockBalance) (Suggestion, error) {
	ideal := p.ReorderLevel.Mul(idealFactor)
	if p.MaxStockLevel != nil && p.MaxStockLevel.GreaterThan(p.ReorderLevel) {
		ideal = *p.MaxStockLevel
	}
	qty := ideal.Sub(b.Available())
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	cost := p.DefaultCost
	v, err := uc.ledger.Reader().Valuations.Get(ctx, b.Key(), entity.ValuationWeightedAverage)
	if err != nil {
		return Suggestion{}, err
	}
	if v != nil && v.AverageCost.GreaterThan(decimal.Zero) {
		cost = v.AverageCost
	}
	return Suggestion{
		ProductID:     p.ID,
		SKU:           p.SKU,
		ProductName:   p.Name,
		LocationID:    b.LocationID,
		Available:     b.Available(),
		ReorderLevel:  p.ReorderLevel,
		IdealStock:    ideal,
		SuggestedQty:  qty,
		UnitCost:      cost,
		EstimatedCost: qty.Mul(cost).Round(2),
	}, nil
}
