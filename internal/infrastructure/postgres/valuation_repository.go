package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ValuationRepository = (*ValuationRepo)(nil)

// ValuationRepo caché persistente stock_valuations.
type ValuationRepo struct {
	q Querier
}

// NewValuationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewValuationRepository(q Querier) *ValuationRepo {
	return &ValuationRepo{q: q}
}

type valuationRow struct {
	ProductID       string          `db:"product_id"`
	LocationID      string          `db:"location_id"`
	ValuationMethod string          `db:"valuation_method"`
	CurrentValue    decimal.Decimal `db:"current_value"`
	AverageCost     decimal.Decimal `db:"average_cost"`
	LastCalculated  time.Time       `db:"last_calculated"`
}

var valuationColumns = []string{"product_id", "location_id", "valuation_method", "current_value", "average_cost", "last_calculated"}

// Get devuelve (nil, nil) si no hay fila para el par+método.
func (r *ValuationRepo) Get(ctx context.Context, key entity.PairKey, method entity.ValuationMethod) (*entity.StockValuation, error) {
	sql, args, err := psql.Select(valuationColumns...).
		From("stock_valuations").
		Where("product_id = ? AND location_id = ? AND valuation_method = ?", key.ProductID, key.LocationID, string(method)).
		ToSql()
	if err != nil {
		return nil, wrap("get valuation", err)
	}
	var rows []valuationRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("get valuation", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	v := rows[0]
	return &entity.StockValuation{
		ProductID:      v.ProductID,
		LocationID:     v.LocationID,
		Method:         entity.ValuationMethod(v.ValuationMethod),
		CurrentValue:   v.CurrentValue,
		AverageCost:    v.AverageCost,
		LastCalculated: v.LastCalculated,
	}, nil
}

func (r *ValuationRepo) Upsert(ctx context.Context, v *entity.StockValuation) error {
	sql, args, err := psql.Insert("stock_valuations").
		Columns(valuationColumns...).
		Values(v.ProductID, v.LocationID, string(v.Method), v.CurrentValue, v.AverageCost, v.LastCalculated).
		Suffix(`ON CONFLICT (product_id, location_id, valuation_method) DO UPDATE SET
			current_value = EXCLUDED.current_value,
			average_cost = EXCLUDED.average_cost,
			last_calculated = EXCLUDED.last_calculated`).
		ToSql()
	if err != nil {
		return wrap("upsert valuation", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("upsert valuation", err)
	}
	return nil
}
