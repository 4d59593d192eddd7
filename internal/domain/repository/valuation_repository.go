package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ValuationRepository define el puerto de la caché persistente de valorización.
type ValuationRepository interface {
	// Get devuelve (nil, nil) si aún no hay fila para el par+método.
	Get(ctx context.Context, key entity.PairKey, method entity.ValuationMethod) (*entity.StockValuation, error)
	Upsert(ctx context.Context, valuation *entity.StockValuation) error
}
