package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error
}

// ValuationCache caché de lectura de valorizaciones (Redis). Get devuelve (nil, nil) en un miss.
type ValuationCache interface {
	Get(ctx context.Context, key entity.PairKey, method entity.ValuationMethod) (*entity.StockValuation, error)
	Set(ctx context.Context, valuation *entity.StockValuation) error
	Invalidate(ctx context.Context, keys ...entity.PairKey) error
}

// Metrics contadores del ledger.
type Metrics interface {
	MovementRecorded(t entity.MovementType)
	StockRejected(t entity.MovementType)
}

type nopCache struct{}

func (nopCache) Get(context.Context, entity.PairKey, entity.ValuationMethod) (*entity.StockValuation, error) {
	return nil, nil
}
func (nopCache) Set(context.Context, *entity.StockValuation) error   { return nil }
func (nopCache) Invalidate(context.Context, ...entity.PairKey) error { return nil }

type nopMetrics struct{}

func (nopMetrics) MovementRecorded(entity.MovementType) {}
func (nopMetrics) StockRejected(entity.MovementType)    {}
