package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LotReader lectura de lotes (la usan coordinadores que no deben mutarlos).
type LotReader interface {
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// ListByPair devuelve los lotes con cantidad (activos o vencidos) del par.
	ListByPair(ctx context.Context, key entity.PairKey) ([]*entity.Lot, error)
	List(ctx context.Context, filter entity.LotFilter) ([]*entity.Lot, error)
	// ListDueForExpiry devuelve lotes activos con cantidad cuya fecha de vencimiento es <= now.
	ListDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Lot, error)
}

// LotRepository define el puerto del registro de lotes. Los lotes nunca se borran.
type LotRepository interface {
	LotReader
	Create(ctx context.Context, lot *entity.Lot) error
	Update(ctx context.Context, lot *entity.Lot) error
}
