package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del ledger (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	// ListByPair devuelve los movimientos que tocan el par en orden cronológico (para reconstrucción).
	ListByPair(ctx context.Context, key entity.PairKey) ([]*entity.Movement, error)
}
