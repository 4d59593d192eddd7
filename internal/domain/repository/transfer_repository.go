package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia de traslados y sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la fila del traslado para serializar transiciones.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	UpdateItem(ctx context.Context, item *entity.TransferItem) error
	List(ctx context.Context, filter entity.TransferFilter) ([]*entity.Transfer, error)
	NextNumber(ctx context.Context) (string, error)
}
