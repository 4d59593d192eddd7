package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// DamageRepository define el puerto de persistencia de reportes de stock dañado.
type DamageRepository interface {
	Create(ctx context.Context, report *entity.DamagedStock) error
	GetByID(ctx context.Context, id string) (*entity.DamagedStock, error)
	GetForUpdate(ctx context.Context, id string) (*entity.DamagedStock, error)
	Update(ctx context.Context, report *entity.DamagedStock) error
	List(ctx context.Context, filter entity.DamageFilter) ([]*entity.DamagedStock, error)
}
