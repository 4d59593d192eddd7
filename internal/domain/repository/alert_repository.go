package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia de alertas de stock.
type AlertRepository interface {
	// InsertIfNotOpen inserta la alerta salvo que ya exista una abierta del mismo tipo para el par.
	// Devuelve true si insertó.
	InsertIfNotOpen(ctx context.Context, alert *entity.StockAlert) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	Update(ctx context.Context, alert *entity.StockAlert) error
	List(ctx context.Context, filter entity.AlertFilter) ([]*entity.StockAlert, error)
}
