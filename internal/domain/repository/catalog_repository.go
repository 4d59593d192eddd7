package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CatalogRepository puerto de solo lectura hacia el catálogo externo (productos y ubicaciones).
// Devuelve (nil, nil) cuando el recurso no existe.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	GetLocation(ctx context.Context, id string) (*entity.Location, error)
}
