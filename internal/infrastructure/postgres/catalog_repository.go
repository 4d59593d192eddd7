package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de productos y ubicaciones (el catálogo lo administra otro servicio).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

type productRow struct {
	ID            string           `db:"id"`
	SKU           string           `db:"sku"`
	Name          string           `db:"name"`
	UnitMeasure   string           `db:"unit_measure"`
	DefaultCost   decimal.Decimal  `db:"default_cost"`
	ReorderLevel  decimal.Decimal  `db:"reorder_level"`
	MaxStockLevel *decimal.Decimal `db:"max_stock_level"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// GetProduct obtiene un producto por ID; (nil, nil) si no existe.
func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	sql, args, err := psql.
		Select("id", "sku", "name", "unit_measure", "default_cost", "reorder_level", "max_stock_level", "created_at", "updated_at").
		From("products").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, wrap("get product", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("get product", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0]
	return &entity.Product{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		UnitMeasure:   p.UnitMeasure,
		DefaultCost:   p.DefaultCost,
		ReorderLevel:  p.ReorderLevel,
		MaxStockLevel: p.MaxStockLevel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}, nil
}

// GetLocation obtiene una ubicación por ID; (nil, nil) si no existe.
func (r *CatalogRepo) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	sql, args, err := psql.
		Select("id", "name", "kind", "created_at", "updated_at").
		From("locations").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, wrap("get location", err)
	}
	var rows []entity.Location
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("get location", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
