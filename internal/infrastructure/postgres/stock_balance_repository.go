package postgres

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo proyección stock_balances sobre PostgreSQL (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

type balanceRow struct {
	ProductID     string          `db:"product_id"`
	LocationID    string          `db:"location_id"`
	CurrentStock  decimal.Decimal `db:"current_stock"`
	ReservedStock decimal.Decimal `db:"reserved_stock"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (b balanceRow) toEntity() *entity.StockBalance {
	return &entity.StockBalance{
		ProductID:     b.ProductID,
		LocationID:    b.LocationID,
		CurrentStock:  b.CurrentStock,
		ReservedStock: b.ReservedStock,
		UpdatedAt:     b.UpdatedAt,
	}
}

var balanceColumns = []string{"product_id", "location_id", "current_stock", "reserved_stock", "updated_at"}

// LockPairs crea las filas faltantes y luego las bloquea (SELECT FOR UPDATE) en el orden recibido.
func (r *StockBalanceRepo) LockPairs(ctx context.Context, keys ...entity.PairKey) error {
	for _, k := range keys {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO stock_balances (product_id, location_id, current_stock, reserved_stock, updated_at)
			VALUES ($1, $2, 0, 0, now())
			ON CONFLICT (product_id, location_id) DO NOTHING`, k.ProductID, k.LocationID); err != nil {
			return wrap("lock pair "+k.String(), err)
		}
		if _, err := r.q.Exec(ctx, `
			SELECT 1 FROM stock_balances
			WHERE product_id = $1 AND location_id = $2
			FOR UPDATE`, k.ProductID, k.LocationID); err != nil {
			return wrap("lock pair "+k.String(), err)
		}
	}
	return nil
}

// Get devuelve el balance o uno en cero si el par aún no tiene fila.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.PairKey) (*entity.StockBalance, error) {
	sql, args, err := psql.Select(balanceColumns...).
		From("stock_balances").
		Where("product_id = ? AND location_id = ?", key.ProductID, key.LocationID).
		ToSql()
	if err != nil {
		return nil, wrap("get balance", err)
	}
	var rows []balanceRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("get balance", err)
	}
	if len(rows) == 0 {
		return entity.NewStockBalance(key.ProductID, key.LocationID), nil
	}
	return rows[0].toEntity(), nil
}

// Upsert escribe current/reserved; available es columna generada.
func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	sql, args, err := psql.Insert("stock_balances").
		Columns(balanceColumns...).
		Values(b.ProductID, b.LocationID, b.CurrentStock, b.ReservedStock, b.UpdatedAt).
		Suffix(`ON CONFLICT (product_id, location_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			reserved_stock = EXCLUDED.reserved_stock,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return wrap("upsert balance", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("upsert balance", err)
	}
	return nil
}

// List pagina los balances en el orden de bloqueo (ubicación, producto).
func (r *StockBalanceRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockBalance, error) {
	q := psql.Select(balanceColumns...).
		From("stock_balances").
		OrderBy("location_id", "product_id")
	q = paginate(q, limit, offset)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap("list balances", err)
	}
	var rows []balanceRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap("list balances", err)
	}
	out := make([]*entity.StockBalance, 0, len(rows))
	for _, b := range rows {
		out = append(out, b.toEntity())
	}
	return out, nil
}
