package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockBalanceRepository define el puerto para la proyección de stock por producto+ubicación.
// Solo el ledger de movimientos lo usa para escribir.
type StockBalanceRepository interface {
	// LockPairs bloquea (SELECT FOR UPDATE) los pares en el orden recibido, creándolos si no existen.
	// El caller debe pasarlos ya ordenados (entity.PairKey.Less) para evitar deadlocks.
	LockPairs(ctx context.Context, keys ...entity.PairKey) error
	// Get devuelve el balance; si no existe devuelve uno en cero (creación perezosa).
	Get(ctx context.Context, key entity.PairKey) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	List(ctx context.Context, limit, offset int) ([]*entity.StockBalance, error)
}
