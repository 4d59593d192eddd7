package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMs int
}

// NewTxRunner construye el runner con el pool. lockTimeoutMs <= 0 deja el lock_timeout del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMs int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMs: lockTimeoutMs}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos de fila (FOR UPDATE) de los repos serializan por par producto+ubicación.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMs > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMs)); err != nil {
			return fmt.Errorf("lock_timeout: %w", classify(err))
		}
	}

	if err := fn(ctx, NewRepositorySet(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classify(err))
	}
	return nil
}

// NewRepositorySet arma los repositorios sobre q (pool para lecturas, tx dentro de Run).
func NewRepositorySet(q Querier) repository.Set {
	return repository.Set{
		Catalog:    NewCatalogRepository(q),
		Balances:   NewStockBalanceRepository(q),
		Lots:       NewLotRepository(q),
		Movements:  NewMovementRepository(q),
		Transfers:  NewTransferRepository(q),
		Damages:    NewDamageRepository(q),
		Valuations: NewValuationRepository(q),
		Alerts:     NewAlertRepository(q),
	}
}
