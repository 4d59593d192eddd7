package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var errSingleLegTransfer = domain.NewValidationError("location", "un traslado directo requiere origen y destino; los tramos los registra el coordinador de traslados")

// Config parámetros del motor de inventario.
type Config struct {
	DepletionPolicy  string
	ValuationMethods []entity.ValuationMethod
	DefaultValuation entity.ValuationMethod
	ExpiryHorizon    time.Duration
}

// DefaultConfig FIFO, promedio ponderado y horizonte de vencimiento de 30 días.
func DefaultConfig() Config {
	return Config{
		DepletionPolicy:  inventory.PolicyFIFO,
		ValuationMethods: []entity.ValuationMethod{entity.ValuationWeightedAverage, entity.ValuationFIFO},
		DefaultValuation: entity.ValuationWeightedAverage,
		ExpiryHorizon:    30 * 24 * time.Hour,
	}
}

// Option configura dependencias opcionales del Ledger.
type Option func(*Ledger)

// WithCache conecta la caché de valorización (se invalida tras cada commit).
func WithCache(c ValuationCache) Option { return func(l *Ledger) { l.cache = c } }

// WithMetrics conecta los contadores.
func WithMetrics(m Metrics) Option { return func(l *Ledger) { l.metrics = m } }

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// Ledger es el motor de movimientos: única puerta de escritura sobre balances y lotes.
type Ledger struct {
	txRunner TxRunner
	reader   repository.Set
	cfg      Config
	cache    ValuationCache
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewLedger construye el ledger. reader son repositorios fuera de transacción para lecturas.
func NewLedger(txRunner TxRunner, reader repository.Set, cfg Config, log *logger.Logger, opts ...Option) *Ledger {
	if cfg.DefaultValuation == "" {
		cfg.DefaultValuation = entity.ValuationWeightedAverage
	}
	if !containsMethod(cfg.ValuationMethods, cfg.DefaultValuation) {
		cfg.ValuationMethods = append(cfg.ValuationMethods, cfg.DefaultValuation)
	}
	l := &Ledger{
		txRunner: txRunner,
		reader:   reader,
		cfg:      cfg,
		cache:    nopCache{},
		metrics:  nopMetrics{},
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func containsMethod(ms []entity.ValuationMethod, m entity.ValuationMethod) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// Config devuelve la configuración efectiva.
func (l *Ledger) Config() Config { return l.cfg }

// Reader repositorios de lectura (fuera de transacción).
func (l *Ledger) Reader() repository.Set { return l.reader }

// Now reloj del ledger.
func (l *Ledger) Now() time.Time { return l.now() }

// Run abre una transacción, entrega un Tx del ledger y hace Commit o Rollback.
// Tras el commit invalida caché y registra métricas de los movimientos escritos.
func (l *Ledger) Run(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	var t *Tx
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		t = l.newTx(repos)
		return fn(ctx, t)
	})
	if err != nil {
		return err
	}
	l.AfterCommit(ctx, t)
	return nil
}

// WithinTx construye un Tx sobre repositorios de una transacción ajena (ventas, compras, devoluciones).
// El caller debe invocar AfterCommit cuando su transacción confirme.
func (l *Ledger) WithinTx(repos repository.Set) *Tx {
	return l.newTx(repos)
}

// AfterCommit efectos posteriores al commit: invalidación de caché y métricas.
func (l *Ledger) AfterCommit(ctx context.Context, t *Tx) {
	if t == nil {
		return
	}
	for _, m := range t.recorded {
		l.metrics.MovementRecorded(m.Type)
	}
	if len(t.touched) == 0 {
		return
	}
	keys := make([]entity.PairKey, 0, len(t.touched))
	for k := range t.touched {
		keys = append(keys, k)
	}
	if err := l.cache.Invalidate(ctx, keys...); err != nil {
		l.log.Warn().Err(err).Int("pairs", len(keys)).Msg("no se pudo invalidar caché de valorización")
	}
}

// RecordMovement registra un movimiento en su propia transacción.
func (l *Ledger) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.singleLegTransfer() {
		return nil, errSingleLegTransfer
	}
	var mov *entity.Movement
	err := l.Run(ctx, func(ctx context.Context, tx *Tx) error {
		var err error
		mov, err = tx.Record(ctx, in)
		return err
	})
	if err != nil {
		l.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("type", string(in.Type)).
			Str("quantity", in.Quantity.String()).
			Msg("movimiento rechazado")
		return nil, err
	}
	l.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", string(mov.Type)).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento registrado")
	return mov, nil
}

// RecordInTx registra un movimiento usando los repositorios de la transacción del caller.
// El caller debe llamar AfterCommit(tx) tras confirmar su transacción.
func (l *Ledger) RecordInTx(ctx context.Context, repos repository.Set, in MovementInput) (*Tx, *entity.Movement, error) {
	if in.singleLegTransfer() {
		return nil, nil, errSingleLegTransfer
	}
	tx := l.WithinTx(repos)
	mov, err := tx.Record(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return tx, mov, nil
}

// GetBalance devuelve el balance del par (en cero si nunca tuvo movimientos).
func (l *Ledger) GetBalance(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	if err := l.requirePair(ctx, productID, locationID); err != nil {
		return nil, err
	}
	return l.reader.Balances.Get(ctx, entity.PairKey{ProductID: productID, LocationID: locationID})
}

// ListMovements lista el ledger con filtros y paginación.
func (l *Ledger) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	filter.Limit = pageSize(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", "desconocido: "+string(filter.Type))
	}
	return l.reader.Movements.List(ctx, filter)
}

// GetMovement devuelve un movimiento con sus asignaciones de lote.
func (l *Ledger) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	mov, err := l.reader.Movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

// ListLots lista lotes con filtros y paginación.
func (l *Ledger) ListLots(ctx context.Context, filter entity.LotFilter) ([]*entity.Lot, error) {
	filter.Limit = pageSize(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return l.reader.Lots.List(ctx, filter)
}

// PinnedLots devuelve los lotes irregulares de la lista fijados por un traslado aprobado y aún pendiente.
func (l *Ledger) PinnedLots(ctx context.Context, lots []*entity.Lot) (map[string]bool, error) {
	wanted := make(map[string]bool)
	locations := make(map[string]bool)
	for _, lot := range lots {
		if lot.Kind == entity.LotKindOddSize {
			wanted[lot.ID] = true
			locations[lot.LocationID] = true
		}
	}
	out := make(map[string]bool)
	for loc := range locations {
		for offset := 0; ; offset += maxPageSize {
			page, err := l.reader.Transfers.List(ctx, entity.TransferFilter{
				LocationID: loc, Status: entity.TransferPending, Limit: maxPageSize, Offset: offset,
			})
			if err != nil {
				return nil, err
			}
			for _, t := range page {
				if !t.IsApproved() || t.FromLocationID != loc {
					continue
				}
				for _, it := range t.Items {
					if it.LotID != nil && wanted[*it.LotID] {
						out[*it.LotID] = true
					}
				}
			}
			if len(page) < maxPageSize {
				break
			}
		}
	}
	return out, nil
}

// ExpireLots marca como vencidos los lotes activos con fecha de vencimiento pasada.
// No cambia cantidades ni escribe movimientos; devuelve cuántos lotes cambió.
func (l *Ledger) ExpireLots(ctx context.Context) (int, error) {
	count := 0
	err := l.Run(ctx, func(ctx context.Context, tx *Tx) error {
		count = 0
		due, err := tx.repos.Lots.ListDueForExpiry(ctx, tx.now)
		if err != nil {
			return err
		}
		keys := make([]entity.PairKey, 0, len(due))
		for _, lot := range due {
			keys = append(keys, entity.PairKey{ProductID: lot.ProductID, LocationID: lot.LocationID})
		}
		if err := tx.LockPairs(ctx, keys...); err != nil {
			return err
		}
		for _, lot := range due {
			lot.Status = entity.LotExpired
			lot.UpdatedAt = tx.now
			if err := tx.repos.Lots.Update(ctx, lot); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		l.log.Info().Int("lots", count).Msg("lotes marcados como vencidos")
	}
	return count, nil
}

func (l *Ledger) requirePair(ctx context.Context, productID, locationID string) error {
	p, err := l.reader.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	loc, err := l.reader.Catalog.GetLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	return nil
}

func pageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
