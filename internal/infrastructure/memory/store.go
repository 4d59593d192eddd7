package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type valuationKey struct {
	pair   entity.PairKey
	method entity.ValuationMethod
}

type state struct {
	products    map[string]entity.Product
	locations   map[string]entity.Location
	balances    map[entity.PairKey]entity.StockBalance
	lots        map[string]entity.Lot
	movements   []entity.Movement
	transfers   map[string]entity.Transfer
	transferSeq int64
	damages     map[string]entity.DamagedStock
	valuations  map[valuationKey]entity.StockValuation
	alerts      map[string]entity.StockAlert
	alertOrder  []string
}

func newState() *state {
	return &state{
		products:   make(map[string]entity.Product),
		locations:  make(map[string]entity.Location),
		balances:   make(map[entity.PairKey]entity.StockBalance),
		lots:       make(map[string]entity.Lot),
		transfers:  make(map[string]entity.Transfer),
		damages:    make(map[string]entity.DamagedStock),
		valuations: make(map[valuationKey]entity.StockValuation),
		alerts:     make(map[string]entity.StockAlert),
	}
}

// clone copia el estado para poder descartarlo en un rollback. Los valores guardados nunca
// comparten slices con el caller, así que basta copiar mapas y slices de primer nivel.
func (s *state) clone() *state {
	c := &state{
		products:    make(map[string]entity.Product, len(s.products)),
		locations:   make(map[string]entity.Location, len(s.locations)),
		balances:    make(map[entity.PairKey]entity.StockBalance, len(s.balances)),
		lots:        make(map[string]entity.Lot, len(s.lots)),
		movements:   append([]entity.Movement(nil), s.movements...),
		transfers:   make(map[string]entity.Transfer, len(s.transfers)),
		transferSeq: s.transferSeq,
		damages:     make(map[string]entity.DamagedStock, len(s.damages)),
		valuations:  make(map[valuationKey]entity.StockValuation, len(s.valuations)),
		alerts:      make(map[string]entity.StockAlert, len(s.alerts)),
		alertOrder:  append([]string(nil), s.alertOrder...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.damages {
		c.damages[k] = v
	}
	for k, v := range s.valuations {
		c.valuations[k] = v
	}
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	return c
}

// Store almacén en memoria para desarrollo y tests. Una transacción toma el lock exclusivo
// completo, lo que serializa escritores igual que el bloqueo por par en PostgreSQL pero con
// granularidad gruesa.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// AddProduct carga un producto en el catálogo (seed / tests).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// AddLocation carga una ubicación en el catálogo (seed / tests).
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.locations[l.ID] = l
}

// Repos devuelve repositorios de lectura fuera de transacción.
func (s *Store) Repos() repository.Set {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Set {
	return repository.Set{
		Catalog:    &catalogRepo{s: s, inTx: inTx},
		Balances:   &balanceRepo{s: s, inTx: inTx},
		Lots:       &lotRepo{s: s, inTx: inTx},
		Movements:  &movementRepo{s: s, inTx: inTx},
		Transfers:  &transferRepo{s: s, inTx: inTx},
		Damages:    &damageRepo{s: s, inTx: inTx},
		Valuations: &valuationRepo{s: s, inTx: inTx},
		Alerts:     &alertRepo{s: s, inTx: inTx},
	}
}

// Run ejecuta fn con el lock exclusivo; si fn falla restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(ctx, s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) view(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func (s *Store) update(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
