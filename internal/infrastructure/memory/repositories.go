package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CatalogRepository      = (*catalogRepo)(nil)
	_ repository.StockBalanceRepository = (*balanceRepo)(nil)
	_ repository.LotRepository          = (*lotRepo)(nil)
	_ repository.MovementRepository     = (*movementRepo)(nil)
	_ repository.TransferRepository     = (*transferRepo)(nil)
	_ repository.DamageRepository       = (*damageRepo)(nil)
	_ repository.ValuationRepository    = (*valuationRepo)(nil)
	_ repository.AlertRepository        = (*alertRepo)(nil)
)

// ---------------------------------------------------------------- catálogo

type catalogRepo struct {
	s    *Store
	inTx bool
}

func (r *catalogRepo) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.inTx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *catalogRepo) GetLocation(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.s.view(r.inTx, func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------- balances

type balanceRepo struct {
	s    *Store
	inTx bool
}

// LockPairs no bloquea nada: la transacción ya tiene el lock exclusivo del store.
func (r *balanceRepo) LockPairs(_ context.Context, keys ...entity.PairKey) error {
	return r.s.update(r.inTx, func(st *state) error {
		for _, k := range keys {
			if _, ok := st.balances[k]; !ok {
				st.balances[k] = *entity.NewStockBalance(k.ProductID, k.LocationID)
			}
		}
		return nil
	})
}

func (r *balanceRepo) Get(_ context.Context, key entity.PairKey) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.s.view(r.inTx, func(st *state) error {
		if b, ok := st.balances[key]; ok {
			out = &b
			return nil
		}
		out = entity.NewStockBalance(key.ProductID, key.LocationID)
		return nil
	})
	return out, err
}

func (r *balanceRepo) Upsert(_ context.Context, b *entity.StockBalance) error {
	if !b.Valid() {
		return fmt.Errorf("%w: balance fuera de rango en %s", domain.ErrInvalidInput, b.Key())
	}
	return r.s.update(r.inTx, func(st *state) error {
		st.balances[b.Key()] = *b
		return nil
	})
}

func (r *balanceRepo) List(_ context.Context, limit, offset int) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	err := r.s.view(r.inTx, func(st *state) error {
		all := make([]entity.StockBalance, 0, len(st.balances))
		for _, b := range st.balances {
			all = append(all, b)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Key().Less(all[j].Key()) })
		for _, b := range page(all, limit, offset) {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------- lotes

type lotRepo struct {
	s    *Store
	inTx bool
}

func (r *lotRepo) Create(_ context.Context, lot *entity.Lot) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, l := range st.lots {
			if l.ProductID == lot.ProductID && l.LocationID == lot.LocationID && l.BatchNumber == lot.BatchNumber {
				return fmt.Errorf("lote %s: %w", lot.BatchNumber, domain.ErrDuplicate)
			}
		}
		st.lots[lot.ID] = *lot
		return nil
	})
}

func (r *lotRepo) Update(_ context.Context, lot *entity.Lot) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.lots[lot.ID]; !ok {
			return domain.ErrNotFound
		}
		st.lots[lot.ID] = *lot
		return nil
	})
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.s.view(r.inTx, func(st *state) error {
		if l, ok := st.lots[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *lotRepo) ListByPair(_ context.Context, key entity.PairKey) ([]*entity.Lot, error) {
	return r.collect(func(l *entity.Lot) bool {
		return l.ProductID == key.ProductID && l.LocationID == key.LocationID && l.HasStock()
	}, 0, 0)
}

func (r *lotRepo) List(_ context.Context, f entity.LotFilter) ([]*entity.Lot, error) {
	return r.collect(func(l *entity.Lot) bool {
		return (f.ProductID == "" || l.ProductID == f.ProductID) &&
			(f.LocationID == "" || l.LocationID == f.LocationID) &&
			(f.Kind == "" || l.Kind == f.Kind) &&
			(f.Status == "" || l.Status == f.Status)
	}, f.Limit, f.Offset)
}

func (r *lotRepo) ListDueForExpiry(_ context.Context, now time.Time) ([]*entity.Lot, error) {
	return r.collect(func(l *entity.Lot) bool {
		return l.Status == entity.LotActive && l.RemainingQuantity.GreaterThan(decimal.Zero) && l.IsExpiredAt(now)
	}, 0, 0)
}

func (r *lotRepo) collect(match func(*entity.Lot) bool, limit, offset int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.s.view(r.inTx, func(st *state) error {
		var all []entity.Lot
		for _, l := range st.lots {
			if match(&l) {
				all = append(all, l)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.Before(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		for _, l := range page(all, limit, offset) {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------- movimientos

type movementRepo struct {
	s    *Store
	inTx bool
}

func copyMovement(m entity.Movement) *entity.Movement {
	m.Allocations = append([]entity.LotAllocation(nil), m.Allocations...)
	return &m
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.update(r.inTx, func(st *state) error {
		st.movements = append(st.movements, *copyMovement(*m))
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.view(r.inTx, func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				out = copyMovement(m)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func touches(m *entity.Movement, locationID string) bool {
	return (m.FromLocationID != nil && *m.FromLocationID == locationID) ||
		(m.ToLocationID != nil && *m.ToLocationID == locationID)
}

// List devuelve los más recientes primero.
func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.s.view(r.inTx, func(st *state) error {
		var matched []entity.Movement
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && !touches(&m, f.LocationID) {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			matched = append(matched, m)
		}
		for _, m := range page(matched, f.Limit, f.Offset) {
			out = append(out, copyMovement(m))
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByPair(_ context.Context, key entity.PairKey) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.s.view(r.inTx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == key.ProductID && touches(&m, key.LocationID) {
				out = append(out, copyMovement(m))
			}
		}
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------- traslados

type transferRepo struct {
	s    *Store
	inTx bool
}

func copyTransfer(t entity.Transfer) *entity.Transfer {
	t.Items = append([]entity.TransferItem(nil), t.Items...)
	return &t
}

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = *copyTransfer(*t)
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.s.view(r.inTx, func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = copyTransfer(t)
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

// Update guarda la cabecera; las líneas se actualizan con UpdateItem.
func (r *transferRepo) Update(_ context.Context, t *entity.Transfer) error {
	return r.s.update(r.inTx, func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := *copyTransfer(*t)
		next.Items = cur.Items
		st.transfers[t.ID] = next
		return nil
	})
}

func (r *transferRepo) UpdateItem(_ context.Context, item *entity.TransferItem) error {
	return r.s.update(r.inTx, func(st *state) error {
		t, ok := st.transfers[item.TransferID]
		if !ok {
			return domain.ErrNotFound
		}
		items := append([]entity.TransferItem(nil), t.Items...)
		for i := range items {
			if items[i].ID == item.ID {
				items[i] = *item
				t.Items = items
				st.transfers[t.ID] = t
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *transferRepo) List(_ context.Context, f entity.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.s.view(r.inTx, func(st *state) error {
		var all []entity.Transfer
		for _, t := range st.transfers {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.LocationID != "" && t.FromLocationID != f.LocationID && t.ToLocationID != f.LocationID {
				continue
			}
			all = append(all, t)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].TransferNumber > all[j].TransferNumber })
		for _, t := range page(all, f.Limit, f.Offset) {
			out = append(out, copyTransfer(t))
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) NextNumber(_ context.Context) (string, error) {
	var n int64
	err := r.s.update(r.inTx, func(st *state) error {
		st.transferSeq++
		n = st.transferSeq
		return nil
	})
	return fmt.Sprintf("TRF-%06d", n), err
}

// ---------------------------------------------------------------- daños

type damageRepo struct {
	s    *Store
	inTx bool
}

func (r *damageRepo) Create(_ context.Context, d *entity.DamagedStock) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.damages[d.ID]; ok {
			return domain.ErrDuplicate
		}
		st.damages[d.ID] = *d
		return nil
	})
}

func (r *damageRepo) GetByID(_ context.Context, id string) (*entity.DamagedStock, error) {
	var out *entity.DamagedStock
	err := r.s.view(r.inTx, func(st *state) error {
		if d, ok := st.damages[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *damageRepo) GetForUpdate(ctx context.Context, id string) (*entity.DamagedStock, error) {
	return r.GetByID(ctx, id)
}

func (r *damageRepo) Update(_ context.Context, d *entity.DamagedStock) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.damages[d.ID]; !ok {
			return domain.ErrNotFound
		}
		st.damages[d.ID] = *d
		return nil
	})
}

func (r *damageRepo) List(_ context.Context, f entity.DamageFilter) ([]*entity.DamagedStock, error) {
	var out []*entity.DamagedStock
	err := r.s.view(r.inTx, func(st *state) error {
		var all []entity.DamagedStock
		for _, d := range st.damages {
			if (f.ProductID == "" || d.ProductID == f.ProductID) &&
				(f.LocationID == "" || d.LocationID == f.LocationID) &&
				(f.Status == "" || d.Status == f.Status) {
				all = append(all, d)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		for _, d := range page(all, f.Limit, f.Offset) {
			d := d
			out = append(out, &d)
		}
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------- valorización

type valuationRepo struct {
	s    *Store
	inTx bool
}

func (r *valuationRepo) Get(_ context.Context, key entity.PairKey, method entity.ValuationMethod) (*entity.StockValuation, error) {
	var out *entity.StockValuation
	err := r.s.view(r.inTx, func(st *state) error {
		if v, ok := st.valuations[valuationKey{pair: key, method: method}]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *valuationRepo) Upsert(_ context.Context, v *entity.StockValuation) error {
	return r.s.update(r.inTx, func(st *state) error {
		k := valuationKey{pair: entity.PairKey{ProductID: v.ProductID, LocationID: v.LocationID}, method: v.Method}
		st.valuations[k] = *v
		return nil
	})
}

// ---------------------------------------------------------------- alertas

type alertRepo struct {
	s    *Store
	inTx bool
}

func (r *alertRepo) InsertIfNotOpen(_ context.Context, a *entity.StockAlert) (bool, error) {
	inserted := false
	err := r.s.update(r.inTx, func(st *state) error {
		for _, cur := range st.alerts {
			if !cur.IsResolved && cur.ProductID == a.ProductID && cur.LocationID == a.LocationID && cur.AlertType == a.AlertType {
				return nil
			}
		}
		st.alerts[a.ID] = *a
		st.alertOrder = append(st.alertOrder, a.ID)
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := r.s.view(r.inTx, func(st *state) error {
		if a, ok := st.alerts[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) Update(_ context.Context, a *entity.StockAlert) error {
	return r.s.update(r.inTx, func(st *state) error {
		if _, ok := st.alerts[a.ID]; !ok {
			return domain.ErrNotFound
		}
		st.alerts[a.ID] = *a
		return nil
	})
}

// List devuelve las más recientes primero.
func (r *alertRepo) List(_ context.Context, f entity.AlertFilter) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	err := r.s.view(r.inTx, func(st *state) error {
		var matched []entity.StockAlert
		for i := len(st.alertOrder) - 1; i >= 0; i-- {
			a := st.alerts[st.alertOrder[i]]
			if f.ProductID != "" && a.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && a.LocationID != f.LocationID {
				continue
			}
			if f.AlertType != "" && a.AlertType != f.AlertType {
				continue
			}
			if f.OnlyOpen && a.IsResolved {
				continue
			}
			if f.OnlyUnread && a.IsRead {
				continue
			}
			matched = append(matched, a)
		}
		for _, a := range page(matched, f.Limit, f.Offset) {
			a := a
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}
