package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	prodTile  = "prod-tile"
	locMain   = "loc-main"
	locStore  = "loc-store"
	actorUser = "user-1"
)

type fixture struct {
	store  *memory.Store
	ledger *inventory.Ledger
	clock  *time.Time
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newFixture(t *testing.T, reorder int64) *fixture {
	t.Helper()
	store := memory.New()
	store.AddProduct(entity.Product{ID: prodTile, SKU: "TILE-60", Name: "Porcelanato 60x60", DefaultCost: dec(9), ReorderLevel: decimal.NewFromInt(reorder)})
	store.AddLocation(entity.Location{ID: locMain, Name: "Bodega principal", Kind: entity.LocationKindWarehouse})
	store.AddLocation(entity.Location{ID: locStore, Name: "Showroom", Kind: entity.LocationKindShowroom})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{store: store, clock: &now}
	cfg := inventory.DefaultConfig()
	cfg.ValuationMethods = []entity.ValuationMethod{entity.ValuationWeightedAverage, entity.ValuationFIFO}
	f.ledger = inventory.NewLedger(store, store.Repos(), cfg, logger.Nop(),
		inventory.WithClock(func() time.Time { return *f.clock }))
	return f
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func (f *fixture) purchase(t *testing.T, loc string, qty, cost float64, batch string, mfg *time.Time) *entity.Movement {
	t.Helper()
	c := dec(cost)
	mov, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID:    prodTile,
		ToLocationID: loc,
		Type:         entity.MovementPurchase,
		Quantity:     dec(qty),
		UnitCost:     &c,
		Lot:          &inventory.LotSpec{BatchNumber: batch, ManufacturingDate: mfg},
		CreatedBy:    actorUser,
	})
	require.NoError(t, err)
	return mov
}

func (f *fixture) balance(t *testing.T, loc string) *entity.StockBalance {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), prodTile, loc)
	require.NoError(t, err)
	return b
}

func (f *fixture) lotsAt(t *testing.T, loc string) []*entity.Lot {
	t.Helper()
	lots, err := f.store.Repos().Lots.List(context.Background(), entity.LotFilter{ProductID: prodTile, LocationID: loc})
	require.NoError(t, err)
	return lots
}

func (f *fixture) lotByBatch(t *testing.T, loc, batch string) *entity.Lot {
	t.Helper()
	for _, l := range f.lotsAt(t, loc) {
		if l.BatchNumber == batch {
			return l
		}
	}
	t.Fatalf("lote %s no encontrado en %s", batch, loc)
	return nil
}

func (f *fixture) movementCount(t *testing.T) int {
	t.Helper()
	movs, err := f.store.Repos().Movements.List(context.Background(), entity.MovementFilter{Limit: 1000})
	require.NoError(t, err)
	return len(movs)
}

// lotSum suma el remanente de lotes activos y vencidos del par.
func (f *fixture) lotSum(t *testing.T, loc string) decimal.Decimal {
	t.Helper()
	lots, err := f.store.Repos().Lots.ListByPair(context.Background(), entity.PairKey{ProductID: prodTile, LocationID: loc})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, l := range lots {
		sum = sum.Add(l.RemainingQuantity)
	}
	return sum
}
