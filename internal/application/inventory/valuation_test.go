package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuation_RecalculoCoincideConValorIncremental(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 100, 20, "A", date(2026, 1, 1))
	f.purchase(t, locMain, 100, 22, "B", date(2026, 1, 2))
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(50), CreatedBy: actorUser,
	})
	require.NoError(t, err)

	uc := inventory.NewValuationUseCase(f.ledger)
	key := entity.PairKey{ProductID: prodTile, LocationID: locMain}
	for _, m := range []entity.ValuationMethod{entity.ValuationWeightedAverage, entity.ValuationFIFO} {
		eager, err := f.store.Repos().Valuations.Get(ctx, key, m)
		require.NoError(t, err)
		require.NotNil(t, eager)

		rebuilt, err := uc.Recompute(ctx, prodTile, locMain, m)
		require.NoError(t, err)
		assert.True(t, eager.CurrentValue.Equal(rebuilt.CurrentValue), "%s: %s vs %s", m, eager.CurrentValue, rebuilt.CurrentValue)
	}

	wa, err := uc.GetValuation(ctx, prodTile, locMain, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ValuationWeightedAverage, wa.Method)
	assert.True(t, dec(21).Equal(wa.AverageCost))
	assert.True(t, dec(3150).Equal(wa.CurrentValue))

	fifo, err := uc.GetValuation(ctx, prodTile, locMain, entity.ValuationFIFO)
	require.NoError(t, err)
	assert.True(t, dec(3200).Equal(fifo.CurrentValue), "fifo %s", fifo.CurrentValue)
}

func TestValuation_MetodoNoMantenidoSeCalculaBajoDemanda(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 5, 10, "B1", date(2026, 1, 1))
	f.purchase(t, locMain, 5, 12, "B2", date(2026, 2, 1))

	uc := inventory.NewValuationUseCase(f.ledger)
	lifo, err := uc.GetValuation(ctx, prodTile, locMain, entity.ValuationLIFO)
	require.NoError(t, err)
	assert.True(t, dec(110).Equal(lifo.CurrentValue))
	assert.True(t, dec(11).Equal(lifo.AverageCost))
}

func TestValuation_MetodoDesconocido(t *testing.T) {
	f := newFixture(t, 0)
	uc := inventory.NewValuationUseCase(f.ledger)
	_, err := uc.GetValuation(context.Background(), prodTile, locMain, "hifo")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValuation_RecomputeAllCorrigeDesvio(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 10, 10, "B1", nil)
	f.purchase(t, locStore, 4, 8, "S1", nil)

	key := entity.PairKey{ProductID: prodTile, LocationID: locMain}
	stale := entity.StockValuation{ProductID: prodTile, LocationID: locMain, Method: entity.ValuationFIFO, CurrentValue: dec(1)}
	require.NoError(t, f.store.Repos().Valuations.Upsert(ctx, &stale))

	report, err := inventory.NewValuationUseCase(f.ledger).RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pairs)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 1, report.Drifted)

	fixed, err := f.store.Repos().Valuations.Get(ctx, key, entity.ValuationFIFO)
	require.NoError(t, err)
	assert.True(t, dec(100).Equal(fixed.CurrentValue))
}

type fakeCache struct {
	items       map[string]*entity.StockValuation
	invalidated []entity.PairKey
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]*entity.StockValuation{}} }

func cacheKey(k entity.PairKey, m entity.ValuationMethod) string { return k.String() + "|" + string(m) }

func (c *fakeCache) Get(_ context.Context, k entity.PairKey, m entity.ValuationMethod) (*entity.StockValuation, error) {
	return c.items[cacheKey(k, m)], nil
}

func (c *fakeCache) Set(_ context.Context, v *entity.StockValuation) error {
	c.items[cacheKey(entity.PairKey{ProductID: v.ProductID, LocationID: v.LocationID}, v.Method)] = v
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...entity.PairKey) error {
	c.invalidated = append(c.invalidated, keys...)
	for _, k := range keys {
		for key := range c.items {
			if len(key) > len(k.String()) && key[:len(k.String())+1] == k.String()+"|" {
				delete(c.items, key)
			}
		}
	}
	return nil
}

func TestValuation_CacheSeInvalidaTrasMovimiento(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	cache := newFakeCache()
	f.ledger = inventory.NewLedger(f.store, f.store.Repos(), inventory.DefaultConfig(), logger.Nop(), inventory.WithCache(cache))
	f.purchase(t, locMain, 10, 10, "B1", nil)
	assert.Len(t, cache.invalidated, 1)

	uc := inventory.NewValuationUseCase(f.ledger)
	v, err := uc.GetValuation(ctx, prodTile, locMain, entity.ValuationWeightedAverage)
	require.NoError(t, err)
	assert.True(t, dec(100).Equal(v.CurrentValue))
	assert.Len(t, cache.items, 1)

	f.purchase(t, locMain, 10, 20, "B2", nil)
	assert.Empty(t, cache.items)
	v, err = uc.GetValuation(ctx, prodTile, locMain, entity.ValuationWeightedAverage)
	require.NoError(t, err)
	assert.True(t, dec(300).Equal(v.CurrentValue))
}
