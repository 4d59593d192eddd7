package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	key = entity.PairKey{ProductID: "p1", LocationID: "l1"}
	t0  = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mkLot(id string, mfg time.Time, qty, cost int64) *entity.Lot {
	m := mfg
	return &entity.Lot{
		ID: id, ProductID: key.ProductID, LocationID: key.LocationID, Kind: entity.LotKindStandard,
		BatchNumber: "B-" + id, ManufacturingDate: &m,
		InitialQuantity: d(qty), RemainingQuantity: d(qty), UnitCost: d(cost),
		Status: entity.LotActive, CreatedAt: mfg,
	}
}

func TestPlanConsumption_FIFOAgotaLoteMasAntiguo(t *testing.T) {
	b1 := mkLot("b1", t0, 5, 10)
	b2 := mkLot("b2", t0.AddDate(0, 1, 0), 5, 12)

	plan, err := PlanConsumption(key, []*entity.Lot{b2, b1}, d(7), FIFO{})
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)

	assert.Equal(t, "b1", plan.Allocations[0].LotID)
	assert.True(t, plan.Allocations[0].Quantity.Equal(d(5)))
	assert.Equal(t, "b2", plan.Allocations[1].LotID)
	assert.True(t, plan.Allocations[1].Quantity.Equal(d(2)))
	assert.True(t, plan.TotalCost.Equal(d(74)), "5x10 + 2x12 = 74, got %s", plan.TotalCost)

	b2.Consume(plan.Allocations[1].Quantity, entity.LotExhausted, t0)
	assert.True(t, b2.RemainingQuantity.Equal(d(3)))
	b1.Consume(plan.Allocations[0].Quantity, entity.LotExhausted, t0)
	assert.Equal(t, entity.LotExhausted, b1.Status)
}

func TestPlanConsumption_LIFOAgotaLoteMasReciente(t *testing.T) {
	b1 := mkLot("b1", t0, 5, 10)
	b2 := mkLot("b2", t0.AddDate(0, 1, 0), 5, 12)

	plan, err := PlanConsumption(key, []*entity.Lot{b1, b2}, d(7), LIFO{})
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "b2", plan.Allocations[0].LotID)
	assert.True(t, plan.TotalCost.Equal(d(5*12+2*10)))
}

func TestPlanConsumption_FIFODesempatePorID(t *testing.T) {
	a := mkLot("a", t0, 1, 10)
	b := mkLot("b", t0, 1, 20)
	plan, err := PlanConsumption(key, []*entity.Lot{b, a}, d(1), FIFO{})
	require.NoError(t, err)
	assert.Equal(t, "a", plan.Allocations[0].LotID)
}

func TestPlanConsumption_Insuficiente(t *testing.T) {
	b1 := mkLot("b1", t0, 3, 10)
	_, err := PlanConsumption(key, []*entity.Lot{b1}, d(5), FIFO{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Available.Equal(d(3)))
	assert.True(t, ise.Shortfall().Equal(d(2)))
}

func TestPlanConsumption_EspecificoSoloLoteFijado(t *testing.T) {
	b1 := mkLot("b1", t0, 5, 10)
	b2 := mkLot("b2", t0.AddDate(0, 1, 0), 5, 12)

	plan, err := PlanConsumption(key, []*entity.Lot{b1, b2}, d(4), Specific{LotID: "b2"})
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "b2", plan.Allocations[0].LotID)

	_, err = PlanConsumption(key, []*entity.Lot{b1, b2}, d(6), Specific{LotID: "b2"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("", "")
	require.NoError(t, err)
	assert.Equal(t, PolicyFIFO, p.Name())

	p, err = PolicyFor(PolicyLIFO, "lot-1")
	require.NoError(t, err)
	assert.Equal(t, PolicySpecific, p.Name())

	_, err = PolicyFor(PolicySpecific, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = PolicyFor("random", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEligibleLots_ExcluyeVencidosYAgotados(t *testing.T) {
	now := t0.AddDate(0, 2, 0)
	ok := mkLot("ok", t0, 5, 10)
	exp := mkLot("exp", t0, 5, 10)
	past := t0.AddDate(0, 1, 0)
	exp.ExpiryDate = &past
	empty := mkLot("empty", t0, 5, 10)
	empty.RemainingQuantity = decimal.Zero
	dmg := mkLot("dmg", t0, 5, 10)
	dmg.Status = entity.LotDamaged

	lots := []*entity.Lot{ok, exp, empty, dmg}
	got := EligibleLots(lots, now, false)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)

	got = EligibleLots(lots, now, true)
	assert.Len(t, got, 2)
}

func TestLotRestore_ReabreLoteAgotado(t *testing.T) {
	l := mkLot("b1", t0, 5, 10)
	l.Consume(d(5), entity.LotExhausted, t0)
	require.Equal(t, entity.LotExhausted, l.Status)

	l.Restore(d(2), t0)
	assert.Equal(t, entity.LotActive, l.Status)
	assert.True(t, l.RemainingQuantity.Equal(d(2)))
}
