package inventory

import (
	"testing"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostCalculator(t *testing.T) {
	assert.True(t, CostCalculator(d(0), d(0), d(10), d(100)).Equal(d(100)), "sin stock toma el costo de entrada")
	assert.True(t, CostCalculator(d(10), d(100), d(10), d(120)).Equal(d(110)))
	assert.True(t, CostCalculator(d(0), d(0), d(0), d(5)).IsZero())
}

func TestWeightedAverage_Convergencia(t *testing.T) {
	v := entity.StockValuation{ProductID: "p1", LocationID: "l1", Method: entity.ValuationWeightedAverage}

	v = ApplyReceipt(v, d(0), d(10), d(100), t0)
	assert.True(t, v.AverageCost.Equal(d(100)))
	assert.True(t, v.CurrentValue.Equal(d(1000)))

	v = ApplyReceipt(v, d(10), d(10), d(120), t0)
	assert.True(t, v.AverageCost.Equal(d(110)), "got %s", v.AverageCost)
	assert.True(t, v.CurrentValue.Equal(d(2200)))

	v = ApplyConsumption(v, d(15), t0)
	assert.True(t, v.AverageCost.Equal(d(110)), "el consumo no re-promedia")
	assert.True(t, v.CurrentValue.Equal(d(1650)))
}

func TestLotBasedValuation_SumaLotesVigentes(t *testing.T) {
	b1 := mkLot("b1", t0, 5, 10)
	b2 := mkLot("b2", t0, 5, 12)
	b2.RemainingQuantity = d(3)
	gone := mkLot("gone", t0, 5, 99)
	gone.RemainingQuantity = decimal.Zero
	gone.Status = entity.LotExhausted

	v := LotBasedValuation(key, entity.ValuationFIFO, []*entity.Lot{b1, b2, gone}, d(8), t0)
	assert.True(t, v.CurrentValue.Equal(d(86)), "5x10 + 3x12")
	assert.True(t, v.AverageCost.Equal(decimal.NewFromFloat(10.75)))
}

func TestReplayWeightedAverage(t *testing.T) {
	loc := key.LocationID
	other := "l2"
	c100, c120 := d(100), d(120)
	movs := []*entity.Movement{
		{Type: entity.MovementPurchase, ToLocationID: &loc, Quantity: d(10), UnitCost: &c100},
		{Type: entity.MovementPurchase, ToLocationID: &loc, Quantity: d(10), UnitCost: &c120},
		{Type: entity.MovementSale, FromLocationID: &loc, Quantity: d(5)},
		{Type: entity.MovementTransfer, FromLocationID: &other, ToLocationID: &loc, Quantity: d(0)},
	}
	v := ReplayWeightedAverage(key, movs, t0)
	assert.True(t, v.AverageCost.Equal(d(110)))
	assert.True(t, v.CurrentValue.Equal(d(1650)))
}

func TestReplayWeightedAverage_ReingresoNoPromedia(t *testing.T) {
	loc := key.LocationID
	c100, c120 := d(100), d(120)
	movs := []*entity.Movement{
		{Type: entity.MovementPurchase, ToLocationID: &loc, Quantity: d(10), UnitCost: &c100},
		{Type: entity.MovementPurchase, ToLocationID: &loc, Quantity: d(10), UnitCost: &c120},
		{Type: entity.MovementTransfer, FromLocationID: &loc, Quantity: d(5), UnitCost: &c100, ReferenceType: entity.ReferenceTransfer},
		{Type: entity.MovementTransfer, ToLocationID: &loc, Quantity: d(5), UnitCost: &c100, ReferenceType: entity.ReferenceTransferCancel},
	}
	v := ReplayWeightedAverage(key, movs, t0)
	assert.True(t, v.AverageCost.Equal(d(110)), "promedio %s", v.AverageCost)
	assert.True(t, v.CurrentValue.Equal(d(2200)), "valor %s", v.CurrentValue)
}

func TestApplyReinstatement(t *testing.T) {
	v := entity.StockValuation{AverageCost: d(110), CurrentValue: d(1650)}
	v = ApplyReinstatement(v, d(20), t0)
	assert.True(t, v.CurrentValue.Equal(d(2200)))
	assert.True(t, v.AverageCost.Equal(d(110)))
}
