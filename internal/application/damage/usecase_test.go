package damage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prod  = "prod-glass"
	loc   = "loc-main"
	actor = "user-1"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type env struct {
	ledger *inventory.Ledger
	uc     *damage.UseCase
	now    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	store.AddProduct(entity.Product{ID: prod, SKU: "GL-1", Name: "Vidrio templado", DefaultCost: dec(7)})
	store.AddLocation(entity.Location{ID: loc, Name: "Bodega"})
	e := &env{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	e.ledger = inventory.NewLedger(store, store.Repos(), inventory.DefaultConfig(), logger.Nop(),
		inventory.WithClock(func() time.Time { return e.now }))
	e.uc = damage.NewUseCase(e.ledger, logger.Nop(), nil)
	return e
}

func (e *env) receive(t *testing.T, qty, cost int64, batch string) *entity.Movement {
	t.Helper()
	e.now = e.now.Add(time.Minute)
	c := dec(cost)
	mov, err := e.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: prod, ToLocationID: loc, Type: entity.MovementPurchase, Quantity: dec(qty), UnitCost: &c,
		Lot: &inventory.LotSpec{BatchNumber: batch}, CreatedBy: actor,
	})
	require.NoError(t, err)
	return mov
}

func TestDamage_ReporteAprobacionDisposicion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.receive(t, 4, 10, "L1")
	e.receive(t, 4, 12, "L2")

	d, err := e.uc.Report(ctx, damage.ReportInput{
		ProductID: prod, LocationID: loc, DamageType: entity.DamageTypeBreakage, Quantity: dec(5), ReportedBy: actor, Reason: "caída de estiba",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DamageReported, d.Status)
	assert.True(t, dec(35).Equal(d.TotalLoss))

	bal, err := e.ledger.GetBalance(ctx, prod, loc)
	require.NoError(t, err)
	assert.True(t, dec(8).Equal(bal.CurrentStock), "reportar no mueve stock")

	d, err = e.uc.Approve(ctx, d.ID, "jefe")
	require.NoError(t, err)
	assert.Equal(t, entity.DamageApproved, d.Status)

	d, err = e.uc.Dispose(ctx, d.ID, damage.DisposeInput{Method: entity.DisposalScrap, Actor: "jefe"})
	require.NoError(t, err)
	assert.Equal(t, entity.DamageDisposed, d.Status)
	require.NotNil(t, d.DisposalMovementID)
	assert.True(t, dec(52).Equal(d.TotalLoss), "pérdida real %s", d.TotalLoss)

	bal, err = e.ledger.GetBalance(ctx, prod, loc)
	require.NoError(t, err)
	assert.True(t, dec(3).Equal(bal.CurrentStock))

	lots, err := e.ledger.ListLots(ctx, entity.LotFilter{ProductID: prod, LocationID: loc, Status: entity.LotDamaged})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "L1", lots[0].BatchNumber)

	mov, err := e.ledger.GetMovement(ctx, *d.DisposalMovementID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementDamage, mov.Type)
	assert.Equal(t, entity.ReferenceDamage, mov.ReferenceType)
	assert.Nil(t, mov.ToLocationID)
}

func TestDamage_CostoDelLoteFijado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.receive(t, 4, 10, "L1")
	mov := e.receive(t, 4, 12, "L2")

	d, err := e.uc.Report(ctx, damage.ReportInput{
		ProductID: prod, LocationID: loc, LotID: *mov.LotID, DamageType: entity.DamageTypeWater, Quantity: dec(2), ReportedBy: actor,
	})
	require.NoError(t, err)
	assert.True(t, dec(12).Equal(d.UnitCost))
	assert.True(t, dec(24).Equal(d.TotalLoss))

	_, err = e.uc.Approve(ctx, d.ID, "jefe")
	require.NoError(t, err)
	d, err = e.uc.Dispose(ctx, d.ID, damage.DisposeInput{Method: entity.DisposalRecycle, Actor: "jefe"})
	require.NoError(t, err)

	lots, err := e.ledger.ListLots(ctx, entity.LotFilter{ProductID: prod, LocationID: loc})
	require.NoError(t, err)
	for _, l := range lots {
		if l.BatchNumber == "L2" {
			assert.True(t, dec(2).Equal(l.RemainingQuantity))
		} else {
			assert.True(t, dec(4).Equal(l.RemainingQuantity))
		}
	}
}

func TestDamage_RechazoNoMueveStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.receive(t, 4, 10, "L1")

	d, err := e.uc.Report(ctx, damage.ReportInput{
		ProductID: prod, LocationID: loc, DamageType: entity.DamageTypeDefect, Quantity: dec(1), ReportedBy: actor,
	})
	require.NoError(t, err)
	d, err = e.uc.Reject(ctx, d.ID, "jefe")
	require.NoError(t, err)
	assert.Equal(t, entity.DamageRejected, d.Status)

	_, err = e.uc.Dispose(ctx, d.ID, damage.DisposeInput{Method: entity.DisposalScrap, Actor: "jefe"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	_, err = e.uc.Approve(ctx, d.ID, "jefe")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	bal, err := e.ledger.GetBalance(ctx, prod, loc)
	require.NoError(t, err)
	assert.True(t, dec(4).Equal(bal.CurrentStock))
}

func TestDamage_DisposicionSinStockFallaCompleta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.receive(t, 2, 10, "L1")

	d, err := e.uc.Report(ctx, damage.ReportInput{
		ProductID: prod, LocationID: loc, DamageType: entity.DamageTypeTheft, Quantity: dec(3), ReportedBy: actor,
	})
	require.NoError(t, err)
	_, err = e.uc.Approve(ctx, d.ID, "jefe")
	require.NoError(t, err)

	_, err = e.uc.Dispose(ctx, d.ID, damage.DisposeInput{Method: entity.DisposalScrap, Actor: "jefe"})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, err := e.uc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DamageApproved, got.Status)
}

func TestDamage_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Report(ctx, damage.ReportInput{ProductID: prod, LocationID: loc, DamageType: "meteor", Quantity: dec(1), ReportedBy: actor})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.uc.Report(ctx, damage.ReportInput{ProductID: "x", LocationID: loc, DamageType: entity.DamageTypeOther, Quantity: dec(1), ReportedBy: actor})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = e.uc.Dispose(ctx, "x", damage.DisposeInput{Method: "burn", Actor: actor})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
