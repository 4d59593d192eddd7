package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMovement_VentaFIFO(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 5, 10, "B1", date(2026, 1, 1))
	f.purchase(t, locMain, 5, 12, "B2", date(2026, 2, 1))

	mov, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID:      prodTile,
		FromLocationID: locMain,
		Type:           entity.MovementSale,
		Quantity:       dec(7),
		CreatedBy:      actorUser,
	})
	require.NoError(t, err)

	assert.True(t, dec(74).Equal(*mov.TotalCost), "total %s", mov.TotalCost)
	require.Len(t, mov.Allocations, 2)
	assert.Nil(t, mov.LotID)

	b1 := f.lotByBatch(t, locMain, "B1")
	b2 := f.lotByBatch(t, locMain, "B2")
	assert.Equal(t, entity.LotExhausted, b1.Status)
	assert.True(t, b1.RemainingQuantity.IsZero())
	assert.True(t, dec(3).Equal(b2.RemainingQuantity))

	bal := f.balance(t, locMain)
	assert.True(t, dec(3).Equal(bal.CurrentStock))
	assert.True(t, bal.CurrentStock.Equal(f.lotSum(t, locMain)))

	fifo, err := f.store.Repos().Valuations.Get(ctx, bal.Key(), entity.ValuationFIFO)
	require.NoError(t, err)
	require.NotNil(t, fifo)
	assert.True(t, dec(36).Equal(fifo.CurrentValue), "fifo %s", fifo.CurrentValue)

	wa, err := f.store.Repos().Valuations.Get(ctx, bal.Key(), entity.ValuationWeightedAverage)
	require.NoError(t, err)
	require.NotNil(t, wa)
	assert.True(t, dec(11).Equal(wa.AverageCost), "avg %s", wa.AverageCost)
	assert.True(t, dec(33).Equal(wa.CurrentValue), "wa %s", wa.CurrentValue)
}

func TestRecordMovement_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture(t, 0)
	f.purchase(t, locMain, 10, 10, "B1", nil)
	before := f.movementCount(t)

	_, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID:      prodTile,
		FromLocationID: locMain,
		Type:           entity.MovementSale,
		Quantity:       dec(11),
		CreatedBy:      actorUser,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, dec(10).Equal(ise.Available))
	assert.True(t, dec(1).Equal(ise.Shortfall()))

	assert.Equal(t, before, f.movementCount(t))
	assert.True(t, dec(10).Equal(f.balance(t, locMain).CurrentStock))
	assert.True(t, dec(10).Equal(f.lotByBatch(t, locMain, "B1").RemainingQuantity))
}

func TestRecordMovement_ReservaReduceDisponible(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 10, 10, "B1", nil)

	key := entity.PairKey{ProductID: prodTile, LocationID: locMain}
	require.NoError(t, f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		return tx.Reserve(ctx, key, dec(8))
	}))
	bal := f.balance(t, locMain)
	assert.True(t, dec(2).Equal(bal.Available()))

	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(3), CreatedBy: actorUser,
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	err = f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		return tx.Release(ctx, key, dec(9))
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		return tx.Release(ctx, key, dec(8))
	}))
	assert.True(t, dec(10).Equal(f.balance(t, locMain).Available()))
}

func TestRecordMovement_TrasladoInmediatoConservaCantidadYCosto(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 5, 10, "B1", date(2026, 1, 1))
	f.purchase(t, locMain, 5, 12, "B2", date(2026, 2, 1))

	mov, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID:      prodTile,
		FromLocationID: locMain,
		ToLocationID:   locStore,
		Type:           entity.MovementTransfer,
		Quantity:       dec(6),
		CreatedBy:      actorUser,
	})
	require.NoError(t, err)
	assert.Len(t, mov.AllocationsAt(locMain), 2)
	assert.Len(t, mov.AllocationsAt(locStore), 2)

	main := f.balance(t, locMain)
	store := f.balance(t, locStore)
	assert.True(t, dec(10).Equal(main.CurrentStock.Add(store.CurrentStock)))
	assert.True(t, dec(6).Equal(store.CurrentStock))
	assert.True(t, store.CurrentStock.Equal(f.lotSum(t, locStore)))

	dest := f.lotsAt(t, locStore)
	require.Len(t, dest, 2)
	total := dec(0)
	for _, l := range dest {
		total = total.Add(l.Value())
	}
	assert.True(t, dec(62).Equal(total), "valor destino %s", total)
}

func TestRecordMovement_ValidacionDireccion(t *testing.T) {
	f := newFixture(t, 0)
	cases := []inventory.MovementInput{
		{ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementPurchase, Quantity: dec(1), CreatedBy: actorUser},
		{ProductID: prodTile, ToLocationID: locMain, Type: entity.MovementSale, Quantity: dec(1), CreatedBy: actorUser},
		{ProductID: prodTile, ToLocationID: locMain, Type: entity.MovementPurchase, Quantity: dec(0), CreatedBy: actorUser},
		{ProductID: prodTile, FromLocationID: locMain, ToLocationID: locMain, Type: entity.MovementTransfer, Quantity: dec(1), CreatedBy: actorUser},
		{ProductID: prodTile, ToLocationID: locMain, Type: "gift", Quantity: dec(1), CreatedBy: actorUser},
	}
	for i, in := range cases {
		_, err := f.ledger.RecordMovement(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d: %v", i, err)
	}
}

func TestRecordMovement_ProductoOUbicacionInexistente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: "nope", ToLocationID: locMain, Type: entity.MovementPurchase, Quantity: dec(1), CreatedBy: actorUser,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: prodTile, ToLocationID: "nope", Type: entity.MovementPurchase, Quantity: dec(1), CreatedBy: actorUser,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordMovement_EntradaSinCostoUsaCostoPorDefecto(t *testing.T) {
	f := newFixture(t, 0)
	mov, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: prodTile, ToLocationID: locMain, Type: entity.MovementReturn, Quantity: dec(2), CreatedBy: actorUser,
	})
	require.NoError(t, err)
	require.NotNil(t, mov.LotID)
	assert.True(t, dec(9).Equal(*mov.UnitCost))
	assert.True(t, dec(18).Equal(*mov.TotalCost))
}

func TestRecordMovement_AlertaBajoStockIdempotente(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	f.purchase(t, locMain, 10, 10, "B1", nil)

	sell := func(q float64) {
		_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
			ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(q), CreatedBy: actorUser,
		})
		require.NoError(t, err)
	}
	sell(7)
	sell(1)

	alerts, err := f.store.Repos().Alerts.List(ctx, entity.AlertFilter{ProductID: prodTile, AlertType: entity.AlertLowStock, OnlyOpen: true})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, dec(3).Equal(alerts[0].CurrentStock))

	sell(2)
	out, err := f.store.Repos().Alerts.List(ctx, entity.AlertFilter{ProductID: prodTile, AlertType: entity.AlertOutOfStock})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRecordMovement_LoteVencidoSoloParaDanoFijado(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	exp := date(2026, 3, 10)
	c := dec(10)
	mov, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, ToLocationID: locMain, Type: entity.MovementPurchase, Quantity: dec(4), UnitCost: &c,
		Lot: &inventory.LotSpec{BatchNumber: "EXP", ExpiryDate: exp}, CreatedBy: actorUser,
	})
	require.NoError(t, err)
	f.advance(15 * 24 * time.Hour)

	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(1), CreatedBy: actorUser,
	})
	require.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementDamage, Quantity: dec(4),
		LotID: *mov.LotID, CreatedBy: actorUser,
	})
	require.NoError(t, err)
	lot := f.lotByBatch(t, locMain, "EXP")
	assert.Equal(t, entity.LotDamaged, lot.Status)
	assert.True(t, f.balance(t, locMain).CurrentStock.IsZero())
}

func TestExpireLots(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	c := dec(10)
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prodTile, ToLocationID: locMain, Type: entity.MovementPurchase, Quantity: dec(4), UnitCost: &c,
		Lot: &inventory.LotSpec{BatchNumber: "EXP", ExpiryDate: date(2026, 3, 5)}, CreatedBy: actorUser,
	})
	require.NoError(t, err)
	f.purchase(t, locMain, 2, 10, "OK", nil)

	n, err := f.ledger.ExpireLots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.advance(10 * 24 * time.Hour)
	n, err = f.ledger.ExpireLots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.LotExpired, f.lotByBatch(t, locMain, "EXP").Status)

	// El stock vencido sigue contando en el balance.
	assert.True(t, dec(6).Equal(f.balance(t, locMain).CurrentStock))
	assert.True(t, dec(6).Equal(f.lotSum(t, locMain)))
}

func TestRecordInTx_RollbackDelCallerDescartaTodo(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 10, 10, "B1", nil)
	before := f.movementCount(t)

	boom := errors.New("falló la factura")
	err := f.store.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		if _, _, err := f.ledger.RecordInTx(ctx, repos, inventory.MovementInput{
			ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(4), CreatedBy: actorUser,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, f.movementCount(t))
	assert.True(t, dec(10).Equal(f.balance(t, locMain).CurrentStock))
}

func TestRecordMovement_TramoDeTrasladoFueraDelCoordinador(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.purchase(t, locMain, 10, 10, "B1", nil)
	before := f.movementCount(t)

	cases := []inventory.MovementInput{
		{ProductID: prodTile, ToLocationID: locStore, Type: entity.MovementTransfer, Quantity: dec(40), CreatedBy: actorUser},
		{ProductID: prodTile, ToLocationID: locStore, Type: entity.MovementTransfer, Quantity: dec(40), CreatedBy: actorUser,
			ReferenceType: entity.ReferenceTransfer, ReferenceID: "tr-falso"},
		{ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementTransfer, Quantity: dec(4), CreatedBy: actorUser},
		{ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementTransfer, Quantity: dec(4), CreatedBy: actorUser,
			ReferenceType: entity.ReferenceTransfer, ReferenceID: "tr-falso"},
	}
	for i, in := range cases {
		_, err := f.ledger.RecordMovement(ctx, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d: %v", i, err)
	}

	// Dentro de una tx la entrada sin lotes despachados también se rechaza.
	err := f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
		_, err := tx.Record(ctx, inventory.MovementInput{
			ProductID: prodTile, ToLocationID: locStore, Type: entity.MovementTransfer, Quantity: dec(40),
			ReferenceType: entity.ReferenceTransfer, ReferenceID: "tr-falso", CreatedBy: actorUser,
		})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%v", err)

	assert.Equal(t, before, f.movementCount(t))
	assert.True(t, f.balance(t, locStore).CurrentStock.IsZero())
	assert.True(t, dec(10).Equal(f.balance(t, locMain).CurrentStock))
}

// checkPair verifica no negatividad, reserva acotada y conciliación lotes/balance del par.
func checkPair(t *testing.T, f *fixture, loc string) {
	t.Helper()
	bal := f.balance(t, loc)
	assert.True(t, bal.Valid(), "balance inválido en %s: %+v", loc, bal)
	assert.False(t, bal.CurrentStock.IsNegative(), "stock negativo en %s", loc)
	assert.True(t, bal.ReservedStock.LessThanOrEqual(bal.CurrentStock), "reserva excede stock en %s", loc)
	assert.True(t, bal.CurrentStock.Equal(f.lotSum(t, loc)), "lotes %s != stock %s en %s", f.lotSum(t, loc), bal.CurrentStock, loc)
}

func TestRecordMovement_VentasConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t, 0)
	f.purchase(t, locMain, 20, 10, "B1", nil)
	f.purchase(t, locMain, 30, 12, "B2", nil)

	const workers = 20
	var ok, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
				ProductID: prodTile, FromLocationID: locMain, Type: entity.MovementSale, Quantity: dec(5), CreatedBy: actorUser,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(10), rejected.Load())
	assert.True(t, f.balance(t, locMain).CurrentStock.IsZero())
	checkPair(t, f, locMain)
}

func TestRecordMovement_TrasladosCruzadosConcurrentesConservanStock(t *testing.T) {
	f := newFixture(t, 0)
	f.purchase(t, locMain, 30, 10, "M1", nil)
	f.purchase(t, locStore, 30, 11, "S1", nil)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		from, to := locMain, locStore
		if i%2 == 1 {
			from, to = locStore, locMain
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), inventory.MovementInput{
				ProductID: prodTile, FromLocationID: from, ToLocationID: to, Type: entity.MovementTransfer,
				Quantity: dec(4), CreatedBy: actorUser,
			})
			if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	total := f.balance(t, locMain).CurrentStock.Add(f.balance(t, locStore).CurrentStock)
	assert.True(t, dec(60).Equal(total), "total %s", total)
	checkPair(t, f, locMain)
	checkPair(t, f, locStore)
}

func TestRecordMovement_SecuenciaAleatoriaMantieneInvariantes(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(20260501))
	locs := []string{locMain, locStore}

	for step := 0; step < 300; step++ {
		f.advance(time.Minute)
		loc := locs[rng.Intn(2)]
		other := locs[0]
		if loc == other {
			other = locs[1]
		}
		qty := dec(float64(rng.Intn(8) + 1))
		key := entity.PairKey{ProductID: prodTile, LocationID: loc}

		var err error
		switch op := rng.Intn(6); op {
		case 0, 1:
			cost := dec(float64(rng.Intn(20) + 1))
			_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
				ProductID: prodTile, ToLocationID: loc, Type: entity.MovementPurchase, Quantity: qty, UnitCost: &cost, CreatedBy: actorUser,
			})
		case 2:
			_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
				ProductID: prodTile, FromLocationID: loc, Type: entity.MovementSale, Quantity: qty, CreatedBy: actorUser,
			})
		case 3:
			_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
				ProductID: prodTile, FromLocationID: loc, ToLocationID: other, Type: entity.MovementTransfer, Quantity: qty, CreatedBy: actorUser,
			})
		case 4:
			err = f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
				return tx.Reserve(ctx, key, qty)
			})
		case 5:
			err = f.ledger.Run(ctx, func(ctx context.Context, tx *inventory.Tx) error {
				return tx.Release(ctx, key, qty)
			})
		}
		if err != nil {
			require.True(t,
				errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrConflict),
				"paso %d: %v", step, err)
		}
		checkPair(t, f, locMain)
		checkPair(t, f, locStore)
	}
}
