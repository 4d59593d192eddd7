package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/jobs"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prod = "prod-yogurt"
	loc  = "loc-cold"
)

type runs struct {
	calls map[string][]error
}

func (r *runs) JobRun(task string, err error) {
	if r.calls == nil {
		r.calls = map[string][]error{}
	}
	r.calls[task] = append(r.calls[task], err)
}

type env struct {
	ledger   *inventory.Ledger
	handlers *jobs.Handlers
	metrics  *runs
	now      time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	store.AddProduct(entity.Product{ID: prod, SKU: "YOG-1", Name: "Yogur", DefaultCost: decimal.NewFromInt(2), ReorderLevel: decimal.NewFromInt(1)})
	store.AddLocation(entity.Location{ID: loc, Name: "Cuarto frío"})
	e := &env{now: time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC), metrics: &runs{}}
	e.ledger = inventory.NewLedger(store, store.Repos(), inventory.DefaultConfig(), logger.Nop(),
		inventory.WithClock(func() time.Time { return e.now }))
	e.handlers = jobs.NewHandlers(
		alerting.NewUseCase(e.ledger, logger.Nop(), nil),
		e.ledger,
		inventory.NewValuationUseCase(e.ledger),
		e.metrics,
		logger.Nop(),
	)
	return e
}

func task(t *testing.T, build func(string, time.Time) (*asynq.Task, error)) *asynq.Task {
	t.Helper()
	tk, err := build("test", time.Now())
	require.NoError(t, err)
	return tk
}

func TestHandleExpireLots(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	expiry := e.now.Add(48 * time.Hour)
	_, err := e.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prod, ToLocationID: loc, Type: entity.MovementPurchase, Quantity: decimal.NewFromInt(6),
		Lot: &inventory.LotSpec{ExpiryDate: &expiry}, CreatedBy: "user-1",
	})
	require.NoError(t, err)

	e.now = e.now.Add(72 * time.Hour)
	require.NoError(t, e.handlers.HandleExpireLots(ctx, task(t, jobs.NewExpireLotsTask)))

	lots, err := e.ledger.ListLots(ctx, entity.LotFilter{ProductID: prod, Status: entity.LotExpired})
	require.NoError(t, err)
	assert.Len(t, lots, 1)
	assert.Equal(t, []error{nil}, e.metrics.calls[jobs.TaskExpireLots])
}

func TestHandleAlertsScanYRevaluation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := decimal.NewFromInt(4)
	_, err := e.ledger.RecordMovement(ctx, inventory.MovementInput{
		ProductID: prod, ToLocationID: loc, Type: entity.MovementPurchase, Quantity: decimal.NewFromInt(5),
		UnitCost: &c, CreatedBy: "user-1",
	})
	require.NoError(t, err)

	require.NoError(t, e.handlers.HandleAlertsScan(ctx, task(t, jobs.NewAlertsScanTask)))
	require.NoError(t, e.handlers.HandleRevaluation(ctx, task(t, jobs.NewRevaluationTask)))

	v, err := e.ledger.Reader().Valuations.Get(ctx, entity.PairKey{ProductID: prod, LocationID: loc}, entity.ValuationWeightedAverage)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, decimal.NewFromInt(20).Equal(v.CurrentValue))
	assert.Len(t, e.metrics.calls[jobs.TaskAlertsScan], 1)
	assert.Len(t, e.metrics.calls[jobs.TaskRevaluation], 1)
}

func TestHandle_PayloadInvalidoNoSeReintenta(t *testing.T) {
	e := newEnv(t)
	err := e.handlers.HandleAlertsScan(context.Background(), asynq.NewTask(jobs.TaskAlertsScan, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	require.Len(t, e.metrics.calls[jobs.TaskAlertsScan], 1)
	assert.Error(t, e.metrics.calls[jobs.TaskAlertsScan][0])
}

type failingExpirer struct{ err error }

func (f failingExpirer) ExpireLots(context.Context) (int, error) { return 0, f.err }

func TestHandle_ErroresReintentables(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		skipRetry bool
	}{
		{"conflicto", domain.ErrConflict, false},
		{"no disponible", domain.ErrUnavailable, false},
		{"permanente", errors.New("schema roto"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := jobs.NewHandlers(nil, failingExpirer{err: tc.err}, nil, nil, logger.Nop())
			err := h.HandleExpireLots(context.Background(), task(t, jobs.NewExpireLotsTask))
			require.Error(t, err)
			assert.Equal(t, tc.skipRetry, errors.Is(err, asynq.SkipRetry))
			assert.True(t, errors.Is(err, tc.err))
		})
	}
}

func TestTaskHandlers(t *testing.T) {
	h := jobs.NewHandlers(nil, nil, nil, nil, logger.Nop())
	var types []string
	for _, th := range h.TaskHandlers() {
		types = append(types, th.Type)
		assert.NotNil(t, th.Handler)
	}
	assert.ElementsMatch(t, []string{jobs.TaskAlertsScan, jobs.TaskExpireLots, jobs.TaskRevaluation}, types)
}
