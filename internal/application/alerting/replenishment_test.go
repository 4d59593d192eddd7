package alerting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplenishment_SugiereHastaStockIdeal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.receive(t, 3, nil)

	list, err := e.uc.Replenishment(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	s := list[0]
	assert.Equal(t, 1, s.Priority)
	assert.Equal(t, prod, s.ProductID)
	assert.Equal(t, loc, s.LocationID)
	assert.True(t, decimal.NewFromInt(3).Equal(s.Available))
	assert.True(t, decimal.RequireFromString("7.5").Equal(s.IdealStock))
	assert.True(t, decimal.RequireFromString("4.5").Equal(s.SuggestedQty))
	assert.True(t, decimal.NewFromInt(3).Equal(s.UnitCost))
	assert.True(t, decimal.RequireFromString("13.5").Equal(s.EstimatedCost))

	list, err = e.uc.Replenishment(ctx, "otra-bodega")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReplenishment_SobreReordenNoAparece(t *testing.T) {
	e := newEnv(t)
	e.receive(t, 10, nil)

	list, err := e.uc.Replenishment(context.Background(), loc)
	require.NoError(t, err)
	assert.Empty(t, list)
}
