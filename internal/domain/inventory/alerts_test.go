package inventory

import (
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertTypes(alerts []entity.StockAlert) []entity.AlertType {
	out := make([]entity.AlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.AlertType)
	}
	return out
}

func TestEvaluateAlerts_Umbrales(t *testing.T) {
	maxLevel := d(100)
	product := &entity.Product{ID: "p1", SKU: "LAM-01", ReorderLevel: d(10), MaxStockLevel: &maxLevel}

	cases := []struct {
		name     string
		current  int64
		reserved int64
		want     []entity.AlertType
	}{
		{"sin stock", 0, 0, []entity.AlertType{entity.AlertOutOfStock}},
		{"todo reservado", 5, 5, []entity.AlertType{entity.AlertOutOfStock}},
		{"bajo reorden", 8, 0, []entity.AlertType{entity.AlertLowStock}},
		{"en el punto de reorden", 12, 2, []entity.AlertType{entity.AlertLowStock}},
		{"normal", 50, 0, nil},
		{"sobre stock", 150, 0, []entity.AlertType{entity.AlertOverstock}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &entity.StockBalance{ProductID: "p1", LocationID: "l1", CurrentStock: d(tc.current), ReservedStock: d(tc.reserved)}
			got := EvaluateAlerts(b, product, nil, t0, 0)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, alertTypes(got))
		})
	}
}

func TestEvaluateAlerts_Vencimiento(t *testing.T) {
	product := &entity.Product{ID: "p1", SKU: "LAM-01", ReorderLevel: decimal.Zero}
	b := &entity.StockBalance{ProductID: "p1", LocationID: "l1", CurrentStock: d(10), ReservedStock: d(0)}

	soon := t0.AddDate(0, 0, 10)
	later := t0.AddDate(0, 6, 0)
	l1 := mkLot("l1", t0, 5, 10)
	l1.ExpiryDate = &later
	l2 := mkLot("l2", t0, 5, 10)
	l2.ExpiryDate = &soon

	got := EvaluateAlerts(b, product, []*entity.Lot{l1, l2}, t0, 30*24*time.Hour)
	require.Len(t, got, 1)
	assert.Equal(t, entity.AlertExpiryWarning, got[0].AlertType)
	assert.Contains(t, got[0].Message, "B-l2")

	got = EvaluateAlerts(b, product, []*entity.Lot{l1}, t0, 30*24*time.Hour)
	assert.Empty(t, got)
}
