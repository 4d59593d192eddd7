package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AlertResponse alerta de stock.
type AlertResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	LocationID     string           `json:"location_id"`
	AlertType      string           `json:"alert_type"`
	CurrentStock   decimal.Decimal  `json:"current_stock"`
	ThresholdValue *decimal.Decimal `json:"threshold_value,omitempty"`
	Message        string           `json:"message"`
	IsRead         bool             `json:"is_read"`
	IsResolved     bool             `json:"is_resolved"`
	ResolvedBy     *string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// FromAlert mapea la entidad.
func FromAlert(a *entity.StockAlert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		LocationID:     a.LocationID,
		AlertType:      string(a.AlertType),
		CurrentStock:   a.CurrentStock,
		ThresholdValue: a.ThresholdValue,
		Message:        a.Message,
		IsRead:         a.IsRead,
		IsResolved:     a.IsResolved,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ScanResponse resultado de un barrido manual de alertas.
type ScanResponse struct {
	Pairs  int `json:"pairs"`
	Raised int `json:"raised"`
}

// ReplenishmentSuggestionResponse línea de la lista de reposición.
type ReplenishmentSuggestionResponse struct {
	Priority      int             `json:"priority"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	LocationID    string          `json:"location_id"`
	Available     decimal.Decimal `json:"available"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	IdealStock    decimal.Decimal `json:"ideal_stock"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}
