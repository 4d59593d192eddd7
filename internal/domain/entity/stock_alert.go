package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertType tipo de alerta de stock.
type AlertType string

const (
	AlertLowStock      AlertType = "low_stock"
	AlertOutOfStock    AlertType = "out_of_stock"
	AlertOverstock     AlertType = "overstock"
	AlertExpiryWarning AlertType = "expiry_warning"
)

// StockAlert notificación derivada de umbrales; la resuelve un operador.
type StockAlert struct {
	ID             string
	ProductID      string
	LocationID     string
	AlertType      AlertType
	CurrentStock   decimal.Decimal
	ThresholdValue *decimal.Decimal
	Message        string
	IsRead         bool
	IsResolved     bool
	ResolvedBy     *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}

// AlertFilter filtros para listar alertas.
type AlertFilter struct {
	ProductID  string
	LocationID string
	AlertType  AlertType
	OnlyOpen   bool
	OnlyUnread bool
	Limit      int
	Offset     int
}
