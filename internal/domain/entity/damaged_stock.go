package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DamageStatus estado de un reporte de daño.
type DamageStatus string

const (
	DamageReported DamageStatus = "reported"
	DamageApproved DamageStatus = "approved"
	DamageDisposed DamageStatus = "disposed"
	DamageRejected DamageStatus = "rejected"
)

// Tipos de daño.
const (
	DamageTypeBreakage = "breakage"
	DamageTypeDefect   = "defect"
	DamageTypeExpiry   = "expiry"
	DamageTypeWater    = "water"
	DamageTypeTheft    = "theft"
	DamageTypeOther    = "other"
)

// Métodos de disposición.
const (
	DisposalScrap          = "scrap"
	DisposalReturnToVendor = "return_to_vendor"
	DisposalSellAsSeconds  = "sell_as_seconds"
	DisposalRecycle        = "recycle"
	DisposalDonate         = "donate"
)

// ValidDamageType indica si el tipo de daño es conocido.
func ValidDamageType(t string) bool {
	switch t {
	case DamageTypeBreakage, DamageTypeDefect, DamageTypeExpiry, DamageTypeWater, DamageTypeTheft, DamageTypeOther:
		return true
	}
	return false
}

// ValidDisposalMethod indica si el método de disposición es conocido.
func ValidDisposalMethod(m string) bool {
	switch m {
	case DisposalScrap, DisposalReturnToVendor, DisposalSellAsSeconds, DisposalRecycle, DisposalDonate:
		return true
	}
	return false
}

// DamagedStock reporte de stock dañado con su ciclo reported -> approved -> disposed | rejected.
type DamagedStock struct {
	ID                 string
	ProductID          string
	LotID              *string
	LocationID         string
	DamageType         string
	Reason             string
	Quantity           decimal.Decimal
	UnitCost           decimal.Decimal
	TotalLoss          decimal.Decimal
	DisposalMethod     *string
	DisposalDate       *time.Time
	Status             DamageStatus
	ReportedBy         string
	ApprovedBy         *string
	RejectedBy         *string
	DisposedBy         *string
	DisposalMovementID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DamageFilter filtros para listar reportes.
type DamageFilter struct {
	ProductID  string
	LocationID string
	Status     DamageStatus
	Limit      int
	Offset     int
}
