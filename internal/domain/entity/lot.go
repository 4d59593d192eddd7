package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotKind variante del lote: estándar (batch recibido) o pieza de tamaño irregular (subproducto de corte).
type LotKind string

const (
	LotKindStandard LotKind = "standard"
	LotKindOddSize  LotKind = "odd_size"
)

// LotStatus estado del lote. Los lotes nunca se borran, solo cambian de estado.
type LotStatus string

const (
	LotActive    LotStatus = "active"
	LotExhausted LotStatus = "exhausted"
	LotExpired   LotStatus = "expired"
	LotDamaged   LotStatus = "damaged"
)

// Estados de una pieza irregular (proyección de LotStatus).
const (
	OddSizeAvailable = "available"
	OddSizeReserved  = "reserved"
	OddSizeSold      = "sold"
	OddSizeScrapped  = "scrapped"
)

// Lot cantidad recibida de un producto en una ubicación con costo unitario fijo.
// Invariante: 0 <= RemainingQuantity <= InitialQuantity.
type Lot struct {
	ID                string
	ProductID         string
	LocationID        string
	Kind              LotKind
	BatchNumber       string
	LotNumber         *string
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	QualityGrade      *string
	PieceSize         *decimal.Decimal // solo odd_size
	OriginalLotID     *string          // solo odd_size: lote del que se cortó
	InitialQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	Status            LotStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExpiredAt indica si la fecha de vencimiento ya pasó en now.
func (l *Lot) IsExpiredAt(now time.Time) bool {
	return l.ExpiryDate != nil && !l.ExpiryDate.After(now)
}

// ExpiresWithin indica si vence dentro del horizonte indicado (y aún no venció).
func (l *Lot) ExpiresWithin(now time.Time, horizon time.Duration) bool {
	if l.ExpiryDate == nil || l.IsExpiredAt(now) {
		return false
	}
	return !l.ExpiryDate.After(now.Add(horizon))
}

// HasStock indica si el lote aún tiene cantidad física (activo o vencido).
func (l *Lot) HasStock() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero) &&
		(l.Status == LotActive || l.Status == LotExpired)
}

// Value = remaining * unit_cost.
func (l *Lot) Value() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}

// Consume descuenta qty; el caller ya validó disponibilidad. terminal es el estado que toma al llegar a cero
// (exhausted en consumo normal, damaged en disposición de daños).
func (l *Lot) Consume(qty decimal.Decimal, terminal LotStatus, now time.Time) {
	l.RemainingQuantity = l.RemainingQuantity.Sub(qty)
	if l.RemainingQuantity.LessThanOrEqual(decimal.Zero) {
		l.RemainingQuantity = decimal.Zero
		l.Status = terminal
	}
	l.UpdatedAt = now
}

// Restore devuelve cantidad al lote (reverso de un traslado en tránsito) y lo reabre.
func (l *Lot) Restore(qty decimal.Decimal, now time.Time) {
	l.RemainingQuantity = decimal.Min(l.RemainingQuantity.Add(qty), l.InitialQuantity)
	if l.RemainingQuantity.GreaterThan(decimal.Zero) && (l.Status == LotExhausted || l.Status == LotDamaged) {
		l.Status = LotActive
		if l.IsExpiredAt(now) {
			l.Status = LotExpired
		}
	}
	l.UpdatedAt = now
}

// OddSizeStatus proyecta el estado compartido al vocabulario de piezas irregulares.
// pinned indica que un traslado aprobado y aún pendiente fijó la pieza.
func (l *Lot) OddSizeStatus(pinned bool) string {
	switch l.Status {
	case LotExhausted:
		return OddSizeSold
	case LotDamaged, LotExpired:
		return OddSizeScrapped
	}
	if pinned {
		return OddSizeReserved
	}
	return OddSizeAvailable
}

// LotFilter filtros para listar lotes.
type LotFilter struct {
	ProductID  string
	LocationID string
	Kind       LotKind
	Status     LotStatus
	Limit      int
	Offset     int
}
