package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Nombres de política de agotamiento de lotes.
const (
	PolicyFIFO     = "fifo"
	PolicyLIFO     = "lifo"
	PolicySpecific = "specific"
)

// DepletionPolicy decide en qué orden se consumen los lotes elegibles.
type DepletionPolicy interface {
	Name() string
	Order(lots []*entity.Lot) []*entity.Lot
}

// FIFO consume primero el lote con menor fecha de fabricación (desempate por id).
type FIFO struct{}

// LIFO consume primero el lote con mayor fecha de fabricación.
type LIFO struct{}

// Specific consume únicamente el lote indicado por el caller.
type Specific struct {
	LotID string
}

func (FIFO) Name() string     { return PolicyFIFO }
func (LIFO) Name() string     { return PolicyLIFO }
func (Specific) Name() string { return PolicySpecific }

func (FIFO) Order(lots []*entity.Lot) []*entity.Lot {
	out := append([]*entity.Lot(nil), lots...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := lotDate(out[i]), lotDate(out[j])
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (LIFO) Order(lots []*entity.Lot) []*entity.Lot {
	out := append([]*entity.Lot(nil), lots...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := lotDate(out[i]), lotDate(out[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (p Specific) Order(lots []*entity.Lot) []*entity.Lot {
	for _, l := range lots {
		if l.ID == p.LotID {
			return []*entity.Lot{l}
		}
	}
	return nil
}

// lotDate fecha de orden: fabricación, o la de creación si no hay fecha de fabricación.
func lotDate(l *entity.Lot) time.Time {
	if l.ManufacturingDate != nil {
		return *l.ManufacturingDate
	}
	return l.CreatedAt
}

// PolicyFor resuelve la política. Un lote fijado siempre implica identificación específica.
func PolicyFor(name, pinnedLotID string) (DepletionPolicy, error) {
	if pinnedLotID != "" {
		return Specific{LotID: pinnedLotID}, nil
	}
	switch name {
	case PolicyFIFO, "":
		return FIFO{}, nil
	case PolicyLIFO:
		return LIFO{}, nil
	case PolicySpecific:
		return nil, domain.NewValidationError("lot_id", "es requerido con identificación específica")
	}
	return nil, domain.NewValidationError("depletion_policy", fmt.Sprintf("desconocida: %s", name))
}

// EligibleLots filtra los lotes que pueden consumirse: activos con cantidad y no vencidos a now.
// allowExpired habilita lotes vencidos (disposición de daños o ajustes sobre un lote fijado).
func EligibleLots(lots []*entity.Lot, now time.Time, allowExpired bool) []*entity.Lot {
	out := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if !l.RemainingQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		expired := l.Status == entity.LotExpired || l.IsExpiredAt(now)
		switch {
		case l.Status == entity.LotActive && !expired:
			out = append(out, l)
		case expired && allowExpired && (l.Status == entity.LotActive || l.Status == entity.LotExpired):
			out = append(out, l)
		}
	}
	return out
}

// ConsumptionPlan resultado de recorrer los lotes hasta cubrir la cantidad pedida.
type ConsumptionPlan struct {
	Allocations []entity.LotAllocation
	TotalCost   decimal.Decimal
}

// UnitCost costo unitario efectivo del consumo (total / cantidad).
func (p ConsumptionPlan) UnitCost(qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	return p.TotalCost.Div(qty)
}

// PlanConsumption recorre los lotes en el orden de la política y asigna cantidad hasta cubrir qty.
// Si no alcanza, devuelve InsufficientStockError sin plan parcial.
func PlanConsumption(key entity.PairKey, lots []*entity.Lot, qty decimal.Decimal, policy DepletionPolicy) (ConsumptionPlan, error) {
	ordered := policy.Order(lots)
	var available decimal.Decimal
	for _, l := range ordered {
		available = available.Add(l.RemainingQuantity)
	}
	if available.LessThan(qty) {
		return ConsumptionPlan{}, &domain.InsufficientStockError{
			ProductID:  key.ProductID,
			LocationID: key.LocationID,
			Requested:  qty,
			Available:  available,
		}
	}
	plan := ConsumptionPlan{TotalCost: decimal.Zero}
	pending := qty
	for _, l := range ordered {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, l.RemainingQuantity)
		if !take.GreaterThan(decimal.Zero) {
			continue
		}
		alloc := entity.LotAllocation{LotID: l.ID, LocationID: key.LocationID, Quantity: take, UnitCost: l.UnitCost}
		plan.Allocations = append(plan.Allocations, alloc)
		plan.TotalCost = plan.TotalCost.Add(alloc.Total())
		pending = pending.Sub(take)
	}
	return plan, nil
}
