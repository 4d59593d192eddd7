package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Tx es la vista del ledger dentro de una transacción. Es la única vía para mutar balances y lotes:
// los coordinadores (traslados, daños, ventas) la reciben y nunca tocan StockBalanceRepository.
type Tx struct {
	l        *Ledger
	repos    repository.Set
	now      time.Time
	locked   map[entity.PairKey]bool
	touched  map[entity.PairKey]bool
	recorded []*entity.Movement
	products map[string]*entity.Product
}

func (l *Ledger) newTx(repos repository.Set) *Tx {
	return &Tx{
		l:        l,
		repos:    repos,
		now:      l.now(),
		locked:   make(map[entity.PairKey]bool),
		touched:  make(map[entity.PairKey]bool),
		products: make(map[string]*entity.Product),
	}
}

// Now instante de la transacción (todas las escrituras comparten timestamp).
func (t *Tx) Now() time.Time { return t.now }

// Catalog acceso de lectura al catálogo dentro de la tx.
func (t *Tx) Catalog() repository.CatalogRepository { return t.repos.Catalog }

// Lots acceso de lectura a lotes dentro de la tx.
func (t *Tx) Lots() repository.LotReader { return t.repos.Lots }

// Movements acceso de lectura al ledger dentro de la tx.
func (t *Tx) Movements() repository.MovementRepository { return t.repos.Movements }

// Transfers repositorio de traslados atado a la tx.
func (t *Tx) Transfers() repository.TransferRepository { return t.repos.Transfers }

// Damages repositorio de reportes de daño atado a la tx.
func (t *Tx) Damages() repository.DamageRepository { return t.repos.Damages }

// Alerts repositorio de alertas atado a la tx.
func (t *Tx) Alerts() repository.AlertRepository { return t.repos.Alerts }

// Balance lee el balance del par dentro de la tx.
func (t *Tx) Balance(ctx context.Context, key entity.PairKey) (*entity.StockBalance, error) {
	return t.repos.Balances.Get(ctx, key)
}

// Recorded movimientos escritos en esta tx.
func (t *Tx) Recorded() []*entity.Movement { return t.recorded }

// LockPairs bloquea los pares aún no bloqueados en orden global (ubicación, producto).
// Los coordinadores deben bloquear todo su conjunto de pares antes de la primera escritura.
func (t *Tx) LockPairs(ctx context.Context, keys ...entity.PairKey) error {
	pending := make([]entity.PairKey, 0, len(keys))
	seen := make(map[entity.PairKey]bool, len(keys))
	for _, k := range keys {
		if t.locked[k] || seen[k] {
			continue
		}
		seen[k] = true
		pending = append(pending, k)
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Less(pending[j]) })
	if err := t.repos.Balances.LockPairs(ctx, pending...); err != nil {
		return err
	}
	for _, k := range pending {
		t.locked[k] = true
	}
	return nil
}

// Product obtiene el producto del catálogo (con caché por tx). ErrNotFound si no existe.
func (t *Tx) Product(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := t.products[id]; ok {
		return p, nil
	}
	p, err := t.repos.Catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	t.products[id] = p
	return p, nil
}

// RequireLocation verifica que la ubicación exista en el catálogo.
func (t *Tx) RequireLocation(ctx context.Context, id string) error {
	loc, err := t.repos.Catalog.GetLocation(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Record registra un movimiento: consume lotes en origen, crea lote en destino, actualiza balance,
// valorización y alertas. Todo o nada dentro de la tx.
func (t *Tx) Record(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	return t.record(ctx, in, receiptSource{})
}

// RecordTransferIn registra la entrada de un traslado: un lote destino por cada asignación de origen,
// con costo y fechas del lote original y número de lote "<prefix>/<lote origen>".
func (t *Tx) RecordTransferIn(ctx context.Context, in MovementInput, source []entity.LotAllocation, prefix string) (*entity.Movement, error) {
	if len(source) == 0 {
		return nil, domain.NewValidationError("allocations", "el despacho no tiene lotes asignados")
	}
	return t.record(ctx, in, receiptSource{mirror: source, prefix: prefix})
}

// RecordReversal reingresa stock en los mismos lotes de los que salió (cancelación en tránsito).
func (t *Tx) RecordReversal(ctx context.Context, in MovementInput, source []entity.LotAllocation) (*entity.Movement, error) {
	if len(source) == 0 {
		return nil, domain.NewValidationError("allocations", "el despacho no tiene lotes asignados")
	}
	return t.record(ctx, in, receiptSource{restore: source})
}

// Reserve aparta cantidad del disponible (reserved += qty). Requiere available >= qty.
func (t *Tx) Reserve(ctx context.Context, key entity.PairKey, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	product, err := t.Product(ctx, key.ProductID)
	if err != nil {
		return err
	}
	if err := t.LockPairs(ctx, key); err != nil {
		return err
	}
	bal, err := t.repos.Balances.Get(ctx, key)
	if err != nil {
		return err
	}
	if bal.Available().LessThan(qty) {
		t.l.metrics.StockRejected(entity.MovementTransfer)
		return &domain.InsufficientStockError{
			ProductID:  key.ProductID,
			LocationID: key.LocationID,
			Requested:  qty,
			Available:  bal.Available(),
		}
	}
	bal.ReservedStock = bal.ReservedStock.Add(qty)
	bal.UpdatedAt = t.now
	if err := t.repos.Balances.Upsert(ctx, bal); err != nil {
		return err
	}
	t.touched[key] = true
	return t.raiseAlerts(ctx, product, key)
}

// Release devuelve cantidad reservada al disponible.
func (t *Tx) Release(ctx context.Context, key entity.PairKey, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	product, err := t.Product(ctx, key.ProductID)
	if err != nil {
		return err
	}
	if err := t.LockPairs(ctx, key); err != nil {
		return err
	}
	bal, err := t.repos.Balances.Get(ctx, key)
	if err != nil {
		return err
	}
	if bal.ReservedStock.LessThan(qty) {
		return fmt.Errorf("%w: liberar %s excede lo reservado (%s) en %s",
			domain.ErrConflict, qty.String(), bal.ReservedStock.String(), key)
	}
	bal.ReservedStock = bal.ReservedStock.Sub(qty)
	bal.UpdatedAt = t.now
	if err := t.repos.Balances.Upsert(ctx, bal); err != nil {
		return err
	}
	t.touched[key] = true
	return t.raiseAlerts(ctx, product, key)
}

// receiptSource indica de dónde salen los lotes de una entrada.
type receiptSource struct {
	mirror  []entity.LotAllocation
	prefix  string
	restore []entity.LotAllocation
}

func (t *Tx) record(ctx context.Context, in MovementInput, src receiptSource) (*entity.Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ReferenceType == "" {
		in.ReferenceType = entity.ReferenceManual
	}
	if in.Type == entity.MovementTransfer && in.FromLocationID == "" && len(src.mirror) == 0 && len(src.restore) == 0 {
		return nil, domain.NewValidationError("from_location_id", "la entrada de un traslado requiere los lotes despachados")
	}
	product, err := t.Product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{in.FromLocationID, in.ToLocationID} {
		if id == "" {
			continue
		}
		if err := t.RequireLocation(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := t.LockPairs(ctx, in.keys()...); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     t.now,
	}

	var consumed, received []entity.LotAllocation
	if in.FromLocationID != "" {
		from := in.FromLocationID
		mov.FromLocationID = &from
		key := entity.PairKey{ProductID: in.ProductID, LocationID: from}
		consumed, err = t.consume(ctx, key, in)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				t.l.metrics.StockRejected(in.Type)
			}
			return nil, err
		}
	}
	if in.ToLocationID != "" {
		to := in.ToLocationID
		mov.ToLocationID = &to
		key := entity.PairKey{ProductID: in.ProductID, LocationID: to}
		switch {
		case len(src.restore) > 0:
			received, err = t.restoreLots(ctx, key, in.Quantity, src.restore)
		case len(src.mirror) > 0:
			received, err = t.mirrorLots(ctx, key, in.Quantity, src.mirror, src.prefix)
		case len(consumed) > 0:
			received, err = t.mirrorLots(ctx, key, in.Quantity, consumed, "T"+mov.ID[:8])
		default:
			received, err = t.createLot(ctx, product, key, in)
		}
		if err != nil {
			return nil, err
		}
		if err := t.credit(ctx, key, in.Quantity, received, len(src.restore) > 0); err != nil {
			return nil, err
		}
	}

	costBasis := consumed
	if len(costBasis) == 0 {
		costBasis = received
	}
	total := decimal.Zero
	for _, a := range costBasis {
		total = total.Add(a.Total())
	}
	unit := total.Div(in.Quantity)
	mov.UnitCost = &unit
	mov.TotalCost = &total
	if len(costBasis) == 1 {
		lotID := costBasis[0].LotID
		mov.LotID = &lotID
	}
	mov.Allocations = append(append([]entity.LotAllocation(nil), consumed...), received...)

	if err := t.repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	for _, key := range in.keys() {
		t.touched[key] = true
		if err := t.raiseAlerts(ctx, product, key); err != nil {
			return nil, err
		}
	}
	t.recorded = append(t.recorded, mov)
	return mov, nil
}

// consume valida disponibilidad, recorre lotes con la política configurada y descuenta balance.
func (t *Tx) consume(ctx context.Context, key entity.PairKey, in MovementInput) ([]entity.LotAllocation, error) {
	bal, err := t.repos.Balances.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if bal.Available().LessThan(in.Quantity) {
		return nil, &domain.InsufficientStockError{
			ProductID:  key.ProductID,
			LocationID: key.LocationID,
			Requested:  in.Quantity,
			Available:  bal.Available(),
		}
	}
	lots, err := t.repos.Lots.ListByPair(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := t.expireDue(ctx, lots); err != nil {
		return nil, err
	}
	if in.LotID != "" {
		if err := t.checkPinnedLot(ctx, key, in.LotID, lots); err != nil {
			return nil, err
		}
	}
	policy, err := inventory.PolicyFor(t.l.cfg.DepletionPolicy, in.LotID)
	if err != nil {
		return nil, err
	}
	allowExpired := in.LotID != "" && (in.Type == entity.MovementDamage || in.Type == entity.MovementAdjustment)
	plan, err := inventory.PlanConsumption(key, inventory.EligibleLots(lots, t.now, allowExpired), in.Quantity, policy)
	if err != nil {
		return nil, err
	}

	terminal := entity.LotExhausted
	if in.Type == entity.MovementDamage {
		terminal = entity.LotDamaged
	}
	byID := make(map[string]*entity.Lot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}
	for _, a := range plan.Allocations {
		lot := byID[a.LotID]
		lot.Consume(a.Quantity, terminal, t.now)
		if err := t.repos.Lots.Update(ctx, lot); err != nil {
			return nil, err
		}
	}

	old := bal.CurrentStock
	bal.CurrentStock = bal.CurrentStock.Sub(in.Quantity)
	bal.UpdatedAt = t.now
	if !bal.Valid() {
		return nil, fmt.Errorf("%w: balance inválido tras consumo en %s", domain.ErrConflict, key)
	}
	if err := t.repos.Balances.Upsert(ctx, bal); err != nil {
		return nil, err
	}
	if err := t.revalue(ctx, key, old, bal.CurrentStock, valueConsumption, decimal.Zero); err != nil {
		return nil, err
	}
	return plan.Allocations, nil
}

func (t *Tx) checkPinnedLot(ctx context.Context, key entity.PairKey, lotID string, lots []*entity.Lot) error {
	for _, l := range lots {
		if l.ID == lotID {
			return nil
		}
	}
	lot, err := t.repos.Lots.GetByID(ctx, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
	}
	if lot.ProductID != key.ProductID || lot.LocationID != key.LocationID {
		return domain.NewValidationError("lot_id", "no pertenece al producto y ubicación de origen")
	}
	// El lote existe pero ya no tiene cantidad: la planificación reporta el faltante.
	return nil
}

// expireDue marca como vencidos los lotes activos con fecha pasada (vencimiento perezoso).
func (t *Tx) expireDue(ctx context.Context, lots []*entity.Lot) error {
	for _, l := range lots {
		if l.Status == entity.LotActive && l.IsExpiredAt(t.now) {
			l.Status = entity.LotExpired
			l.UpdatedAt = t.now
			if err := t.repos.Lots.Update(ctx, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// createLot crea el lote de una entrada ordinaria (compra, devolución, producción, ajuste).
func (t *Tx) createLot(ctx context.Context, product *entity.Product, key entity.PairKey, in MovementInput) ([]entity.LotAllocation, error) {
	cost := product.DefaultCost
	if in.UnitCost != nil {
		cost = *in.UnitCost
	}
	spec := LotSpec{}
	if in.Lot != nil {
		spec = *in.Lot
	}
	if spec.Kind == "" {
		spec.Kind = entity.LotKindStandard
	}
	if spec.BatchNumber == "" {
		spec.BatchNumber = fmt.Sprintf("%s-%s", t.now.Format("20060102"), uuid.New().String()[:8])
	}
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		ProductID:         key.ProductID,
		LocationID:        key.LocationID,
		Kind:              spec.Kind,
		BatchNumber:       spec.BatchNumber,
		LotNumber:         spec.LotNumber,
		ManufacturingDate: spec.ManufacturingDate,
		ExpiryDate:        spec.ExpiryDate,
		QualityGrade:      spec.QualityGrade,
		PieceSize:         spec.PieceSize,
		OriginalLotID:     spec.OriginalLotID,
		InitialQuantity:   in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          cost,
		Status:            entity.LotActive,
		CreatedAt:         t.now,
		UpdatedAt:         t.now,
	}
	if lot.IsExpiredAt(t.now) {
		lot.Status = entity.LotExpired
	}
	if err := t.repos.Lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	return []entity.LotAllocation{{LotID: lot.ID, LocationID: key.LocationID, Quantity: in.Quantity, UnitCost: cost}}, nil
}

// mirrorLots crea en destino un lote por cada asignación de origen, conservando costo y fechas.
func (t *Tx) mirrorLots(ctx context.Context, key entity.PairKey, qty decimal.Decimal, source []entity.LotAllocation, prefix string) ([]entity.LotAllocation, error) {
	if err := sumMatches(qty, source); err != nil {
		return nil, err
	}
	out := make([]entity.LotAllocation, 0, len(source))
	for _, a := range source {
		orig, err := t.repos.Lots.GetByID(ctx, a.LotID)
		if err != nil {
			return nil, err
		}
		if orig == nil {
			return nil, fmt.Errorf("lote origen %s: %w", a.LotID, domain.ErrNotFound)
		}
		lot := &entity.Lot{
			ID:                uuid.New().String(),
			ProductID:         key.ProductID,
			LocationID:        key.LocationID,
			Kind:              orig.Kind,
			BatchNumber:       prefix + "/" + orig.BatchNumber,
			LotNumber:         orig.LotNumber,
			ManufacturingDate: orig.ManufacturingDate,
			ExpiryDate:        orig.ExpiryDate,
			QualityGrade:      orig.QualityGrade,
			PieceSize:         orig.PieceSize,
			OriginalLotID:     orig.OriginalLotID,
			InitialQuantity:   a.Quantity,
			RemainingQuantity: a.Quantity,
			UnitCost:          a.UnitCost,
			Status:            entity.LotActive,
			CreatedAt:         t.now,
			UpdatedAt:         t.now,
		}
		if lot.IsExpiredAt(t.now) {
			lot.Status = entity.LotExpired
		}
		if err := t.repos.Lots.Create(ctx, lot); err != nil {
			return nil, err
		}
		out = append(out, entity.LotAllocation{LotID: lot.ID, LocationID: key.LocationID, Quantity: a.Quantity, UnitCost: a.UnitCost})
	}
	return out, nil
}

// restoreLots reabre los lotes de origen con la cantidad exacta que se consumió.
func (t *Tx) restoreLots(ctx context.Context, key entity.PairKey, qty decimal.Decimal, source []entity.LotAllocation) ([]entity.LotAllocation, error) {
	if err := sumMatches(qty, source); err != nil {
		return nil, err
	}
	out := make([]entity.LotAllocation, 0, len(source))
	for _, a := range source {
		lot, err := t.repos.Lots.GetByID(ctx, a.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, fmt.Errorf("lote %s: %w", a.LotID, domain.ErrNotFound)
		}
		if lot.ProductID != key.ProductID || lot.LocationID != key.LocationID {
			return nil, domain.NewValidationError("allocations", "el lote no pertenece a la ubicación de reingreso")
		}
		lot.Restore(a.Quantity, t.now)
		if err := t.repos.Lots.Update(ctx, lot); err != nil {
			return nil, err
		}
		out = append(out, entity.LotAllocation{LotID: lot.ID, LocationID: key.LocationID, Quantity: a.Quantity, UnitCost: a.UnitCost})
	}
	return out, nil
}

func sumMatches(qty decimal.Decimal, allocs []entity.LotAllocation) error {
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Quantity)
	}
	if !sum.Equal(qty) {
		return domain.NewValidationError("quantity", fmt.Sprintf("no coincide con los lotes asignados (%s)", sum.String()))
	}
	return nil
}

// credit suma la entrada al balance y actualiza la valorización. Un reingreso (reverso) no
// recalcula el promedio ponderado: devuelve el valor que el despacho retiró al promedio.
func (t *Tx) credit(ctx context.Context, key entity.PairKey, qty decimal.Decimal, received []entity.LotAllocation, reinstate bool) error {
	bal, err := t.repos.Balances.Get(ctx, key)
	if err != nil {
		return err
	}
	old := bal.CurrentStock
	bal.CurrentStock = bal.CurrentStock.Add(qty)
	bal.UpdatedAt = t.now
	if err := t.repos.Balances.Upsert(ctx, bal); err != nil {
		return err
	}
	total := decimal.Zero
	for _, a := range received {
		total = total.Add(a.Total())
	}
	cost := total.Div(qty)
	mode := valueReceipt
	if reinstate {
		mode = valueReinstatement
	}
	return t.revalue(ctx, key, old, bal.CurrentStock, mode, cost)
}

// valueMode cómo afecta un movimiento a la valorización por promedio ponderado.
type valueMode int

const (
	valueConsumption valueMode = iota
	valueReceipt
	valueReinstatement
)

// revalue mantiene una fila de valorización por método configurado. receiptCost solo aplica a valueReceipt.
func (t *Tx) revalue(ctx context.Context, key entity.PairKey, oldStock, newStock decimal.Decimal, mode valueMode, receiptCost decimal.Decimal) error {
	var lots []*entity.Lot
	for _, m := range t.l.cfg.ValuationMethods {
		var v entity.StockValuation
		if m.LotBased() {
			if lots == nil {
				var err error
				if lots, err = t.repos.Lots.ListByPair(ctx, key); err != nil {
					return err
				}
			}
			v = inventory.LotBasedValuation(key, m, lots, newStock, t.now)
		} else {
			cur, err := t.repos.Valuations.Get(ctx, key, m)
			if err != nil {
				return err
			}
			base := entity.StockValuation{ProductID: key.ProductID, LocationID: key.LocationID, Method: m}
			if cur != nil {
				base = *cur
			}
			switch mode {
			case valueReceipt:
				v = inventory.ApplyReceipt(base, oldStock, newStock.Sub(oldStock), receiptCost, t.now)
			case valueReinstatement:
				v = inventory.ApplyReinstatement(base, newStock, t.now)
			default:
				v = inventory.ApplyConsumption(base, newStock, t.now)
			}
		}
		if err := t.repos.Valuations.Upsert(ctx, &v); err != nil {
			return err
		}
	}
	return nil
}

// raiseAlerts evalúa umbrales del par e inserta las alertas que no estén ya abiertas.
func (t *Tx) raiseAlerts(ctx context.Context, product *entity.Product, key entity.PairKey) error {
	_, err := t.evaluateAlerts(ctx, product, key)
	return err
}

// RaiseAlerts reevalúa un par sin movimiento de por medio (barrido periódico). Devuelve las alertas nuevas.
func (t *Tx) RaiseAlerts(ctx context.Context, key entity.PairKey) (int, error) {
	product, err := t.Product(ctx, key.ProductID)
	if err != nil {
		return 0, err
	}
	return t.evaluateAlerts(ctx, product, key)
}

func (t *Tx) evaluateAlerts(ctx context.Context, product *entity.Product, key entity.PairKey) (int, error) {
	bal, err := t.repos.Balances.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	lots, err := t.repos.Lots.ListByPair(ctx, key)
	if err != nil {
		return 0, err
	}
	return insertAlerts(ctx, t.repos.Alerts, inventory.EvaluateAlerts(bal, product, lots, t.now, t.l.cfg.ExpiryHorizon))
}

// insertAlerts persiste candidatas con semántica insert-if-not-open; devuelve cuántas insertó.
func insertAlerts(ctx context.Context, repo repository.AlertRepository, candidates []entity.StockAlert) (int, error) {
	n := 0
	for i := range candidates {
		a := candidates[i]
		a.ID = uuid.New().String()
		ok, err := repo.InsertIfNotOpen(ctx, &a)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}
