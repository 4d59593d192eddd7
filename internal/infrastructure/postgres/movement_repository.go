package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre PostgreSQL. Las asignaciones por lote van en movement_lots.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

type movementRow struct {
	ID             string           `db:"id"`
	ProductID      string           `db:"product_id"`
	LotID          *string          `db:"lot_id"`
	FromLocationID *string          `db:"from_location_id"`
	ToLocationID   *string          `db:"to_location_id"`
	MovementType   string           `db:"movement_type"`
	Quantity       decimal.Decimal  `db:"quantity"`
	UnitCost       *decimal.Decimal `db:"unit_cost"`
	TotalCost      *decimal.Decimal `db:"total_cost"`
	ReferenceType  string           `db:"reference_type"`
	ReferenceID    string           `db:"reference_id"`
	CreatedBy      string           `db:"created_by"`
	CreatedAt      time.Time        `db:"created_at"`
}

type allocationRow struct {
	MovementID string          `db:"movement_id"`
	Position   int             `db:"position"`
	LotID      string          `db:"lot_id"`
	LocationID string          `db:"location_id"`
	Quantity   decimal.Decimal `db:"quantity"`
	UnitCost   decimal.Decimal `db:"unit_cost"`
}

var movementColumns = []string{
	"id", "product_id", "lot_id", "from_location_id", "to_location_id", "movement_type", "quantity",
	"unit_cost", "total_cost", "reference_type", "reference_id", "created_by", "created_at",
}

// Create inserta el movimiento y sus asignaciones. Nunca se actualiza ni se borra.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	sql, args, err := psql.Insert("stock_movements").
		Columns(movementColumns...).
		Values(m.ID, m.ProductID, m.LotID, m.FromLocationID, m.ToLocationID, string(m.Type), m.Quantity,
			m.UnitCost, m.TotalCost, m.ReferenceType, m.ReferenceID, m.CreatedBy, m.CreatedAt).
		ToSql()
	if err != nil {
		return wrap("insert movement", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert movement", err)
	}
	if len(m.Allocations) == 0 {
		return nil
	}
	ins := psql.Insert("movement_lots").Columns("movement_id", "position", "lot_id", "location_id", "quantity", "unit_cost")
	for i, a := range m.Allocations {
		ins = ins.Values(m.ID, i, a.LotID, a.LocationID, a.Quantity, a.UnitCost)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return wrap("insert movement lots", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert movement lots", err)
	}
	return nil
}

// GetByID obtiene un movimiento con sus asignaciones; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	out, err := r.selectMovements(ctx, "get movement", psql.Select(movementColumns...).From("stock_movements").Where("id = ?", id))
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func touchesLocation(locationID string) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"from_location_id": locationID},
		squirrel.Eq{"to_location_id": locationID},
	}
}

// List devuelve los más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	q := psql.Select(movementColumns...).From("stock_movements")
	eq := squirrel.Eq{}
	if f.ProductID != "" {
		eq["product_id"] = f.ProductID
	}
	if f.Type != "" {
		eq["movement_type"] = string(f.Type)
	}
	if f.ReferenceType != "" {
		eq["reference_type"] = f.ReferenceType
	}
	if f.ReferenceID != "" {
		eq["reference_id"] = f.ReferenceID
	}
	q = q.Where(eq)
	if f.LocationID != "" {
		q = q.Where(touchesLocation(f.LocationID))
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	q = q.OrderBy("created_at DESC", "seq DESC")
	return r.selectMovements(ctx, "list movements", paginate(q, f.Limit, f.Offset))
}

// ListByPair movimientos que tocan el par en orden cronológico.
func (r *MovementRepo) ListByPair(ctx context.Context, key entity.PairKey) ([]*entity.Movement, error) {
	q := psql.Select(movementColumns...).From("stock_movements").
		Where(squirrel.Eq{"product_id": key.ProductID}).
		Where(touchesLocation(key.LocationID)).
		OrderBy("created_at", "seq")
	return r.selectMovements(ctx, "list movements by pair", q)
}

func (r *MovementRepo) selectMovements(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	allocs, err := r.allocations(ctx, ids)
	if err != nil {
		return nil, wrap(op, err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.Movement{
			ID:             m.ID,
			ProductID:      m.ProductID,
			LotID:          m.LotID,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			Type:           entity.MovementType(m.MovementType),
			Quantity:       m.Quantity,
			UnitCost:       m.UnitCost,
			TotalCost:      m.TotalCost,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			CreatedBy:      m.CreatedBy,
			CreatedAt:      m.CreatedAt,
			Allocations:    allocs[m.ID],
		})
	}
	return out, nil
}

func (r *MovementRepo) allocations(ctx context.Context, movementIDs []string) (map[string][]entity.LotAllocation, error) {
	sql, args, err := psql.Select("movement_id", "position", "lot_id", "location_id", "quantity", "unit_cost").
		From("movement_lots").
		Where(squirrel.Eq{"movement_id": movementIDs}).
		OrderBy("movement_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []allocationRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, err
	}
	out := make(map[string][]entity.LotAllocation, len(movementIDs))
	for _, a := range rows {
		out[a.MovementID] = append(out[a.MovementID], entity.LotAllocation{
			LotID:      a.LotID,
			LocationID: a.LocationID,
			Quantity:   a.Quantity,
			UnitCost:   a.UnitCost,
		})
	}
	return out, nil
}
