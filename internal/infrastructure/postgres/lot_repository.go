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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo registro de lotes sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

type lotRow struct {
	ID                string           `db:"id"`
	ProductID         string           `db:"product_id"`
	LocationID        string           `db:"location_id"`
	Kind              string           `db:"kind"`
	BatchNumber       string           `db:"batch_number"`
	LotNumber         *string          `db:"lot_number"`
	ManufacturingDate *time.Time       `db:"manufacturing_date"`
	ExpiryDate        *time.Time       `db:"expiry_date"`
	QualityGrade      *string          `db:"quality_grade"`
	PieceSize         *decimal.Decimal `db:"piece_size"`
	OriginalLotID     *string          `db:"original_lot_id"`
	InitialQuantity   decimal.Decimal  `db:"initial_quantity"`
	RemainingQuantity decimal.Decimal  `db:"remaining_quantity"`
	UnitCost          decimal.Decimal  `db:"unit_cost"`
	Status            string           `db:"status"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

func (l lotRow) toEntity() *entity.Lot {
	return &entity.Lot{
		ID:                l.ID,
		ProductID:         l.ProductID,
		LocationID:        l.LocationID,
		Kind:              entity.LotKind(l.Kind),
		BatchNumber:       l.BatchNumber,
		LotNumber:         l.LotNumber,
		ManufacturingDate: l.ManufacturingDate,
		ExpiryDate:        l.ExpiryDate,
		QualityGrade:      l.QualityGrade,
		PieceSize:         l.PieceSize,
		OriginalLotID:     l.OriginalLotID,
		InitialQuantity:   l.InitialQuantity,
		RemainingQuantity: l.RemainingQuantity,
		UnitCost:          l.UnitCost,
		Status:            entity.LotStatus(l.Status),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

var lotColumns = []string{
	"id", "product_id", "location_id", "kind", "batch_number", "lot_number", "manufacturing_date",
	"expiry_date", "quality_grade", "piece_size", "original_lot_id", "initial_quantity",
	"remaining_quantity", "unit_cost", "status", "created_at", "updated_at",
}

// Create inserta el lote; batch_number duplicado para el par devuelve ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	sql, args, err := psql.Insert("lots").
		Columns(lotColumns...).
		Values(l.ID, l.ProductID, l.LocationID, string(l.Kind), l.BatchNumber, l.LotNumber, l.ManufacturingDate,
			l.ExpiryDate, l.QualityGrade, l.PieceSize, l.OriginalLotID, l.InitialQuantity,
			l.RemainingQuantity, l.UnitCost, string(l.Status), l.CreatedAt, l.UpdatedAt).
		ToSql()
	if err != nil {
		return wrap("insert lot", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert lot", err)
	}
	return nil
}

// Update persiste cantidad y estado; el resto del lote es inmutable.
func (r *LotRepo) Update(ctx context.Context, l *entity.Lot) error {
	sql, args, err := psql.Update("lots").
		Set("remaining_quantity", l.RemainingQuantity).
		Set("status", string(l.Status)).
		Set("updated_at", l.UpdatedAt).
		Where("id = ?", l.ID).
		ToSql()
	if err != nil {
		return wrap("update lot", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("update lot", err)
	}
	return nil
}

// GetByID obtiene un lote; (nil, nil) si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	lots, err := r.selectLots(ctx, "get lot", psql.Select(lotColumns...).From("lots").Where("id = ?", id))
	if err != nil || len(lots) == 0 {
		return nil, err
	}
	return lots[0], nil
}

// ListByPair lotes con cantidad del par, más antiguos primero (orden de consumo FIFO).
func (r *LotRepo) ListByPair(ctx context.Context, key entity.PairKey) ([]*entity.Lot, error) {
	q := psql.Select(lotColumns...).From("lots").
		Where(squirrel.Eq{
			"product_id":  key.ProductID,
			"location_id": key.LocationID,
			"status":      []string{string(entity.LotActive), string(entity.LotExpired)},
		}).
		Where("remaining_quantity > 0").
		OrderBy("created_at", "id")
	return r.selectLots(ctx, "list lots by pair", q)
}

// List lista lotes con filtros.
func (r *LotRepo) List(ctx context.Context, f entity.LotFilter) ([]*entity.Lot, error) {
	eq := squirrel.Eq{}
	if f.ProductID != "" {
		eq["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		eq["location_id"] = f.LocationID
	}
	if f.Kind != "" {
		eq["kind"] = string(f.Kind)
	}
	if f.Status != "" {
		eq["status"] = string(f.Status)
	}
	q := psql.Select(lotColumns...).From("lots").Where(eq).OrderBy("created_at", "id")
	return r.selectLots(ctx, "list lots", paginate(q, f.Limit, f.Offset))
}

// ListDueForExpiry lotes activos con cantidad cuya fecha de vencimiento ya llegó.
func (r *LotRepo) ListDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Lot, error) {
	q := psql.Select(lotColumns...).From("lots").
		Where(squirrel.Eq{"status": string(entity.LotActive)}).
		Where("remaining_quantity > 0").
		Where(squirrel.LtOrEq{"expiry_date": now}).
		OrderBy("created_at", "id")
	return r.selectLots(ctx, "list lots due for expiry", q)
}

func (r *LotRepo) selectLots(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.Lot, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var rows []lotRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	out := make([]*entity.Lot, 0, len(rows))
	for _, l := range rows {
		out = append(out, l.toEntity())
	}
	return out, nil
}
