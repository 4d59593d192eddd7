package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DamageRepository = (*DamageRepo)(nil)

// DamageRepo reportes de stock dañado sobre PostgreSQL.
type DamageRepo struct {
	q Querier
}

// NewDamageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDamageRepository(q Querier) *DamageRepo {
	return &DamageRepo{q: q}
}

type damageRow struct {
	ID                 string          `db:"id"`
	ProductID          string          `db:"product_id"`
	LotID              *string         `db:"lot_id"`
	LocationID         string          `db:"location_id"`
	DamageType         string          `db:"damage_type"`
	Reason             string          `db:"reason"`
	Quantity           decimal.Decimal `db:"quantity"`
	UnitCost           decimal.Decimal `db:"unit_cost"`
	TotalLoss          decimal.Decimal `db:"total_loss"`
	DisposalMethod     *string         `db:"disposal_method"`
	DisposalDate       *time.Time      `db:"disposal_date"`
	Status             string          `db:"status"`
	ReportedBy         string          `db:"reported_by"`
	ApprovedBy         *string         `db:"approved_by"`
	RejectedBy         *string         `db:"rejected_by"`
	DisposedBy         *string         `db:"disposed_by"`
	DisposalMovementID *string         `db:"disposal_movement_id"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (d damageRow) toEntity() *entity.DamagedStock {
	return &entity.DamagedStock{
		ID:                 d.ID,
		ProductID:          d.ProductID,
		LotID:              d.LotID,
		LocationID:         d.LocationID,
		DamageType:         d.DamageType,
		Reason:             d.Reason,
		Quantity:           d.Quantity,
		UnitCost:           d.UnitCost,
		TotalLoss:          d.TotalLoss,
		DisposalMethod:     d.DisposalMethod,
		DisposalDate:       d.DisposalDate,
		Status:             entity.DamageStatus(d.Status),
		ReportedBy:         d.ReportedBy,
		ApprovedBy:         d.ApprovedBy,
		RejectedBy:         d.RejectedBy,
		DisposedBy:         d.DisposedBy,
		DisposalMovementID: d.DisposalMovementID,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

var damageColumns = []string{
	"id", "product_id", "lot_id", "location_id", "damage_type", "reason", "quantity", "unit_cost",
	"total_loss", "disposal_method", "disposal_date", "status", "reported_by", "approved_by",
	"rejected_by", "disposed_by", "disposal_movement_id", "created_at", "updated_at",
}

func (r *DamageRepo) Create(ctx context.Context, d *entity.DamagedStock) error {
	sql, args, err := psql.Insert("damaged_stock").
		Columns(damageColumns...).
		Values(d.ID, d.ProductID, d.LotID, d.LocationID, d.DamageType, d.Reason, d.Quantity, d.UnitCost,
			d.TotalLoss, d.DisposalMethod, d.DisposalDate, string(d.Status), d.ReportedBy, d.ApprovedBy,
			d.RejectedBy, d.DisposedBy, d.DisposalMovementID, d.CreatedAt, d.UpdatedAt).
		ToSql()
	if err != nil {
		return wrap("insert damage", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert damage", err)
	}
	return nil
}

func (r *DamageRepo) GetByID(ctx context.Context, id string) (*entity.DamagedStock, error) {
	return r.getOne(ctx, "get damage", psql.Select(damageColumns...).From("damaged_stock").Where("id = ?", id))
}

// GetForUpdate bloquea el reporte para serializar transiciones.
func (r *DamageRepo) GetForUpdate(ctx context.Context, id string) (*entity.DamagedStock, error) {
	return r.getOne(ctx, "get damage for update",
		psql.Select(damageColumns...).From("damaged_stock").Where("id = ?", id).Suffix("FOR UPDATE"))
}

func (r *DamageRepo) getOne(ctx context.Context, op string, q squirrel.SelectBuilder) (*entity.DamagedStock, error) {
	out, err := r.selectDamages(ctx, op, q)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *DamageRepo) Update(ctx context.Context, d *entity.DamagedStock) error {
	sql, args, err := psql.Update("damaged_stock").SetMap(map[string]any{
		"unit_cost":            d.UnitCost,
		"total_loss":           d.TotalLoss,
		"disposal_method":      d.DisposalMethod,
		"disposal_date":        d.DisposalDate,
		"status":               string(d.Status),
		"approved_by":          d.ApprovedBy,
		"rejected_by":          d.RejectedBy,
		"disposed_by":          d.DisposedBy,
		"disposal_movement_id": d.DisposalMovementID,
		"updated_at":           d.UpdatedAt,
	}).Where("id = ?", d.ID).ToSql()
	if err != nil {
		return wrap("update damage", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update damage", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reporte %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

// List más recientes primero.
func (r *DamageRepo) List(ctx context.Context, f entity.DamageFilter) ([]*entity.DamagedStock, error) {
	eq := squirrel.Eq{}
	if f.ProductID != "" {
		eq["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		eq["location_id"] = f.LocationID
	}
	if f.Status != "" {
		eq["status"] = string(f.Status)
	}
	q := psql.Select(damageColumns...).From("damaged_stock").Where(eq).OrderBy("created_at DESC", "id")
	return r.selectDamages(ctx, "list damages", paginate(q, f.Limit, f.Offset))
}

func (r *DamageRepo) selectDamages(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.DamagedStock, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var rows []damageRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	out := make([]*entity.DamagedStock, 0, len(rows))
	for _, d := range rows {
		out = append(out, d.toEntity())
	}
	return out, nil
}
