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

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas de stock sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

type alertRow struct {
	ID             string           `db:"id"`
	ProductID      string           `db:"product_id"`
	LocationID     string           `db:"location_id"`
	AlertType      string           `db:"alert_type"`
	CurrentStock   decimal.Decimal  `db:"current_stock"`
	ThresholdValue *decimal.Decimal `db:"threshold_value"`
	Message        string           `db:"message"`
	IsRead         bool             `db:"is_read"`
	IsResolved     bool             `db:"is_resolved"`
	ResolvedBy     *string          `db:"resolved_by"`
	ResolvedAt     *time.Time       `db:"resolved_at"`
	CreatedAt      time.Time        `db:"created_at"`
}

var alertColumns = []string{
	"id", "product_id", "location_id", "alert_type", "current_stock", "threshold_value", "message",
	"is_read", "is_resolved", "resolved_by", "resolved_at", "created_at",
}

// InsertIfNotOpen apoya la deduplicación en el índice único parcial uq_stock_alerts_open.
func (r *AlertRepo) InsertIfNotOpen(ctx context.Context, a *entity.StockAlert) (bool, error) {
	sql, args, err := psql.Insert("stock_alerts").
		Columns(alertColumns...).
		Values(a.ID, a.ProductID, a.LocationID, string(a.AlertType), a.CurrentStock, a.ThresholdValue, a.Message,
			a.IsRead, a.IsResolved, a.ResolvedBy, a.ResolvedAt, a.CreatedAt).
		Suffix("ON CONFLICT (product_id, location_id, alert_type) WHERE NOT is_resolved DO NOTHING").
		ToSql()
	if err != nil {
		return false, wrap("insert alert", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, wrap("insert alert", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	out, err := r.selectAlerts(ctx, "get alert", psql.Select(alertColumns...).From("stock_alerts").Where("id = ?", id))
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *AlertRepo) Update(ctx context.Context, a *entity.StockAlert) error {
	sql, args, err := psql.Update("stock_alerts").
		Set("is_read", a.IsRead).
		Set("is_resolved", a.IsResolved).
		Set("resolved_by", a.ResolvedBy).
		Set("resolved_at", a.ResolvedAt).
		Where("id = ?", a.ID).
		ToSql()
	if err != nil {
		return wrap("update alert", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update alert", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alerta %s: %w", a.ID, domain.ErrNotFound)
	}
	return nil
}

// List más recientes primero.
func (r *AlertRepo) List(ctx context.Context, f entity.AlertFilter) ([]*entity.StockAlert, error) {
	eq := squirrel.Eq{}
	if f.ProductID != "" {
		eq["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		eq["location_id"] = f.LocationID
	}
	if f.AlertType != "" {
		eq["alert_type"] = string(f.AlertType)
	}
	if f.OnlyOpen {
		eq["is_resolved"] = false
	}
	if f.OnlyUnread {
		eq["is_read"] = false
	}
	q := psql.Select(alertColumns...).From("stock_alerts").Where(eq).OrderBy("created_at DESC", "seq DESC")
	return r.selectAlerts(ctx, "list alerts", paginate(q, f.Limit, f.Offset))
}

func (r *AlertRepo) selectAlerts(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.StockAlert, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var rows []alertRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	out := make([]*entity.StockAlert, 0, len(rows))
	for _, a := range rows {
		out = append(out, &entity.StockAlert{
			ID:             a.ID,
			ProductID:      a.ProductID,
			LocationID:     a.LocationID,
			AlertType:      entity.AlertType(a.AlertType),
			CurrentStock:   a.CurrentStock,
			ThresholdValue: a.ThresholdValue,
			Message:        a.Message,
			IsRead:         a.IsRead,
			IsResolved:     a.IsResolved,
			ResolvedBy:     a.ResolvedBy,
			ResolvedAt:     a.ResolvedAt,
			CreatedAt:      a.CreatedAt,
		})
	}
	return out, nil
}
