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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados y líneas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

type transferRow struct {
	ID             string     `db:"id"`
	TransferNumber string     `db:"transfer_number"`
	FromLocationID string     `db:"from_location_id"`
	ToLocationID   string     `db:"to_location_id"`
	Status         string     `db:"status"`
	Notes          string     `db:"notes"`
	RequestedBy    string     `db:"requested_by"`
	ApprovedBy     *string    `db:"approved_by"`
	DispatchedBy   *string    `db:"dispatched_by"`
	ReceivedBy     *string    `db:"received_by"`
	CancelledBy    *string    `db:"cancelled_by"`
	RequestedAt    time.Time  `db:"requested_at"`
	ApprovedAt     *time.Time `db:"approved_at"`
	DispatchedAt   *time.Time `db:"dispatched_at"`
	ReceivedAt     *time.Time `db:"received_at"`
	CancelledAt    *time.Time `db:"cancelled_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type transferItemRow struct {
	ID                 string           `db:"id"`
	TransferID         string           `db:"transfer_id"`
	ProductID          string           `db:"product_id"`
	LotID              *string          `db:"lot_id"`
	Quantity           decimal.Decimal  `db:"quantity"`
	UnitCost           *decimal.Decimal `db:"unit_cost"`
	DispatchMovementID *string          `db:"dispatch_movement_id"`
	ReceiveMovementID  *string          `db:"receive_movement_id"`
}

var transferColumns = []string{
	"id", "transfer_number", "from_location_id", "to_location_id", "status", "notes",
	"requested_by", "approved_by", "dispatched_by", "received_by", "cancelled_by",
	"requested_at", "approved_at", "dispatched_at", "received_at", "cancelled_at", "updated_at",
}

// Create inserta la cabecera y las líneas en el orden recibido.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	sql, args, err := psql.Insert("transfers").
		Columns(transferColumns...).
		Values(t.ID, t.TransferNumber, t.FromLocationID, t.ToLocationID, string(t.Status), t.Notes,
			t.RequestedBy, t.ApprovedBy, t.DispatchedBy, t.ReceivedBy, t.CancelledBy,
			t.RequestedAt, t.ApprovedAt, t.DispatchedAt, t.ReceivedAt, t.CancelledAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return wrap("insert transfer", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert transfer", err)
	}
	if len(t.Items) == 0 {
		return nil
	}
	ins := psql.Insert("transfer_items").Columns(
		"id", "transfer_id", "position", "product_id", "lot_id", "quantity", "unit_cost",
		"dispatch_movement_id", "receive_movement_id")
	for i, it := range t.Items {
		ins = ins.Values(it.ID, t.ID, i, it.ProductID, it.LotID, it.Quantity, it.UnitCost,
			it.DispatchMovementID, it.ReceiveMovementID)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return wrap("insert transfer items", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return wrap("insert transfer items", err)
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas; (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, "get transfer", psql.Select(transferColumns...).From("transfers").Where("id = ?", id))
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, "get transfer for update",
		psql.Select(transferColumns...).From("transfers").Where("id = ?", id).Suffix("FOR UPDATE"))
}

func (r *TransferRepo) getOne(ctx context.Context, op string, q squirrel.SelectBuilder) (*entity.Transfer, error) {
	out, err := r.selectTransfers(ctx, op, q)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

// Update guarda la cabecera; las líneas se actualizan con UpdateItem.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	sql, args, err := psql.Update("transfers").SetMap(map[string]any{
		"status":        string(t.Status),
		"notes":         t.Notes,
		"approved_by":   t.ApprovedBy,
		"dispatched_by": t.DispatchedBy,
		"received_by":   t.ReceivedBy,
		"cancelled_by":  t.CancelledBy,
		"approved_at":   t.ApprovedAt,
		"dispatched_at": t.DispatchedAt,
		"received_at":   t.ReceivedAt,
		"cancelled_at":  t.CancelledAt,
		"updated_at":    t.UpdatedAt,
	}).Where("id = ?", t.ID).ToSql()
	if err != nil {
		return wrap("update transfer", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update transfer", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateItem guarda costo y movimientos vinculados de una línea.
func (r *TransferRepo) UpdateItem(ctx context.Context, it *entity.TransferItem) error {
	sql, args, err := psql.Update("transfer_items").
		Set("unit_cost", it.UnitCost).
		Set("dispatch_movement_id", it.DispatchMovementID).
		Set("receive_movement_id", it.ReceiveMovementID).
		Where("id = ? AND transfer_id = ?", it.ID, it.TransferID).
		ToSql()
	if err != nil {
		return wrap("update transfer item", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrap("update transfer item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("línea %s: %w", it.ID, domain.ErrNotFound)
	}
	return nil
}

// List más recientes primero (por número de traslado).
func (r *TransferRepo) List(ctx context.Context, f entity.TransferFilter) ([]*entity.Transfer, error) {
	q := psql.Select(transferColumns...).From("transfers")
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(f.Status)})
	}
	if f.LocationID != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_location_id": f.LocationID},
			squirrel.Eq{"to_location_id": f.LocationID},
		})
	}
	q = q.OrderBy("transfer_number DESC")
	return r.selectTransfers(ctx, "list transfers", paginate(q, f.Limit, f.Offset))
}

// NextNumber toma el siguiente valor de la secuencia: TRF-000001, TRF-000002...
func (r *TransferRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, "SELECT nextval('transfer_number_seq')").Scan(&n); err != nil {
		return "", wrap("next transfer number", err)
	}
	return fmt.Sprintf("TRF-%06d", n), nil
}

func (r *TransferRepo) selectTransfers(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*entity.Transfer, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var rows []transferRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(rows))
	for _, t := range rows {
		ids = append(ids, t.ID)
	}
	sql, args, err = psql.Select("id", "transfer_id", "product_id", "lot_id", "quantity", "unit_cost",
		"dispatch_movement_id", "receive_movement_id").
		From("transfer_items").
		Where(squirrel.Eq{"transfer_id": ids}).
		OrderBy("transfer_id", "position").
		ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}
	var itemRows []transferItemRow
	if err := pgxscan.Select(ctx, r.q, &itemRows, sql, args...); err != nil {
		return nil, wrap(op, err)
	}
	items := make(map[string][]entity.TransferItem, len(rows))
	for _, it := range itemRows {
		items[it.TransferID] = append(items[it.TransferID], entity.TransferItem{
			ID:                 it.ID,
			TransferID:         it.TransferID,
			ProductID:          it.ProductID,
			LotID:              it.LotID,
			Quantity:           it.Quantity,
			UnitCost:           it.UnitCost,
			DispatchMovementID: it.DispatchMovementID,
			ReceiveMovementID:  it.ReceiveMovementID,
		})
	}
	out := make([]*entity.Transfer, 0, len(rows))
	for _, t := range rows {
		out = append(out, &entity.Transfer{
			ID:             t.ID,
			TransferNumber: t.TransferNumber,
			FromLocationID: t.FromLocationID,
			ToLocationID:   t.ToLocationID,
			Status:         entity.TransferStatus(t.Status),
			Notes:          t.Notes,
			RequestedBy:    t.RequestedBy,
			ApprovedBy:     t.ApprovedBy,
			DispatchedBy:   t.DispatchedBy,
			ReceivedBy:     t.ReceivedBy,
			CancelledBy:    t.CancelledBy,
			RequestedAt:    t.RequestedAt,
			ApprovedAt:     t.ApprovedAt,
			DispatchedAt:   t.DispatchedAt,
			ReceivedAt:     t.ReceivedAt,
			CancelledAt:    t.CancelledAt,
			UpdatedAt:      t.UpdatedAt,
			Items:          items[t.ID],
		})
	}
	return out, nil
}
