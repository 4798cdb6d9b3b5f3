package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo implementação do fluxo de reposição sobre PostgreSQL
// (usável com pool ou tx). Update aplica trava otimista pela coluna version.
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

const replenishmentColumns = `id, item_id, stock_record_id, kind, status, priority,
	quantity_suggested, quantity_requested, quantity_fulfilled, suggested_date, requested_date,
	expected_delivery_date, actual_delivery_date, supplier_id, requester_id, approver_id,
	cancel_reason, version, created_at, updated_at`

// Create persiste uma reposição.
func (r *ReplenishmentRepo) Create(ctx context.Context, rec *entity.ReplenishmentRecord) error {
	query := `
		INSERT INTO replenishments (` + replenishmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ItemID, rec.StockRecordID, rec.Kind, rec.Status, rec.Priority,
		rec.QuantitySuggested, rec.QuantityRequested, rec.QuantityFulfilled,
		rec.SuggestedDate, rec.RequestedDate, rec.ExpectedDeliveryDate, rec.ActualDeliveryDate,
		nullString(rec.SupplierID), nullString(rec.RequesterID), nullString(rec.ApproverID),
		rec.CancelReason, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert replenishment: %w", err)
	}
	return nil
}

// Update persiste uma transição com trava otimista: se a versão no banco não
// for a carregada, nenhuma linha é afetada e devolve domain.ErrConflict.
func (r *ReplenishmentRepo) Update(ctx context.Context, rec *entity.ReplenishmentRecord) error {
	query := `
		UPDATE replenishments
		SET status = $2, priority = $3, quantity_requested = $4, quantity_fulfilled = $5,
			requested_date = $6, expected_delivery_date = $7, actual_delivery_date = $8,
			supplier_id = $9, requester_id = $10, approver_id = $11, cancel_reason = $12,
			version = version + 1, updated_at = $13
		WHERE id = $1 AND version = $14`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.Status, rec.Priority, rec.QuantityRequested, rec.QuantityFulfilled,
		rec.RequestedDate, rec.ExpectedDeliveryDate, rec.ActualDeliveryDate,
		nullString(rec.SupplierID), nullString(rec.RequesterID), nullString(rec.ApproverID),
		rec.CancelReason, rec.UpdatedAt, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("update replenishment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	rec.Version++
	return nil
}

// GetByID obtém uma reposição por id (nil se não existe).
func (r *ReplenishmentRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentRecord, error) {
	query := `SELECT ` + replenishmentColumns + ` FROM replenishments WHERE id = $1`
	rec, err := scanReplenishment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get replenishment: %w", err)
	}
	return rec, nil
}

// FindOpenByStockRecord devolve a reposição não terminal do registro, ou nil.
func (r *ReplenishmentRepo) FindOpenByStockRecord(ctx context.Context, stockRecordID string) (*entity.ReplenishmentRecord, error) {
	query := `SELECT ` + replenishmentColumns + `
		FROM replenishments
		WHERE stock_record_id = $1 AND status NOT IN ($2, $3)
		LIMIT 1`
	rec, err := scanReplenishment(r.q.QueryRow(ctx, query, stockRecordID,
		entity.ReplenishmentStatusReceived, entity.ReplenishmentStatusCancelled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open replenishment: %w", err)
	}
	return rec, nil
}

// List lista reposições ordenadas por prioridade (urgente primeiro) e data de
// sugestão ascendente.
func (r *ReplenishmentRepo) List(ctx context.Context, filter repository.ReplenishmentFilter) ([]*entity.ReplenishmentRecord, error) {
	query := `SELECT ` + replenishmentColumns + ` FROM replenishments WHERE 1=1`
	var args []any
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", pos)
		args = append(args, filter.Priority)
		pos++
	}
	query += `
		ORDER BY CASE priority
			WHEN 'URGENT' THEN 3
			WHEN 'HIGH' THEN 2
			WHEN 'NORMAL' THEN 1
			ELSE 0
		END DESC, suggested_date ASC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list replenishments: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReplenishmentRecord
	for rows.Next() {
		rec, err := scanReplenishment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan replenishment: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanReplenishment(row pgx.Row) (*entity.ReplenishmentRecord, error) {
	var rec entity.ReplenishmentRecord
	var supplier, requester, approver *string
	err := row.Scan(
		&rec.ID, &rec.ItemID, &rec.StockRecordID, &rec.Kind, &rec.Status, &rec.Priority,
		&rec.QuantitySuggested, &rec.QuantityRequested, &rec.QuantityFulfilled,
		&rec.SuggestedDate, &rec.RequestedDate, &rec.ExpectedDeliveryDate, &rec.ActualDeliveryDate,
		&supplier, &requester, &approver,
		&rec.CancelReason, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		rec.SupplierID = *supplier
	}
	if requester != nil {
		rec.RequesterID = *requester
	}
	if approver != nil {
		rec.ApproverID = *approver
	}
	return &rec, nil
}
