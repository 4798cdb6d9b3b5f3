package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementação do razão de estoque sobre PostgreSQL
// (usável com pool ou tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `id, item_id, location_id, lot, quantity_on_hand, quantity_reserved,
	quantity_minimum, quantity_maximum, reorder_point, lead_time_days, average_unit_cost,
	expiration_date, status, created_at, updated_at`

// Create insere um registro de estoque. Violação da chave (item, local, lote)
// devolve domain.ErrDuplicate.
func (r *StockRecordRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (` + stockRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ItemID, rec.LocationID, rec.Lot,
		rec.QuantityOnHand, rec.QuantityReserved, rec.QuantityMinimum, nullDecimal(rec.QuantityMaximum),
		rec.ReorderPoint, rec.LeadTimeDays, rec.AverageUnitCost,
		rec.ExpirationDate, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// Update persiste o estado atual do registro (chamado com a linha bloqueada).
func (r *StockRecordRepo) Update(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET quantity_on_hand = $2, quantity_reserved = $3, quantity_minimum = $4,
			quantity_maximum = $5, reorder_point = $6, lead_time_days = $7,
			average_unit_cost = $8, expiration_date = $9, status = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.QuantityOnHand, rec.QuantityReserved, rec.QuantityMinimum,
		nullDecimal(rec.QuantityMaximum), rec.ReorderPoint, rec.LeadTimeDays,
		rec.AverageUnitCost, rec.ExpirationDate, rec.Status, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}
	return nil
}

// GetByID obtém um registro por id (nil se não existe).
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get stock record")
}

// GetByIDForUpdate obtém o registro bloqueando a linha (SELECT FOR UPDATE).
func (r *StockRecordRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get stock record for update")
}

// GetByKey obtém o registro da tupla (item, local, lote), nil se não existe.
func (r *StockRecordRepo) GetByKey(ctx context.Context, itemID, locationID, lot string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE item_id = $1 AND location_id = $2 AND lot = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, itemID, locationID, lot), "get stock record by key")
}

// List lista registros pelo filtro. As situações derivadas são expressas como
// predicados sobre as colunas cruas; nada é desnormalizado.
func (r *StockRecordRepo) List(ctx context.Context, filter repository.StockRecordFilter) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE 1=1`
	var args []any
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	switch filter.DerivedStatus {
	case repository.StockFilterLowStock:
		query += " AND quantity_on_hand > 0 AND quantity_on_hand <= quantity_minimum"
	case repository.StockFilterZeroStock:
		query += " AND quantity_on_hand = 0"
	case repository.StockFilterExcessStock:
		query += " AND quantity_maximum IS NOT NULL AND quantity_on_hand > quantity_maximum"
	case repository.StockFilterExpired:
		query += " AND expiration_date IS NOT NULL AND expiration_date < now()"
	case repository.StockFilterExpiring:
		days := filter.ExpiringDays
		if days <= 0 {
			days = 30
		}
		query += fmt.Sprintf(" AND expiration_date >= now() AND expiration_date <= now() + interval '%d days'", days)
	case repository.StockFilterBelowReorder:
		query += " AND quantity_on_hand <= reorder_point"
	}
	query += " ORDER BY item_id, location_id, lot"
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListAtOrBelowReorderPoint devolve os registros no ponto de reposição ou
// abaixo, ordenados pelo maior déficit primeiro.
func (r *StockRecordRepo) ListAtOrBelowReorderPoint(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE quantity_on_hand <= reorder_point AND status = $1
		ORDER BY (reorder_point - quantity_on_hand) DESC`
	rows, err := r.q.Query(ctx, query, entity.StockStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list below reorder point: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *StockRecordRepo) scanOne(row pgx.Row, op string) (*entity.StockRecord, error) {
	rec, err := scanStockRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

func (r *StockRecordRepo) scanAll(rows pgx.Rows) ([]*entity.StockRecord, error) {
	var list []*entity.StockRecord
	for rows.Next() {
		rec, err := scanStockRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	var max decimal.NullDecimal
	err := row.Scan(
		&rec.ID, &rec.ItemID, &rec.LocationID, &rec.Lot,
		&rec.QuantityOnHand, &rec.QuantityReserved, &rec.QuantityMinimum, &max,
		&rec.ReorderPoint, &rec.LeadTimeDays, &rec.AverageUnitCost,
		&rec.ExpirationDate, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if max.Valid {
		rec.QuantityMaximum = &max.Decimal
	}
	return &rec, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
