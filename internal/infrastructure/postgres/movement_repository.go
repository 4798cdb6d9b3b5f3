package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementação do histórico de movimentações sobre PostgreSQL
// (usável com pool ou tx). A tabela é append-only; o único UPDATE permitido é
// a marcação de estorno.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, correlation_id, stock_record_id, item_id, location_id, kind, status,
	quantity, balance_before, balance_after, unit_cost, total_cost, source_document, reason,
	origin_location_id, destination_location_id, reversed_by_id, reversed_at, actor_id, occurred_at, created_at`

// Create persiste uma movimentação.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CorrelationID, m.StockRecordID, m.ItemID, m.LocationID, m.Kind, m.Status,
		m.Quantity, m.BalanceBefore, m.BalanceAfter, m.UnitCost, m.TotalCost,
		m.SourceDocument, m.Reason, nullString(m.OriginLocationID), nullString(m.DestinationLocationID),
		nullString(m.ReversedByID), m.ReversedAt, m.ActorID, m.OccurredAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtém uma movimentação por id (nil se não existe).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// MarkReversed liga a movimentação ao lançamento compensatório; quantidade,
// saldo e status nunca mudam.
func (r *MovementRepo) MarkReversed(ctx context.Context, id, reversalID string, reversedAt time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET reversed_by_id = $2, reversed_at = $3 WHERE id = $1`,
		id, reversalID, reversedAt,
	)
	if err != nil {
		return fmt.Errorf("mark movement reversed: %w", err)
	}
	return nil
}

// List lista movimentações pelo filtro, mais recentes primeiro.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.StockRecordID != "" {
		query += fmt.Sprintf(" AND stock_record_id = $%d", pos)
		args = append(args, filter.StockRecordID)
		pos++
	}
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
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumConfirmedByStockRecord soma as quantidades confirmadas do registro.
func (r *MovementRepo) SumConfirmedByStockRecord(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE stock_record_id = $1 AND status = $2`
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, query, stockRecordID, entity.MovementStatusConfirmed).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// LastConfirmedAt data da última movimentação confirmada do registro
// (nil se nunca houve).
func (r *MovementRepo) LastConfirmedAt(ctx context.Context, stockRecordID string) (*time.Time, error) {
	query := `
		SELECT MAX(occurred_at)
		FROM stock_movements
		WHERE stock_record_id = $1 AND status = $2`
	var last *time.Time
	err := r.q.QueryRow(ctx, query, stockRecordID, entity.MovementStatusConfirmed).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("last movement: %w", err)
	}
	return last, nil
}

// StatsByItem agregados (contagem, média e desvio padrão do valor absoluto
// das quantidades) das movimentações confirmadas do item desde a data.
func (r *MovementRepo) StatsByItem(ctx context.Context, itemID string, since time.Time) (*repository.MovementStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(ABS(quantity)), 0), COALESCE(STDDEV_POP(ABS(quantity)), 0)
		FROM stock_movements
		WHERE item_id = $1 AND status = $2 AND occurred_at >= $3`
	var stats repository.MovementStats
	err := r.q.QueryRow(ctx, query, itemID, entity.MovementStatusConfirmed, since).Scan(
		&stats.Count, &stats.Mean, &stats.StdDev,
	)
	if err != nil {
		return nil, fmt.Errorf("movement stats: %w", err)
	}
	return &stats, nil
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var origin, destination, reversedBy *string
	err := row.Scan(
		&m.ID, &m.CorrelationID, &m.StockRecordID, &m.ItemID, &m.LocationID, &m.Kind, &m.Status,
		&m.Quantity, &m.BalanceBefore, &m.BalanceAfter, &m.UnitCost, &m.TotalCost,
		&m.SourceDocument, &m.Reason, &origin, &destination, &reversedBy, &m.ReversedAt,
		&m.ActorID, &m.OccurredAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if origin != nil {
		m.OriginLocationID = *origin
	}
	if destination != nil {
		m.DestinationLocationID = *destination
	}
	if reversedBy != nil {
		m.ReversedByID = *reversedBy
	}
	return &m, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
