package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementação de alertas sobre PostgreSQL (usável com pool ou tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, item_id, stock_record_id, kind, severity, status, title, message,
	raised_at, acknowledged_at, acknowledged_by, resolved_at, resolved_by, resolution_note`

// Create persiste um alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.AlertRecord) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.StockRecordID, a.Kind, a.Severity, a.Status, a.Title, a.Message,
		a.RaisedAt, a.AcknowledgedAt, nullString(a.AcknowledgedBy),
		a.ResolvedAt, nullString(a.ResolvedBy), a.ResolutionNote,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Update persiste as transições de reconhecimento/resolução.
func (r *AlertRepo) Update(ctx context.Context, a *entity.AlertRecord) error {
	query := `
		UPDATE stock_alerts
		SET status = $2, acknowledged_at = $3, acknowledged_by = $4,
			resolved_at = $5, resolved_by = $6, resolution_note = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Status, a.AcknowledgedAt, nullString(a.AcknowledgedBy),
		a.ResolvedAt, nullString(a.ResolvedBy), a.ResolutionNote,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// GetByID obtém um alerta por id (nil se não existe).
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// FindOpenByItemAndKind devolve o alerta aberto do par (item, tipo), ou nil.
func (r *AlertRepo) FindOpenByItemAndKind(ctx context.Context, itemID, kind string) (*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE item_id = $1 AND kind = $2 AND status IN ($3, $4)
		LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, itemID, kind,
		entity.AlertStatusOpen, entity.AlertStatusAcknowledged))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open alert: %w", err)
	}
	return a, nil
}

// List lista alertas pelo filtro, mais recentes primeiro.
func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE 1=1`
	var args []any
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.Severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", pos)
		args = append(args, filter.Severity)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY raised_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.AlertRecord
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.AlertRecord, error) {
	var a entity.AlertRecord
	var ackBy, resBy *string
	err := row.Scan(
		&a.ID, &a.ItemID, &a.StockRecordID, &a.Kind, &a.Severity, &a.Status, &a.Title, &a.Message,
		&a.RaisedAt, &a.AcknowledgedAt, &ackBy, &a.ResolvedAt, &resBy, &a.ResolutionNote,
	)
	if err != nil {
		return nil, err
	}
	if ackBy != nil {
		a.AcknowledgedBy = *ackBy
	}
	if resBy != nil {
		a.ResolvedBy = *resBy
	}
	return &a, nil
}
