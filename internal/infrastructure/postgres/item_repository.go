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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementação do catálogo de itens sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste um item; código duplicado devolve domain.ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, description, unit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Description, item.Unit, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtém um item por id (nil se não existe).
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT id, code, description, unit, active, created_at, updated_at FROM items WHERE id = $1`
	var item entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Code, &item.Description, &item.Unit, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// List lista itens com paginação, em ordem de código.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, code, description, unit, active, created_at, updated_at
		FROM items ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var item entity.Item
		if err := rows.Scan(&item.ID, &item.Code, &item.Description, &item.Unit,
			&item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
