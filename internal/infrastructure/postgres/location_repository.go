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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementação do catálogo de locais sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste um local; código duplicado devolve domain.ErrDuplicate.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, name, sector, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.Code, location.Name, location.Sector, location.Active,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtém um local por id (nil se não existe).
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, code, name, sector, active, created_at, updated_at FROM locations WHERE id = $1`
	var location entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(
		&location.ID, &location.Code, &location.Name, &location.Sector, &location.Active,
		&location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &location, nil
}

// List lista locais com paginação, em ordem de código.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, code, name, sector, active, created_at, updated_at
		FROM locations ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Location
	for rows.Next() {
		var location entity.Location
		if err := rows.Scan(&location.ID, &location.Code, &location.Name, &location.Sector,
			&location.Active, &location.CreatedAt, &location.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &location)
	}
	return list, rows.Err()
}
