package repository

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// LocationRepository porta de persistência do catálogo de locais.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
}
