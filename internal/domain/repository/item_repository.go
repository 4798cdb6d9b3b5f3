package repository

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// ItemRepository porta de persistência do catálogo de itens.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
