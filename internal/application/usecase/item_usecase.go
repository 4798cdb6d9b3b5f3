package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// ItemUseCase cadastro básico do catálogo de itens.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase constrói o caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create cadastra um item.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Code == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Description: in.Description,
		Unit:        in.Unit,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	out := dto.ItemFromEntity(item)
	return &out, nil
}

// GetByID devolve um item.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ItemFromEntity(item)
	return &out, nil
}

// List lista itens com paginação.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) ([]dto.ItemResponse, error) {
	items, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ItemFromEntity(item))
	}
	return out, nil
}
