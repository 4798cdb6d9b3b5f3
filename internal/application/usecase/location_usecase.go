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

// LocationUseCase cadastro básico do catálogo de locais de armazenagem.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase constrói o caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create cadastra um local.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Sector:    in.Sector,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	out := dto.LocationFromEntity(location)
	return &out, nil
}

// GetByID devolve um local.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.LocationFromEntity(location)
	return &out, nil
}

// List lista locais com paginação.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) ([]dto.LocationResponse, error) {
	locations, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, location := range locations {
		out = append(out, dto.LocationFromEntity(location))
	}
	return out, nil
}
