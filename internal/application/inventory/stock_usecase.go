package inventory

import (
	"context"
	"time"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// StockUseCase consultas sobre o razão de estoque. Somente leitura: as
// situações derivadas (abaixo do mínimo, zerado, vencido...) são calculadas
// a partir dos campos crus no momento da leitura e nunca persistidas.
type StockUseCase struct {
	stockRepo repository.StockRecordRepository
}

// NewStockUseCase constrói o caso de uso.
func NewStockUseCase(stockRepo repository.StockRecordRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo}
}

// GetByID devolve um registro com as situações derivadas.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockRecordResponse, error) {
	rec, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.StockRecordFromEntity(rec, time.Now())
	return &out, nil
}

// List lista registros pelo filtro informado (item, local, situação derivada).
func (uc *StockUseCase) List(ctx context.Context, filter repository.StockRecordFilter) ([]dto.StockRecordResponse, error) {
	records, err := uc.stockRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.StockRecordFromEntity(rec, now))
	}
	return out, nil
}
