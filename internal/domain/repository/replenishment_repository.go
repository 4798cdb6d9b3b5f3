package repository

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// ReplenishmentFilter parâmetros de listagem de reposições.
type ReplenishmentFilter struct {
	ItemID   string
	Status   string
	Priority string
	Limit    int
	Offset   int
}

// ReplenishmentRepository porta de persistência do fluxo de reposição.
// Update aplica trava otimista: compara Version e devolve domain.ErrConflict
// se a linha mudou desde a leitura.
type ReplenishmentRepository interface {
	Create(ctx context.Context, record *entity.ReplenishmentRecord) error
	Update(ctx context.Context, record *entity.ReplenishmentRecord) error
	GetByID(ctx context.Context, id string) (*entity.ReplenishmentRecord, error)

	// FindOpenByStockRecord devolve a reposição não terminal do registro de
	// estoque, ou nil. Evita sugestões duplicadas.
	FindOpenByStockRecord(ctx context.Context, stockRecordID string) (*entity.ReplenishmentRecord, error)

	// List devolve reposições ordenadas por prioridade (urgente primeiro) e
	// data de sugestão ascendente.
	List(ctx context.Context, filter ReplenishmentFilter) ([]*entity.ReplenishmentRecord, error)
}
