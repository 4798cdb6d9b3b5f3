package repository

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// AlertFilter parâmetros de listagem de alertas.
type AlertFilter struct {
	ItemID   string
	Kind     string
	Status   string
	Severity string
	Limit    int
	Offset   int
}

// AlertRepository porta de persistência de alertas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.AlertRecord) error
	Update(ctx context.Context, alert *entity.AlertRecord) error
	GetByID(ctx context.Context, id string) (*entity.AlertRecord, error)
	List(ctx context.Context, filter AlertFilter) ([]*entity.AlertRecord, error)

	// FindOpenByItemAndKind devolve o alerta aberto (OPEN ou ACKNOWLEDGED) do
	// par (item, tipo), ou nil. Sustenta a deduplicação.
	FindOpenByItemAndKind(ctx context.Context, itemID, kind string) (*entity.AlertRecord, error)
}
