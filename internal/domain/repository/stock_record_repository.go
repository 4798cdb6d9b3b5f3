package repository

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// Filtros derivados para listagem de registros de estoque. Os valores espelham
// os métodos derivados da entidade; nada disso é persistido.
const (
	StockFilterLowStock     = "low_stock"
	StockFilterZeroStock    = "zero_stock"
	StockFilterExcessStock  = "excess_stock"
	StockFilterExpired      = "expired"
	StockFilterExpiring     = "expiring"
	StockFilterBelowReorder = "below_reorder"
)

// StockRecordFilter parâmetros de listagem de registros de estoque.
type StockRecordFilter struct {
	ItemID        string
	LocationID    string
	DerivedStatus string // um dos StockFilter*; vazio = todos
	ExpiringDays  int    // horizonte para StockFilterExpiring
	Limit         int
	Offset        int
}

// StockRecordRepository porta de persistência do razão de estoque.
// GetByIDForUpdate bloqueia a linha (SELECT FOR UPDATE); é o único ponto de
// serialização do subsistema e só deve ser usado dentro de transação.
type StockRecordRepository interface {
	Create(ctx context.Context, record *entity.StockRecord) error
	Update(ctx context.Context, record *entity.StockRecord) error
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByKey(ctx context.Context, itemID, locationID, lot string) (*entity.StockRecord, error)
	List(ctx context.Context, filter StockRecordFilter) ([]*entity.StockRecord, error)

	// ListAtOrBelowReorderPoint devolve os registros com saldo no ponto de
	// reposição ou abaixo, ordenados pelo maior déficit primeiro.
	ListAtOrBelowReorderPoint(ctx context.Context) ([]*entity.StockRecord, error)
}
