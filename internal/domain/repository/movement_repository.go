package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// MovementFilter parâmetros de listagem de movimentações.
type MovementFilter struct {
	StockRecordID string
	ItemID        string
	LocationID    string
	Kind          string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// MovementStats agregados do histórico de movimentações de um item, usados na
// detecção de movimentações atípicas.
type MovementStats struct {
	Count  int64
	Mean   decimal.Decimal // média do valor absoluto das quantidades
	StdDev decimal.Decimal
}

// MovementRepository porta de persistência do histórico de movimentações
// (append-only). MarkReversed existe apenas para a marcação de estorno; as
// colunas de quantidade, saldo e status nunca mudam após a confirmação.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementRecord) error
	GetByID(ctx context.Context, id string) (*entity.MovementRecord, error)

	// MarkReversed liga a movimentação ao lançamento compensatório que a
	// estornou. A movimentação permanece confirmada.
	MarkReversed(ctx context.Context, id, reversalID string, reversedAt time.Time) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementRecord, error)

	// SumConfirmedByStockRecord soma as quantidades (com sinal) das
	// movimentações confirmadas de um registro; deve bater com QuantityOnHand.
	SumConfirmedByStockRecord(ctx context.Context, stockRecordID string) (decimal.Decimal, error)

	// LastConfirmedAt data da última movimentação confirmada do registro
	// (nil se nunca houve), usada na regra de lote parado.
	LastConfirmedAt(ctx context.Context, stockRecordID string) (*time.Time, error)

	// StatsByItem agregados das movimentações confirmadas do item desde a data
	// indicada.
	StatsByItem(ctx context.Context, itemID string, since time.Time) (*MovementStats, error)
}
