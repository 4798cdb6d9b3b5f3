package inventory

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa transação. Garante a atomicidade do motor de
// movimentações: ou todas as escritas (saldos + lançamentos) são confirmadas,
// ou nenhuma é observável.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementObserver recebe movimentações recém-confirmadas. Usado para disparar
// a avaliação de alertas após a escrita, fora da transação; erros do observador
// nunca desfazem a movimentação.
type MovementObserver interface {
	MovementRecorded(ctx context.Context, movement *MovementResult)
}
