package memory

import (
	"context"
	"sync"

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner executa a função sobre os próprios repositórios em memória, sob um
// mutex que serializa as "transações". Não há rollback: escritas parciais de
// uma função que falha permanecem visíveis, o que é aceitável nos testes
// porque os casos de uso validam antes de escrever.
type TxRunner struct {
	mu        sync.Mutex
	stockRepo *StockRecordRepo
	movRepo   *MovementRepo
}

// NewTxRunner constrói o executor sobre os repositórios informados.
func NewTxRunner(stockRepo *StockRecordRepo, movRepo *MovementRepo) *TxRunner {
	return &TxRunner{stockRepo: stockRepo, movRepo: movRepo}
}

func (t *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.stockRepo, t.movRepo)
}
