package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
	"github.com/Guztaver/licitacao-sub002/internal/infrastructure/memory"
	"github.com/Guztaver/licitacao-sub002/pkg/logger"
)

type replFixture struct {
	uc        *inventory.ReplenishmentUseCase
	stockRepo *memory.StockRecordRepo
	movRepo   *memory.MovementRepo
	replRepo  *memory.ReplenishmentRepo
}

func newReplFixture(t *testing.T) *replFixture {
	t.Helper()
	f := &replFixture{
		stockRepo: memory.NewStockRecordRepository(),
		movRepo:   memory.NewMovementRepository(),
		replRepo:  memory.NewReplenishmentRepository(),
	}
	movementUC := inventory.NewMovementUseCase(
		memory.NewTxRunner(f.stockRepo, f.movRepo), f.stockRepo, f.movRepo)
	f.uc = inventory.NewReplenishmentUseCase(f.stockRepo, f.replRepo, movementUC, logger.Nop())
	return f
}

// seedStock registro com mínimo 20, ponto de reposição 15, sem máximo.
func (f *replFixture) seedStock(t *testing.T, onHand string) *entity.StockRecord {
	t.Helper()
	now := time.Now()
	rec := &entity.StockRecord{
		ID:              uuid.New().String(),
		ItemID:          "item-1",
		LocationID:      "loc-1",
		QuantityOnHand:  dec(onHand),
		QuantityMinimum: dec("20"),
		ReorderPoint:    dec("15"),
		LeadTimeDays:    7,
		AverageUnitCost: dec("2.00"),
		Status:          entity.StockStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, f.stockRepo.Create(context.Background(), rec))
	return rec
}

func (f *replFixture) onlySuggestion(t *testing.T, stockRecordID string) *entity.ReplenishmentRecord {
	t.Helper()
	repl, err := f.replRepo.FindOpenByStockRecord(context.Background(), stockRecordID)
	require.NoError(t, err)
	require.NotNil(t, repl)
	return repl
}

func TestGenerateSuggestions_CriaSugestaoParaRegistroAbaixoDoPonto(t *testing.T) {
	f := newReplFixture(t)
	rec := f.seedStock(t, "10") // abaixo do ponto de reposição 15

	created, skipped, err := f.uc.GenerateSuggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, skipped)

	repl := f.onlySuggestion(t, rec.ID)
	assert.Equal(t, entity.ReplenishmentStatusSuggested, repl.Status)
	assert.Equal(t, entity.ReplenishmentKindAutomatic, repl.Kind)
	// Sem máximo: sugestão = ponto de reposição × 2 − saldo = 30 − 10 = 20.
	assert.True(t, repl.QuantitySuggested.Equal(dec("20")))
	// Saldo 10 = metade do mínimo 20 → alta prioridade.
	assert.Equal(t, entity.ReplenishmentPriorityHigh, repl.Priority)

	// Repetir com a sugestão aberta não duplica.
	created, _, err = f.uc.GenerateSuggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestGenerateSuggestions_QuantidadeUsaMaximoQuandoMaior(t *testing.T) {
	f := newReplFixture(t)
	rec := f.seedStock(t, "5")
	max := dec("100")
	rec.QuantityMaximum = &max
	require.NoError(t, f.stockRepo.Update(context.Background(), rec))

	created, _, err := f.uc.GenerateSuggestions(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, created)

	repl := f.onlySuggestion(t, rec.ID)
	// max(100−5, 30−5) = 95.
	assert.True(t, repl.QuantitySuggested.Equal(dec("95")))
}

func TestGenerateSuggestions_SaldoZeradoEhUrgente(t *testing.T) {
	f := newReplFixture(t)
	rec := f.seedStock(t, "0")

	created, _, err := f.uc.GenerateSuggestions(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, created)
	assert.Equal(t, entity.ReplenishmentPriorityUrgent, f.onlySuggestion(t, rec.ID).Priority)
}

func TestGenerateSuggestions_IgnoraRegistroSaudavel(t *testing.T) {
	f := newReplFixture(t)
	f.seedStock(t, "50")

	created, _, err := f.uc.GenerateSuggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

// Fluxo completo: sugestão → aprovação → solicitação → recebimentos parciais
// até o total, com o saldo creditado pelo motor de movimentações.
func TestReplenishment_FluxoCompleto(t *testing.T) {
	f := newReplFixture(t)
	ctx := context.Background()
	rec := f.seedStock(t, "10")

	created, _, err := f.uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	repl := f.onlySuggestion(t, rec.ID)

	// Aprovação com quantidade ajustada.
	qty := dec("50")
	aprovada, err := f.uc.Approve(ctx, repl.ID, &qty, "gestor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusApproved, aprovada.Status)
	assert.True(t, aprovada.QuantityRequested.Equal(dec("50")))
	assert.Equal(t, "gestor-1", aprovada.ApproverID)

	// Solicitação ao fornecedor.
	entrega := time.Now().AddDate(0, 0, 7)
	solicitada, err := f.uc.Request(ctx, repl.ID, "fornecedor-1", &entrega, "comprador-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusRequested, solicitada.Status)
	require.NotNil(t, solicitada.RequestedDate)

	// Despacho.
	emTransito, err := f.uc.MarkInTransit(ctx, repl.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusInTransit, emTransito.Status)

	// Primeiro recebimento: 30 de 50.
	parcial, err := f.uc.Receive(ctx, repl.ID, dec("30"), decPtr("3.00"), "nf-123", "almox-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusPartiallyReceived, parcial.Status)
	assert.True(t, parcial.QuantityFulfilled.Equal(dec("30")))
	assert.Nil(t, parcial.ActualDeliveryDate)

	atual, _ := f.stockRepo.GetByID(ctx, rec.ID)
	assert.True(t, atual.QuantityOnHand.Equal(dec("40")), "10 + 30 recebidos")

	// Segundo recebimento fecha o pedido; excesso é truncado ao restante.
	final, err := f.uc.Receive(ctx, repl.ID, dec("25"), decPtr("3.00"), "nf-124", "almox-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusReceived, final.Status)
	assert.True(t, final.QuantityFulfilled.Equal(dec("50")), "atendido nunca excede o solicitado")
	require.NotNil(t, final.ActualDeliveryDate)

	atual, _ = f.stockRepo.GetByID(ctx, rec.ID)
	assert.True(t, atual.QuantityOnHand.Equal(dec("60")), "apenas os 20 restantes creditados")

	// O crédito veio por movimentações de entrada confirmadas.
	movs, err := f.movRepo.List(ctx, repository.MovementFilter{StockRecordID: rec.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementKindInbound, m.Kind)
		assert.Equal(t, entity.MovementStatusConfirmed, m.Status)
		assert.Equal(t, "recebimento de reposição", m.Reason)
	}

	// Terminal: receber de novo é rejeitado.
	_, err = f.uc.Receive(ctx, repl.ID, dec("1"), nil, "", "almox-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReplenishment_TransicoesInvalidas(t *testing.T) {
	f := newReplFixture(t)
	ctx := context.Background()
	rec := f.seedStock(t, "10")

	_, _, err := f.uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	repl := f.onlySuggestion(t, rec.ID)

	// Pular etapas é rejeitado.
	_, err = f.uc.Request(ctx, repl.ID, "fornecedor-1", nil, "comprador-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "solicitar sem aprovar")
	_, err = f.uc.MarkInTransit(ctx, repl.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "despachar sem solicitar")
	_, err = f.uc.Receive(ctx, repl.ID, dec("10"), nil, "", "almox-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "receber sem solicitar")

	// Aprovar com quantidade inválida.
	zero := dec("0")
	_, err = f.uc.Approve(ctx, repl.ID, &zero, "gestor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Aprovação sem quantidade assume a sugerida.
	aprovada, err := f.uc.Approve(ctx, repl.ID, nil, "gestor-1")
	require.NoError(t, err)
	assert.True(t, aprovada.QuantityRequested.Equal(aprovada.QuantitySuggested))

	// Aprovar duas vezes é rejeitado.
	_, err = f.uc.Approve(ctx, repl.ID, nil, "gestor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Solicitar sem fornecedor é rejeitado.
	_, err = f.uc.Request(ctx, repl.ID, "", nil, "comprador-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishment_CancelamentoDeNaoTerminal(t *testing.T) {
	f := newReplFixture(t)
	ctx := context.Background()
	rec := f.seedStock(t, "10")

	_, _, err := f.uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	repl := f.onlySuggestion(t, rec.ID)

	// Motivo obrigatório.
	_, err = f.uc.Cancel(ctx, repl.ID, "", "gestor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cancelada, err := f.uc.Cancel(ctx, repl.ID, "licitação deserta", "gestor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusCancelled, cancelada.Status)
	assert.Equal(t, "licitação deserta", cancelada.CancelReason)

	// Cancelar de novo é rejeitado (terminal).
	_, err = f.uc.Cancel(ctx, repl.ID, "outro motivo", "gestor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Registro ainda abaixo do ponto volta a receber sugestão nova.
	created, _, err := f.uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestReplenishment_TravaOtimista(t *testing.T) {
	f := newReplFixture(t)
	ctx := context.Background()
	rec := f.seedStock(t, "10")

	_, _, err := f.uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	repl := f.onlySuggestion(t, rec.ID)

	// Duas cópias da mesma versão: a segunda escrita perde.
	copia1, err := f.replRepo.GetByID(ctx, repl.ID)
	require.NoError(t, err)
	copia2, err := f.replRepo.GetByID(ctx, repl.ID)
	require.NoError(t, err)

	copia1.Status = entity.ReplenishmentStatusApproved
	require.NoError(t, f.replRepo.Update(ctx, copia1))

	copia2.Status = entity.ReplenishmentStatusCancelled
	err = f.replRepo.Update(ctx, copia2)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// staleReplRepo devolve ErrConflict na próxima escrita, simulando a perda de
// uma corrida entre dois recebimentos.
type staleReplRepo struct {
	*memory.ReplenishmentRepo
	failNext bool
}

func (r *staleReplRepo) Update(ctx context.Context, repl *entity.ReplenishmentRecord) error {
	if r.failNext {
		r.failNext = false
		return domain.ErrConflict
	}
	return r.ReplenishmentRepo.Update(ctx, repl)
}

// Um conflito de versão no recebimento aborta antes do crédito: nenhuma
// movimentação é gravada e o saldo fica intacto. A repetição com estado
// atualizado credita uma única vez.
func TestReceive_ConflitoDeVersaoNaoCreditaSaldo(t *testing.T) {
	stockRepo := memory.NewStockRecordRepository()
	movRepo := memory.NewMovementRepository()
	replRepo := &staleReplRepo{ReplenishmentRepo: memory.NewReplenishmentRepository()}
	movementUC := inventory.NewMovementUseCase(
		memory.NewTxRunner(stockRepo, movRepo), stockRepo, movRepo)
	uc := inventory.NewReplenishmentUseCase(stockRepo, replRepo, movementUC, logger.Nop())

	ctx := context.Background()
	now := time.Now()
	rec := &entity.StockRecord{
		ID:              uuid.New().String(),
		ItemID:          "item-1",
		LocationID:      "loc-1",
		QuantityOnHand:  dec("10"),
		QuantityMinimum: dec("20"),
		ReorderPoint:    dec("15"),
		AverageUnitCost: dec("2.00"),
		Status:          entity.StockStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, stockRepo.Create(ctx, rec))

	_, _, err := uc.GenerateSuggestions(ctx)
	require.NoError(t, err)
	repl, err := replRepo.FindOpenByStockRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, repl)

	_, err = uc.Approve(ctx, repl.ID, nil, "gestor-1")
	require.NoError(t, err)
	_, err = uc.Request(ctx, repl.ID, "fornecedor-1", nil, "comprador-1")
	require.NoError(t, err)

	replRepo.failNext = true
	_, err = uc.Receive(ctx, repl.ID, dec("5"), decPtr("3.00"), "nf-1", "almox-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	atual, err := stockRepo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, atual.QuantityOnHand.Equal(dec("10")), "saldo intacto após conflito")
	movs, err := movRepo.List(ctx, repository.MovementFilter{StockRecordID: rec.ID})
	require.NoError(t, err)
	assert.Empty(t, movs, "conflito não grava movimentação")

	depois, err := replRepo.GetByID(ctx, repl.ID)
	require.NoError(t, err)
	assert.True(t, depois.QuantityFulfilled.IsZero(), "atendido intacto após conflito")

	// Repetição com estado atualizado credita uma única vez.
	recebida, err := uc.Receive(ctx, repl.ID, dec("5"), decPtr("3.00"), "nf-1", "almox-1")
	require.NoError(t, err)
	assert.True(t, recebida.QuantityFulfilled.Equal(dec("5")))
	atual, _ = stockRepo.GetByID(ctx, rec.ID)
	assert.True(t, atual.QuantityOnHand.Equal(dec("15")))
	movs, _ = movRepo.List(ctx, repository.MovementFilter{StockRecordID: rec.ID})
	assert.Len(t, movs, 1)
}

func TestReplenishment_ListaOrdenadaPorPrioridade(t *testing.T) {
	f := newReplFixture(t)
	ctx := context.Background()
	now := time.Now()

	for i, p := range []string{
		entity.ReplenishmentPriorityNormal,
		entity.ReplenishmentPriorityUrgent,
		entity.ReplenishmentPriorityHigh,
	} {
		require.NoError(t, f.replRepo.Create(ctx, &entity.ReplenishmentRecord{
			ID:            uuid.New().String(),
			ItemID:        "item-1",
			StockRecordID: uuid.New().String(),
			Status:        entity.ReplenishmentStatusSuggested,
			Priority:      p,
			SuggestedDate: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := f.uc.List(ctx, repository.ReplenishmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entity.ReplenishmentPriorityUrgent, list[0].Priority)
	assert.Equal(t, entity.ReplenishmentPriorityHigh, list[1].Priority)
	assert.Equal(t, entity.ReplenishmentPriorityNormal, list[2].Priority)
}
