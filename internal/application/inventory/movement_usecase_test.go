package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// newEngine monta o motor de movimentações sobre repositórios em memória.
func newEngine(t *testing.T) (*inventory.MovementUseCase, *memory.StockRecordRepo, *memory.MovementRepo) {
	t.Helper()
	stockRepo := memory.NewStockRecordRepository()
	movRepo := memory.NewMovementRepository()
	uc := inventory.NewMovementUseCase(memory.NewTxRunner(stockRepo, movRepo), stockRepo, movRepo)
	return uc, stockRepo, movRepo
}

// seedRecord cria um registro de estoque ativo com os valores informados.
func seedRecord(t *testing.T, repo *memory.StockRecordRepo, itemID, locationID, onHand, avgCost string) *entity.StockRecord {
	t.Helper()
	now := time.Now()
	rec := &entity.StockRecord{
		ID:              uuid.New().String(),
		ItemID:          itemID,
		LocationID:      locationID,
		QuantityOnHand:  dec(onHand),
		QuantityMinimum: dec("20"),
		ReorderPoint:    dec("15"),
		LeadTimeDays:    7,
		AverageUnitCost: dec(avgCost),
		Status:          entity.StockStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestRegisterMovement_InboundAtualizaSaldoECustoMedio(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindInbound,
		StockRecordID: rec.ID,
		Quantity:      dec("100"),
		UnitCost:      decPtr("4.00"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	require.Len(t, result.Movements, 1)

	mov := result.Movements[0]
	assert.Equal(t, entity.MovementKindInbound, mov.Kind)
	assert.Equal(t, entity.MovementStatusConfirmed, mov.Status)
	assert.True(t, mov.BalanceBefore.Equal(dec("100")))
	assert.True(t, mov.BalanceAfter.Equal(dec("200")))

	atual, err := stockRepo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, atual.QuantityOnHand.Equal(dec("200")))
	// Custo médio ponderado: (100*2 + 100*4) / 200 = 3.
	assert.True(t, atual.AverageUnitCost.Equal(dec("3")))
}

func TestRegisterMovement_OutboundInsuficienteNaoAlteraSaldo(t *testing.T) {
	uc, stockRepo, movRepo := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "10", "2.00")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("11"),
		ActorID:       "actor-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	atual, err := stockRepo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, atual.QuantityOnHand.Equal(dec("10")), "saldo não pode mudar em rejeição")

	sum, err := movRepo.SumConfirmedByStockRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), "nenhum lançamento pode existir")
}

func TestRegisterMovement_OutboundRegistraSaldosAntesDepois(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "50", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("30"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	mov := result.Movements[0]
	assert.True(t, mov.Quantity.Equal(dec("-30")), "saída é delta negativo")
	assert.True(t, mov.BalanceBefore.Equal(dec("50")))
	assert.True(t, mov.BalanceAfter.Equal(dec("20")))
}

func TestRegisterMovement_AjusteNegativoAbaixoDeZeroRejeitado(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "5", "2.00")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindAdjustment,
		StockRecordID: rec.ID,
		Quantity:      dec("-6"),
		ActorID:       "actor-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Zerar exato é permitido.
	_, err = uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindAdjustment,
		StockRecordID: rec.ID,
		Quantity:      dec("-5"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	atual, _ := stockRepo.GetByID(context.Background(), rec.ID)
	assert.True(t, atual.QuantityOnHand.IsZero())
}

func TestRegisterMovement_TransferenciaConservaQuantidade(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	origem := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:                  inventory.KindTransfer,
		StockRecordID:         origem.ID,
		DestinationLocationID: "loc-2",
		Quantity:              dec("40"),
		ActorID:               "actor-1",
	})
	require.NoError(t, err)
	require.Len(t, result.Movements, 2, "transferência grava duas pernas")

	out, in := result.Movements[0], result.Movements[1]
	assert.Equal(t, entity.MovementKindTransferOut, out.Kind)
	assert.Equal(t, entity.MovementKindTransferIn, in.Kind)
	assert.Equal(t, out.CorrelationID, in.CorrelationID, "pernas compartilham correlation id")
	assert.True(t, out.Quantity.Add(in.Quantity).IsZero(), "soma das pernas é zero")

	origemAtual, _ := stockRepo.GetByID(context.Background(), origem.ID)
	destino, err := stockRepo.GetByKey(context.Background(), "item-1", "loc-2", "")
	require.NoError(t, err)
	require.NotNil(t, destino, "registro de destino criado pelo motor")
	assert.True(t, origemAtual.QuantityOnHand.Equal(dec("60")))
	assert.True(t, destino.QuantityOnHand.Equal(dec("40")))

	// Limiares herdados da origem, não zerados.
	assert.True(t, destino.QuantityMinimum.Equal(origem.QuantityMinimum))
	assert.True(t, destino.ReorderPoint.Equal(origem.ReorderPoint))
	assert.Equal(t, origem.LeadTimeDays, destino.LeadTimeDays)
	assert.True(t, destino.AverageUnitCost.Equal(dec("2.00")))
}

func TestRegisterMovement_TransferenciaSemSaldoNaoCriaNada(t *testing.T) {
	uc, stockRepo, movRepo := newEngine(t)
	origem := seedRecord(t, stockRepo, "item-1", "loc-1", "10", "2.00")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:                  inventory.KindTransfer,
		StockRecordID:         origem.ID,
		DestinationLocationID: "loc-2",
		Quantity:              dec("50"),
		ActorID:               "actor-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	origemAtual, _ := stockRepo.GetByID(context.Background(), origem.ID)
	assert.True(t, origemAtual.QuantityOnHand.Equal(dec("10")))

	sum, _ := movRepo.SumConfirmedByStockRecord(context.Background(), origem.ID)
	assert.True(t, sum.IsZero(), "nenhuma perna pode ficar gravada")

	destino, err := stockRepo.GetByKey(context.Background(), "item-1", "loc-2", "")
	require.NoError(t, err)
	assert.Nil(t, destino, "transferência recusada não cria registro de destino")
}

func TestRegisterMovement_TransferenciaParaMesmoLocalRejeitada(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	origem := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:                  inventory.KindTransfer,
		StockRecordID:         origem.ID,
		DestinationLocationID: "loc-1",
		Quantity:              dec("10"),
		ActorID:               "actor-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_RegistroBloqueadoRejeitado(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")
	rec.Status = entity.StockStatusBlocked
	require.NoError(t, stockRepo.Update(context.Background(), rec))

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("1"),
		ActorID:       "actor-1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterMovement_Validacao(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	casos := []inventory.MovementInput{
		{Kind: entity.MovementKindInbound, StockRecordID: rec.ID, Quantity: dec("10"), ActorID: "a"},                           // entrada sem custo
		{Kind: entity.MovementKindInbound, StockRecordID: rec.ID, Quantity: dec("0"), UnitCost: decPtr("1"), ActorID: "a"},     // quantidade zero
		{Kind: entity.MovementKindOutbound, StockRecordID: rec.ID, Quantity: dec("-5"), ActorID: "a"},                          // saída negativa
		{Kind: entity.MovementKindAdjustment, StockRecordID: rec.ID, Quantity: dec("0"), ActorID: "a"},                         // ajuste zero
		{Kind: inventory.KindTransfer, StockRecordID: rec.ID, Quantity: dec("10"), ActorID: "a"},                               // sem destino
		{Kind: "UNKNOWN", StockRecordID: rec.ID, Quantity: dec("10"), ActorID: "a"},                                            // tipo inválido
		{Kind: entity.MovementKindOutbound, StockRecordID: rec.ID, Quantity: dec("5")},                                         // sem ator
	}
	for i, in := range casos {
		_, err := uc.RegisterMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: uuid.New().String(),
		Quantity:      dec("5"),
		ActorID:       "a",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverseMovement_GeraCompensatoriaEMarcaOriginal(t *testing.T) {
	uc, stockRepo, movRepo := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("30"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	original := result.Movements[0]

	reversed, err := uc.ReverseMovement(context.Background(), original.ID, "lançamento errado", "actor-2")
	require.NoError(t, err)
	require.Len(t, reversed.Movements, 1)

	comp := reversed.Movements[0]
	assert.Equal(t, entity.MovementKindAdjustment, comp.Kind, "estorno é lançamento compensatório")
	assert.Equal(t, original.CorrelationID, comp.CorrelationID, "estorno herda o correlation id")
	assert.True(t, comp.Quantity.Equal(dec("30")), "quantidade oposta à original")

	// O original permanece confirmado e intacto, só recebe a marcação de
	// estornado apontando para a compensatória.
	depois, err := movRepo.GetByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusConfirmed, depois.Status)
	assert.Equal(t, comp.ID, depois.ReversedByID)
	require.NotNil(t, depois.ReversedAt)
	assert.True(t, depois.Quantity.Equal(original.Quantity))
	assert.True(t, depois.BalanceAfter.Equal(original.BalanceAfter))

	atual, _ := stockRepo.GetByID(context.Background(), rec.ID)
	assert.True(t, atual.QuantityOnHand.Equal(dec("100")), "saldo volta ao valor anterior")
}

// A soma das quantidades confirmadas continua batendo com o saldo depois de um
// estorno: original e compensatória seguem no conjunto confirmado e se anulam.
func TestReverseMovement_SaldoReconstruivelAposEstorno(t *testing.T) {
	uc, stockRepo, movRepo := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "0", "0")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindInbound,
		StockRecordID: rec.ID,
		Quantity:      dec("100"),
		UnitCost:      decPtr("2.00"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)

	_, err = uc.ReverseMovement(context.Background(), result.Movements[0].ID, "entrada errada", "actor-2")
	require.NoError(t, err)

	atual, err := stockRepo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	sum, err := movRepo.SumConfirmedByStockRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, atual.QuantityOnHand.IsZero())
	assert.True(t, sum.Equal(atual.QuantityOnHand),
		"saldo (%s) deve bater com a soma dos lançamentos confirmados (%s)", atual.QuantityOnHand, sum)
}

func TestReverseMovement_PernaDeTransferenciaRejeitada(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	origem := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:                  inventory.KindTransfer,
		StockRecordID:         origem.ID,
		DestinationLocationID: "loc-2",
		Quantity:              dec("10"),
		ActorID:               "actor-1",
	})
	require.NoError(t, err)

	for _, leg := range result.Movements {
		_, err := uc.ReverseMovement(context.Background(), leg.ID, "tentativa", "actor-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "perna %s", leg.Kind)
	}
}

func TestReverseMovement_JaEstornadaRejeitada(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	result, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("10"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	original := result.Movements[0]

	_, err = uc.ReverseMovement(context.Background(), original.ID, "primeiro estorno", "actor-1")
	require.NoError(t, err)

	_, err = uc.ReverseMovement(context.Background(), original.ID, "segundo estorno", "actor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "estornar duas vezes é rejeitado")
}

// observerSpy captura os resultados entregues ao observador.
type observerSpy struct {
	results []*inventory.MovementResult
}

func (o *observerSpy) MovementRecorded(ctx context.Context, result *inventory.MovementResult) {
	o.results = append(o.results, result)
}

func TestRegisterMovement_NotificaObservador(t *testing.T) {
	uc, stockRepo, _ := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "100", "2.00")

	spy := &observerSpy{}
	uc.SetObserver(spy)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("5"),
		ActorID:       "actor-1",
	})
	require.NoError(t, err)
	require.Len(t, spy.results, 1)

	// Movimentação rejeitada não notifica.
	_, err = uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind:          entity.MovementKindOutbound,
		StockRecordID: rec.ID,
		Quantity:      dec("1000"),
		ActorID:       "actor-1",
	})
	require.Error(t, err)
	assert.Len(t, spy.results, 1)
}

func TestRegisterMovement_SaldoBateComHistorico(t *testing.T) {
	uc, stockRepo, movRepo := newEngine(t)
	rec := seedRecord(t, stockRepo, "item-1", "loc-1", "0", "0")

	entradas := []struct {
		kind string
		qty  string
		cost *decimal.Decimal
	}{
		{entity.MovementKindInbound, "100", decPtr("1.50")},
		{entity.MovementKindOutbound, "30", nil},
		{entity.MovementKindAdjustment, "-10", nil},
		{entity.MovementKindInbound, "20", decPtr("2.00")},
	}
	for _, e := range entradas {
		_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
			Kind:          e.kind,
			StockRecordID: rec.ID,
			Quantity:      dec(e.qty),
			UnitCost:      e.cost,
			ActorID:       "actor-1",
		})
		require.NoError(t, err)
	}

	atual, err := stockRepo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	sum, err := movRepo.SumConfirmedByStockRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, atual.QuantityOnHand.Equal(sum),
		"saldo (%s) deve bater com a soma dos lançamentos confirmados (%s)", atual.QuantityOnHand, sum)
	assert.True(t, atual.QuantityOnHand.Equal(dec("80")))
}
