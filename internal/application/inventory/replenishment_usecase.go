package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
	"github.com/Guztaver/licitacao-sub002/pkg/logger"
)

// ReplenishmentUseCase conduz o fluxo de reposição da sugestão ao
// recebimento. Nunca altera saldos diretamente: o crédito de estoque do
// recebimento passa pelo motor de movimentações. As transições usam trava
// otimista (Version) — concorrência devolve domain.ErrConflict e o chamador
// repete com estado atualizado.
type ReplenishmentUseCase struct {
	stockRepo  repository.StockRecordRepository
	replRepo   repository.ReplenishmentRepository
	movementUC *MovementUseCase
	log        *logger.Logger
}

// NewReplenishmentUseCase constrói o caso de uso.
func NewReplenishmentUseCase(
	stockRepo repository.StockRecordRepository,
	replRepo repository.ReplenishmentRepository,
	movementUC *MovementUseCase,
	log *logger.Logger,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		stockRepo:  stockRepo,
		replRepo:   replRepo,
		movementUC: movementUC,
		log:        log,
	}
}

// GenerateSuggestions cria uma sugestão para cada registro no ponto de
// reposição ou abaixo que ainda não tenha reposição em aberto. A quantidade
// sugerida repõe até um nível saudável:
// max(máximo − saldo, ponto de reposição × 2 − saldo), nunca negativa.
// A falha em um registro é registrada em log e não interrompe a geração.
func (uc *ReplenishmentUseCase) GenerateSuggestions(ctx context.Context) (created, skipped int, err error) {
	records, err := uc.stockRepo.ListAtOrBelowReorderPoint(ctx)
	if err != nil {
		return 0, 0, err
	}
	now := time.Now()
	for _, rec := range records {
		ok, err := uc.suggestForRecord(ctx, rec, now)
		if err != nil {
			skipped++
			uc.log.Error().Err(err).
				Str("stock_record_id", rec.ID).
				Str("item_id", rec.ItemID).
				Msg("falha ao gerar sugestão de reposição")
			continue
		}
		if ok {
			created++
		}
	}
	return created, skipped, nil
}

func (uc *ReplenishmentUseCase) suggestForRecord(ctx context.Context, rec *entity.StockRecord, now time.Time) (bool, error) {
	open, err := uc.replRepo.FindOpenByStockRecord(ctx, rec.ID)
	if err != nil {
		return false, err
	}
	if open != nil {
		return false, nil
	}

	qty := suggestedQuantity(rec)
	if !qty.GreaterThan(decimal.Zero) {
		return false, nil
	}

	repl := &entity.ReplenishmentRecord{
		ID:                uuid.New().String(),
		ItemID:            rec.ItemID,
		StockRecordID:     rec.ID,
		Kind:              entity.ReplenishmentKindAutomatic,
		Status:            entity.ReplenishmentStatusSuggested,
		Priority:          suggestionPriority(rec),
		QuantitySuggested: qty,
		QuantityFulfilled: decimal.Zero,
		SuggestedDate:     now,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.replRepo.Create(ctx, repl); err != nil {
		return false, err
	}
	return true, nil
}

// suggestedQuantity max(máximo − saldo, reposição × 2 − saldo), piso em zero.
func suggestedQuantity(rec *entity.StockRecord) decimal.Decimal {
	toReorder := rec.ReorderPoint.Mul(decimal.NewFromInt(2)).Sub(rec.QuantityOnHand)
	best := toReorder
	if rec.QuantityMaximum != nil {
		toMax := rec.QuantityMaximum.Sub(rec.QuantityOnHand)
		if toMax.GreaterThan(best) {
			best = toMax
		}
	}
	if best.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return best
}

// suggestionPriority urgente com saldo zerado/negativo, alta até metade do
// mínimo, normal acima disso.
func suggestionPriority(rec *entity.StockRecord) string {
	if rec.QuantityOnHand.LessThanOrEqual(decimal.Zero) {
		return entity.ReplenishmentPriorityUrgent
	}
	half := rec.QuantityMinimum.Div(decimal.NewFromInt(2))
	if rec.QuantityOnHand.LessThanOrEqual(half) {
		return entity.ReplenishmentPriorityHigh
	}
	return entity.ReplenishmentPriorityNormal
}

// Approve aprova uma sugestão, fixando a quantidade solicitada (padrão:
// a sugerida). Rejeita fora de SUGGESTED.
func (uc *ReplenishmentUseCase) Approve(ctx context.Context, id string, quantityRequested *decimal.Decimal, approverID string) (*entity.ReplenishmentRecord, error) {
	repl, err := uc.getReplenishment(ctx, id)
	if err != nil {
		return nil, err
	}
	if repl.Status != entity.ReplenishmentStatusSuggested {
		return nil, domain.ErrInvalidTransition
	}
	qty := repl.QuantitySuggested
	if quantityRequested != nil {
		if !quantityRequested.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		qty = *quantityRequested
	}
	repl.Status = entity.ReplenishmentStatusApproved
	repl.QuantityRequested = qty
	repl.ApproverID = approverID
	repl.UpdatedAt = time.Now()
	if err := uc.replRepo.Update(ctx, repl); err != nil {
		return nil, err
	}
	return repl, nil
}

// Request encaminha uma reposição aprovada ao fornecedor. Rejeita fora de
// APPROVED.
func (uc *ReplenishmentUseCase) Request(ctx context.Context, id, supplierID string, expectedDelivery *time.Time, requesterID string) (*entity.ReplenishmentRecord, error) {
	repl, err := uc.getReplenishment(ctx, id)
	if err != nil {
		return nil, err
	}
	if repl.Status != entity.ReplenishmentStatusApproved {
		return nil, domain.ErrInvalidTransition
	}
	if supplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	repl.Status = entity.ReplenishmentStatusRequested
	repl.SupplierID = supplierID
	repl.ExpectedDeliveryDate = expectedDelivery
	repl.RequestedDate = &now
	repl.RequesterID = requesterID
	repl.UpdatedAt = now
	if err := uc.replRepo.Update(ctx, repl); err != nil {
		return nil, err
	}
	return repl, nil
}

// MarkInTransit registra o despacho pelo fornecedor. Rejeita fora de
// REQUESTED.
func (uc *ReplenishmentUseCase) MarkInTransit(ctx context.Context, id string) (*entity.ReplenishmentRecord, error) {
	repl, err := uc.getReplenishment(ctx, id)
	if err != nil {
		return nil, err
	}
	if repl.Status != entity.ReplenishmentStatusRequested {
		return nil, domain.ErrInvalidTransition
	}
	repl.Status = entity.ReplenishmentStatusInTransit
	repl.UpdatedAt = time.Now()
	if err := uc.replRepo.Update(ctx, repl); err != nil {
		return nil, err
	}
	return repl, nil
}

// Receive registra um recebimento parcial ou total. Aceito a partir de
// REQUESTED, IN_TRANSIT ou PARTIALLY_RECEIVED (mercadoria chega mesmo sem o
// despacho ter sido lançado). A quantidade aceita é limitada ao que falta
// receber, e o crédito do saldo é feito exclusivamente por uma movimentação
// de entrada confirmada no motor de movimentações.
func (uc *ReplenishmentUseCase) Receive(ctx context.Context, id string, quantity decimal.Decimal, unitCost *decimal.Decimal, sourceDocument, actorID string) (*entity.ReplenishmentRecord, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	repl, err := uc.getReplenishment(ctx, id)
	if err != nil {
		return nil, err
	}
	switch repl.Status {
	case entity.ReplenishmentStatusRequested, entity.ReplenishmentStatusInTransit, entity.ReplenishmentStatusPartiallyReceived:
	default:
		return nil, domain.ErrInvalidTransition
	}

	remaining := repl.RemainingQuantity()
	if !remaining.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidTransition
	}
	accepted := quantity
	if accepted.GreaterThan(remaining) {
		accepted = remaining
	}

	rec, err := uc.stockRepo.GetByID(ctx, repl.StockRecordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.Status == entity.StockStatusBlocked {
		return nil, domain.ErrConflict
	}
	cost := unitCost
	if cost == nil {
		c := rec.AverageUnitCost
		cost = &c
	}
	if sourceDocument == "" {
		sourceDocument = fmt.Sprintf("reposicao:%s", repl.ID)
	}

	// A baixa da pendência (com verificação de versão) precede o crédito do
	// saldo: um ErrConflict aborta antes de qualquer movimentação, e a
	// repetição com estado atualizado nunca credita o razão duas vezes.
	now := time.Now()
	repl.QuantityFulfilled = repl.QuantityFulfilled.Add(accepted)
	if repl.QuantityFulfilled.GreaterThanOrEqual(repl.QuantityRequested) {
		repl.Status = entity.ReplenishmentStatusReceived
		repl.ActualDeliveryDate = &now
	} else {
		repl.Status = entity.ReplenishmentStatusPartiallyReceived
	}
	repl.UpdatedAt = now
	if err := uc.replRepo.Update(ctx, repl); err != nil {
		return nil, err
	}

	if _, err := uc.movementUC.RegisterMovement(ctx, MovementInput{
		Kind:           entity.MovementKindInbound,
		StockRecordID:  repl.StockRecordID,
		Quantity:       accepted,
		UnitCost:       cost,
		SourceDocument: sourceDocument,
		Reason:         "recebimento de reposição",
		ActorID:        actorID,
	}); err != nil {
		return nil, err
	}
	return repl, nil
}

// Cancel cancela uma reposição não terminal; o motivo é obrigatório.
func (uc *ReplenishmentUseCase) Cancel(ctx context.Context, id, reason, actorID string) (*entity.ReplenishmentRecord, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	repl, err := uc.getReplenishment(ctx, id)
	if err != nil {
		return nil, err
	}
	if repl.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}
	repl.Status = entity.ReplenishmentStatusCancelled
	repl.CancelReason = reason
	repl.UpdatedAt = time.Now()
	if err := uc.replRepo.Update(ctx, repl); err != nil {
		return nil, err
	}
	return repl, nil
}

// List lista reposições ordenadas por prioridade (urgente primeiro) e data de
// sugestão ascendente.
func (uc *ReplenishmentUseCase) List(ctx context.Context, filter repository.ReplenishmentFilter) ([]*entity.ReplenishmentRecord, error) {
	return uc.replRepo.List(ctx, filter)
}

// GetByID devolve uma reposição.
func (uc *ReplenishmentUseCase) GetByID(ctx context.Context, id string) (*entity.ReplenishmentRecord, error) {
	return uc.getReplenishment(ctx, id)
}

func (uc *ReplenishmentUseCase) getReplenishment(ctx context.Context, id string) (*entity.ReplenishmentRecord, error) {
	repl, err := uc.replRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repl == nil {
		return nil, domain.ErrNotFound
	}
	return repl, nil
}
