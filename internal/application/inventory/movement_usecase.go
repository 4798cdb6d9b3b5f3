package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain"
	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
	domaininv "github.com/Guztaver/licitacao-sub002/internal/domain/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/domain/repository"
)

// MovementUseCase é o único componente autorizado a alterar saldos do razão.
// Toda mutação abre uma transação, bloqueia a(s) linha(s) afetada(s)
// (SELECT FOR UPDATE), grava um registro imutável por saldo alterado e
// confirma ou desfaz tudo junto.
type MovementUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRecordRepository
	movRepo   repository.MovementRepository
	observer  MovementObserver
}

// NewMovementUseCase constrói o caso de uso. stockRepo e movRepo são os
// repositórios atados ao pool, usados apenas para leituras fora de transação.
func NewMovementUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, stockRepo: stockRepo, movRepo: movRepo}
}

// SetObserver registra o observador chamado após cada movimentação confirmada.
func (uc *MovementUseCase) SetObserver(o MovementObserver) {
	uc.observer = o
}

// KindTransfer tipo aceito na entrada para a operação lógica de
// transferência; o motor grava as pernas TRANSFER_OUT/TRANSFER_IN.
const KindTransfer = "TRANSFER"

// MovementInput entrada para registrar uma movimentação.
// INBOUND/OUTBOUND: quantidade positiva (UnitCost obrigatório em INBOUND).
// ADJUSTMENT: quantidade com sinal. Transferência: StockRecordID do registro
// de origem + DestinationLocationID; a perna de destino é criada pelo motor.
type MovementInput struct {
	Kind                  string
	StockRecordID         string
	DestinationLocationID string
	Quantity              decimal.Decimal
	UnitCost              *decimal.Decimal
	SourceDocument        string
	Reason                string
	ActorID               string
}

// MovementResult movimentações geradas por uma operação lógica (duas para
// transferências, uma nos demais casos). BalanceBefore/After referem-se ao
// registro alvo (origem, em transferências).
type MovementResult struct {
	CorrelationID string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Movements     []*entity.MovementRecord
}

// RegisterMovement valida a entrada, abre a transação e aplica a movimentação
// conforme o tipo. Falhas de validação e registro inexistente são rejeitadas
// antes de qualquer bloqueio de linha.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if err := validateMovementInput(input); err != nil {
		return nil, err
	}

	origin, err := uc.stockRepo.GetByID(ctx, input.StockRecordID)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return nil, domain.ErrNotFound
	}
	if origin.Status == entity.StockStatusBlocked {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	result := &MovementResult{CorrelationID: uuid.New().String()}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
	) error {
		switch input.Kind {
		case entity.MovementKindInbound:
			return uc.doInbound(ctx, stockRepo, movRepo, input, now, result)
		case entity.MovementKindOutbound:
			return uc.doOutbound(ctx, stockRepo, movRepo, input, now, result)
		case entity.MovementKindAdjustment:
			return uc.doAdjustment(ctx, stockRepo, movRepo, input, now, result)
		case KindTransfer:
			return uc.doTransfer(ctx, stockRepo, movRepo, input, now, result)
		}
		return domain.ErrInvalidInput
	})
	if err != nil {
		return nil, err
	}

	if uc.observer != nil {
		uc.observer.MovementRecorded(ctx, result)
	}
	return result, nil
}

func validateMovementInput(input MovementInput) error {
	if input.StockRecordID == "" || input.ActorID == "" {
		return domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.MovementKindInbound:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementKindOutbound:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementKindAdjustment:
		if input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	case KindTransfer:
		if input.DestinationLocationID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// doInbound bloqueia a linha, recalcula o custo médio ponderado, soma a
// quantidade e grava o lançamento confirmado.
func (uc *MovementUseCase) doInbound(
	ctx context.Context,
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	input MovementInput,
	now time.Time,
	result *MovementResult,
) error {
	rec, err := lockRecord(ctx, stockRepo, input.StockRecordID)
	if err != nil {
		return err
	}
	before := rec.QuantityOnHand
	unitCost := *input.UnitCost

	rec.AverageUnitCost = domaininv.WeightedAverageCost(rec.QuantityOnHand, rec.AverageUnitCost, input.Quantity, unitCost)
	rec.QuantityOnHand = rec.QuantityOnHand.Add(input.Quantity)
	rec.UpdatedAt = now
	if err := stockRepo.Update(ctx, rec); err != nil {
		return err
	}

	mov := newMovement(rec, input, now, result.CorrelationID)
	mov.Kind = entity.MovementKindInbound
	mov.Quantity = input.Quantity
	mov.BalanceBefore = before
	mov.BalanceAfter = rec.QuantityOnHand
	mov.UnitCost = unitCost
	mov.TotalCost = input.Quantity.Mul(unitCost)
	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}

	result.BalanceBefore = before
	result.BalanceAfter = rec.QuantityOnHand
	result.Movements = append(result.Movements, mov)
	return nil
}

// doOutbound bloqueia a linha, verifica o saldo e subtrai. Saldo negativo
// nunca é permitido: é a invariante central do subsistema.
func (uc *MovementUseCase) doOutbound(
	ctx context.Context,
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	input MovementInput,
	now time.Time,
	result *MovementResult,
) error {
	rec, err := lockRecord(ctx, stockRepo, input.StockRecordID)
	if err != nil {
		return err
	}
	if rec.QuantityOnHand.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	before := rec.QuantityOnHand
	rec.QuantityOnHand = rec.QuantityOnHand.Sub(input.Quantity)
	rec.UpdatedAt = now
	if err := stockRepo.Update(ctx, rec); err != nil {
		return err
	}

	mov := newMovement(rec, input, now, result.CorrelationID)
	mov.Kind = entity.MovementKindOutbound
	mov.Quantity = input.Quantity.Neg()
	mov.BalanceBefore = before
	mov.BalanceAfter = rec.QuantityOnHand
	mov.UnitCost = rec.AverageUnitCost
	mov.TotalCost = input.Quantity.Neg().Mul(rec.AverageUnitCost)
	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}

	result.BalanceBefore = before
	result.BalanceAfter = rec.QuantityOnHand
	result.Movements = append(result.Movements, mov)
	return nil
}

// doAdjustment aplica a quantidade com o sinal informado pelo chamador.
// Ajustes não alteram o custo médio.
func (uc *MovementUseCase) doAdjustment(
	ctx context.Context,
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	input MovementInput,
	now time.Time,
	result *MovementResult,
) error {
	rec, err := lockRecord(ctx, stockRepo, input.StockRecordID)
	if err != nil {
		return err
	}
	newQty := rec.QuantityOnHand.Add(input.Quantity)
	if newQty.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	before := rec.QuantityOnHand
	rec.QuantityOnHand = newQty
	rec.UpdatedAt = now
	if err := stockRepo.Update(ctx, rec); err != nil {
		return err
	}

	mov := newMovement(rec, input, now, result.CorrelationID)
	mov.Kind = entity.MovementKindAdjustment
	mov.Quantity = input.Quantity
	mov.BalanceBefore = before
	mov.BalanceAfter = newQty
	mov.UnitCost = rec.AverageUnitCost
	mov.TotalCost = input.Quantity.Mul(rec.AverageUnitCost)
	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}

	result.BalanceBefore = before
	result.BalanceAfter = newQty
	result.Movements = append(result.Movements, mov)
	return nil
}

// doTransfer debita a origem e credita o destino na mesma transação, gravando
// as duas pernas sob o mesmo correlation id. O registro de destino é criado
// com os limiares herdados da origem quando não existe. As linhas são
// bloqueadas em ordem crescente de id para evitar deadlock entre
// transferências em sentidos opostos.
func (uc *MovementUseCase) doTransfer(
	ctx context.Context,
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	input MovementInput,
	now time.Time,
	result *MovementResult,
) error {
	origin, err := stockRepo.GetByID(ctx, input.StockRecordID)
	if err != nil {
		return err
	}
	if origin == nil {
		return domain.ErrNotFound
	}
	if origin.LocationID == input.DestinationLocationID {
		return domain.ErrInvalidInput
	}
	// Saldo insuficiente é rejeitado antes de criar o registro de destino,
	// para que uma transferência recusada não deixe destino fantasma.
	if origin.QuantityOnHand.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}

	dest, err := uc.findOrCreateDestination(ctx, stockRepo, origin, input.DestinationLocationID, now)
	if err != nil {
		return err
	}

	ids := []string{origin.ID, dest.ID}
	sort.Strings(ids)
	locked := make(map[string]*entity.StockRecord, 2)
	for _, id := range ids {
		rec, err := lockRecord(ctx, stockRepo, id)
		if err != nil {
			return err
		}
		locked[id] = rec
	}
	origin, dest = locked[origin.ID], locked[dest.ID]

	if origin.QuantityOnHand.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}

	originBefore := origin.QuantityOnHand
	destBefore := dest.QuantityOnHand

	origin.QuantityOnHand = origin.QuantityOnHand.Sub(input.Quantity)
	origin.UpdatedAt = now

	// O custo da origem acompanha a quantidade transferida.
	dest.AverageUnitCost = domaininv.WeightedAverageCost(dest.QuantityOnHand, dest.AverageUnitCost, input.Quantity, origin.AverageUnitCost)
	dest.QuantityOnHand = dest.QuantityOnHand.Add(input.Quantity)
	dest.UpdatedAt = now

	if err := stockRepo.Update(ctx, origin); err != nil {
		return err
	}
	if err := stockRepo.Update(ctx, dest); err != nil {
		return err
	}

	outMov := newMovement(origin, input, now, result.CorrelationID)
	outMov.Kind = entity.MovementKindTransferOut
	outMov.Quantity = input.Quantity.Neg()
	outMov.BalanceBefore = originBefore
	outMov.BalanceAfter = origin.QuantityOnHand
	outMov.UnitCost = origin.AverageUnitCost
	outMov.TotalCost = input.Quantity.Neg().Mul(origin.AverageUnitCost)
	outMov.OriginLocationID = origin.LocationID
	outMov.DestinationLocationID = dest.LocationID
	if err := movRepo.Create(ctx, outMov); err != nil {
		return err
	}

	inMov := newMovement(dest, input, now, result.CorrelationID)
	inMov.Kind = entity.MovementKindTransferIn
	inMov.Quantity = input.Quantity
	inMov.BalanceBefore = destBefore
	inMov.BalanceAfter = dest.QuantityOnHand
	inMov.UnitCost = origin.AverageUnitCost
	inMov.TotalCost = input.Quantity.Mul(origin.AverageUnitCost)
	inMov.OriginLocationID = origin.LocationID
	inMov.DestinationLocationID = dest.LocationID
	if err := movRepo.Create(ctx, inMov); err != nil {
		return err
	}

	result.BalanceBefore = originBefore
	result.BalanceAfter = origin.QuantityOnHand
	result.Movements = append(result.Movements, outMov, inMov)
	return nil
}

// findOrCreateDestination localiza o registro de destino da transferência ou o
// cria com saldo zero e os limiares herdados da origem (mínimo, máximo, ponto
// de reposição, lead time, custo e validade), para que o destino nunca nasça
// com limiares silenciosamente zerados.
func (uc *MovementUseCase) findOrCreateDestination(
	ctx context.Context,
	stockRepo repository.StockRecordRepository,
	origin *entity.StockRecord,
	destinationLocationID string,
	now time.Time,
) (*entity.StockRecord, error) {
	dest, err := stockRepo.GetByKey(ctx, origin.ItemID, destinationLocationID, origin.Lot)
	if err != nil {
		return nil, err
	}
	if dest != nil {
		return dest, nil
	}

	dest = &entity.StockRecord{
		ID:               uuid.New().String(),
		ItemID:           origin.ItemID,
		LocationID:       destinationLocationID,
		Lot:              origin.Lot,
		QuantityOnHand:   decimal.Zero,
		QuantityReserved: decimal.Zero,
		QuantityMinimum:  origin.QuantityMinimum,
		QuantityMaximum:  origin.QuantityMaximum,
		ReorderPoint:     origin.ReorderPoint,
		LeadTimeDays:     origin.LeadTimeDays,
		AverageUnitCost:  origin.AverageUnitCost,
		ExpirationDate:   origin.ExpirationDate,
		Status:           entity.StockStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := stockRepo.Create(ctx, dest); err != nil {
		// Outra transferência pode ter criado o registro entre a consulta e o
		// insert; nesse caso a busca repetida resolve.
		if err == domain.ErrDuplicate {
			return stockRepo.GetByKey(ctx, origin.ItemID, destinationLocationID, origin.Lot)
		}
		return nil, err
	}
	return dest, nil
}

// ReverseMovement estorna uma movimentação confirmada por lançamento
// compensatório com o mesmo correlation id. O original permanece confirmado e
// com as colunas de quantidade intactas, recebendo apenas a marcação de
// estornado; assim a soma das quantidades confirmadas continua batendo com o
// saldo. Pernas de transferência não são estornáveis individualmente:
// registre a transferência no sentido oposto.
func (uc *MovementUseCase) ReverseMovement(ctx context.Context, movementID, reason, actorID string) (*MovementResult, error) {
	if reason == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	original, err := uc.movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Status != entity.MovementStatusConfirmed || original.IsReversed() {
		return nil, domain.ErrInvalidTransition
	}
	if original.IsTransferLeg() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	result := &MovementResult{CorrelationID: original.CorrelationID}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		movRepo repository.MovementRepository,
	) error {
		rec, err := lockRecord(ctx, stockRepo, original.StockRecordID)
		if err != nil {
			return err
		}
		delta := original.Quantity.Neg()
		newQty := rec.QuantityOnHand.Add(delta)
		if newQty.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		before := rec.QuantityOnHand
		rec.QuantityOnHand = newQty
		rec.UpdatedAt = now
		if err := stockRepo.Update(ctx, rec); err != nil {
			return err
		}

		comp := &entity.MovementRecord{
			ID:             uuid.New().String(),
			CorrelationID:  original.CorrelationID,
			StockRecordID:  rec.ID,
			ItemID:         rec.ItemID,
			LocationID:     rec.LocationID,
			Kind:           entity.MovementKindAdjustment,
			Status:         entity.MovementStatusConfirmed,
			Quantity:       delta,
			BalanceBefore:  before,
			BalanceAfter:   newQty,
			UnitCost:       rec.AverageUnitCost,
			TotalCost:      delta.Mul(rec.AverageUnitCost),
			SourceDocument: original.SourceDocument,
			Reason:         reason,
			ActorID:        actorID,
			OccurredAt:     now,
			CreatedAt:      now,
		}
		if err := movRepo.Create(ctx, comp); err != nil {
			return err
		}
		if err := movRepo.MarkReversed(ctx, original.ID, comp.ID, now); err != nil {
			return err
		}

		result.BalanceBefore = before
		result.BalanceAfter = newQty
		result.Movements = append(result.Movements, comp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMovements lista movimentações pelo filtro informado.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	return uc.movRepo.List(ctx, filter)
}

func lockRecord(ctx context.Context, stockRepo repository.StockRecordRepository, id string) (*entity.StockRecord, error) {
	rec, err := stockRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func newMovement(rec *entity.StockRecord, input MovementInput, now time.Time, correlationID string) *entity.MovementRecord {
	return &entity.MovementRecord{
		ID:             uuid.New().String(),
		CorrelationID:  correlationID,
		StockRecordID:  rec.ID,
		ItemID:         rec.ItemID,
		LocationID:     rec.LocationID,
		Status:         entity.MovementStatusConfirmed,
		SourceDocument: input.SourceDocument,
		Reason:         input.Reason,
		ActorID:        input.ActorID,
		OccurredAt:     now,
		CreatedAt:      now,
	}
}
