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

// AlertConfig limiares da avaliação de regras.
type AlertConfig struct {
	ExpiryHorizonDays    int     // horizonte de "vencendo em breve"
	StaleLotDays         int     // janela sem movimentação para lote parado
	AbnormalStdDevFactor float64 // N desvios padrão para movimentação atípica
	AbnormalMinSamples   int     // histórico mínimo antes de avaliar atipicidade
}

// DefaultAlertConfig valores padrão dos limiares.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		ExpiryHorizonDays:    30,
		StaleLotDays:         90,
		AbnormalStdDevFactor: 3,
		AbnormalMinSamples:   5,
	}
}

// AlertUseCase avaliação sem estado das regras de alerta sobre o razão.
// Nunca bloqueia movimentações; apenas deriva sinais. No máximo um alerta
// aberto por (item, tipo) — levantar um já existente é no-op.
type AlertUseCase struct {
	stockRepo repository.StockRecordRepository
	movRepo   repository.MovementRepository
	alertRepo repository.AlertRepository
	replRepo  repository.ReplenishmentRepository
	cfg       AlertConfig
	log       *logger.Logger
}

// NewAlertUseCase constrói o caso de uso.
func NewAlertUseCase(
	stockRepo repository.StockRecordRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
	replRepo repository.ReplenishmentRepository,
	cfg AlertConfig,
	log *logger.Logger,
) *AlertUseCase {
	return &AlertUseCase{
		stockRepo: stockRepo,
		movRepo:   movRepo,
		alertRepo: alertRepo,
		replRepo:  replRepo,
		cfg:       cfg,
		log:       log,
	}
}

// alertDraft regra disparada, ainda sem deduplicação.
type alertDraft struct {
	kind     string
	severity string
	title    string
	message  string
}

// EvaluateStockRecord avalia as regras em ordem fixa para um registro e
// levanta os alertas que ainda não existem abertos. Devolve quantos foram
// criados.
func (uc *AlertUseCase) EvaluateStockRecord(ctx context.Context, rec *entity.StockRecord, now time.Time) (int, error) {
	drafts := evaluateStockRules(rec, now, uc.cfg)

	// Lote parado: sem movimentação confirmada dentro da janela e com saldo.
	if rec.QuantityOnHand.GreaterThan(decimal.Zero) {
		last, err := uc.movRepo.LastConfirmedAt(ctx, rec.ID)
		if err != nil {
			return 0, err
		}
		cutoff := now.AddDate(0, 0, -uc.cfg.StaleLotDays)
		if last != nil && last.Before(cutoff) {
			drafts = append(drafts, alertDraft{
				kind:     entity.AlertKindStaleLot,
				severity: entity.AlertSeverityLow,
				title:    "Lote sem movimentação",
				message:  fmt.Sprintf("item %s sem movimentação confirmada há mais de %d dias", rec.ItemID, uc.cfg.StaleLotDays),
			})
		}
	}

	raised := 0
	for _, d := range drafts {
		created, err := uc.raiseIfAbsent(ctx, rec, d, now)
		if err != nil {
			return raised, err
		}
		if created {
			raised++
		}
	}
	return raised, nil
}

// evaluateStockRules regras puras sobre os campos crus do registro, na ordem
// fixa: estoque baixo, zerado, excedente, vencido, vencendo em breve.
func evaluateStockRules(rec *entity.StockRecord, now time.Time, cfg AlertConfig) []alertDraft {
	var drafts []alertDraft

	if rec.IsBelowMinimum() {
		drafts = append(drafts, alertDraft{
			kind:     entity.AlertKindLowStock,
			severity: entity.AlertSeverityHigh,
			title:    "Estoque abaixo do mínimo",
			message:  fmt.Sprintf("saldo %s menor ou igual ao mínimo %s", rec.QuantityOnHand, rec.QuantityMinimum),
		})
	}
	if rec.IsZeroed() {
		drafts = append(drafts, alertDraft{
			kind:     entity.AlertKindZeroStock,
			severity: entity.AlertSeverityCritical,
			title:    "Estoque zerado",
			message:  fmt.Sprintf("item %s sem saldo no local %s", rec.ItemID, rec.LocationID),
		})
	}
	if rec.IsAboveMaximum() {
		drafts = append(drafts, alertDraft{
			kind:     entity.AlertKindExcessStock,
			severity: entity.AlertSeverityLow,
			title:    "Estoque acima do máximo",
			message:  fmt.Sprintf("saldo %s acima do máximo %s", rec.QuantityOnHand, rec.QuantityMaximum),
		})
	}
	if rec.IsExpired(now) {
		drafts = append(drafts, alertDraft{
			kind:     entity.AlertKindExpired,
			severity: entity.AlertSeverityHigh,
			title:    "Lote vencido",
			message:  fmt.Sprintf("validade %s já expirada", rec.ExpirationDate.Format("2006-01-02")),
		})
	} else if rec.ExpiresWithin(now, cfg.ExpiryHorizonDays) {
		drafts = append(drafts, alertDraft{
			kind:     entity.AlertKindExpiringSoon,
			severity: entity.AlertSeverityMedium,
			title:    "Lote vencendo em breve",
			message:  fmt.Sprintf("validade %s dentro de %d dias", rec.ExpirationDate.Format("2006-01-02"), cfg.ExpiryHorizonDays),
		})
	}
	return drafts
}

// raiseIfAbsent cria o alerta se não houver um aberto do mesmo (item, tipo).
func (uc *AlertUseCase) raiseIfAbsent(ctx context.Context, rec *entity.StockRecord, d alertDraft, now time.Time) (bool, error) {
	existing, err := uc.alertRepo.FindOpenByItemAndKind(ctx, rec.ItemID, d.kind)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	alert := &entity.AlertRecord{
		ID:            uuid.New().String(),
		ItemID:        rec.ItemID,
		StockRecordID: rec.ID,
		Kind:          d.kind,
		Severity:      d.severity,
		Status:        entity.AlertStatusOpen,
		Title:         d.title,
		Message:       d.message,
		RaisedAt:      now,
	}
	if err := uc.alertRepo.Create(ctx, alert); err != nil {
		return false, err
	}
	return true, nil
}

// SweepStock varre o razão inteiro avaliando as regras. A falha em um
// registro é registrada em log e não interrompe a varredura.
func (uc *AlertUseCase) SweepStock(ctx context.Context) (checked, raised, skipped int, err error) {
	const pageSize = 200
	now := time.Now()
	for offset := 0; ; offset += pageSize {
		records, err := uc.stockRepo.List(ctx, repository.StockRecordFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return checked, raised, skipped, err
		}
		if len(records) == 0 {
			return checked, raised, skipped, nil
		}
		for _, rec := range records {
			n, err := uc.EvaluateStockRecord(ctx, rec, now)
			if err != nil {
				skipped++
				uc.log.Error().Err(err).
					Str("stock_record_id", rec.ID).
					Str("item_id", rec.ItemID).
					Msg("falha ao avaliar alertas do registro")
				continue
			}
			checked++
			raised += n
		}
		if len(records) < pageSize {
			return checked, raised, skipped, nil
		}
	}
}

// SweepReplenishmentDelays levanta alertas de reposição atrasada para
// pedidos com data prevista de entrega vencida e sem recebimento total.
func (uc *AlertUseCase) SweepReplenishmentDelays(ctx context.Context) (raised int, err error) {
	now := time.Now()
	for _, status := range []string{
		entity.ReplenishmentStatusRequested,
		entity.ReplenishmentStatusInTransit,
		entity.ReplenishmentStatusPartiallyReceived,
	} {
		list, err := uc.replRepo.List(ctx, repository.ReplenishmentFilter{Status: status, Limit: 500})
		if err != nil {
			return raised, err
		}
		for _, r := range list {
			if !r.IsDelayed(now) {
				continue
			}
			rec, err := uc.stockRepo.GetByID(ctx, r.StockRecordID)
			if err != nil || rec == nil {
				continue
			}
			created, err := uc.raiseIfAbsent(ctx, rec, alertDraft{
				kind:     entity.AlertKindDelayedReplenishment,
				severity: entity.AlertSeverityHigh,
				title:    "Reposição atrasada",
				message:  fmt.Sprintf("reposição %s com entrega prevista para %s ainda não recebida", r.ID, r.ExpectedDeliveryDate.Format("2006-01-02")),
			}, now)
			if err != nil {
				return raised, err
			}
			if created {
				raised++
			}
		}
	}
	return raised, nil
}

// MovementRecorded implementa MovementObserver: avalia atipicidade da
// quantidade contra o histórico do item (média + N desvios padrão). Sinaliza
// para revisão humana; jamais bloqueia a movimentação, e qualquer erro aqui é
// apenas registrado em log.
func (uc *AlertUseCase) MovementRecorded(ctx context.Context, result *MovementResult) {
	now := time.Now()
	for _, mov := range result.Movements {
		if mov.Kind == entity.MovementKindTransferIn {
			continue // a perna de saída já representa a operação
		}
		stats, err := uc.movRepo.StatsByItem(ctx, mov.ItemID, now.AddDate(0, -6, 0))
		if err != nil {
			uc.log.Error().Err(err).Str("item_id", mov.ItemID).Msg("falha ao calcular histórico de movimentações")
			continue
		}
		if stats == nil || stats.Count < int64(uc.cfg.AbnormalMinSamples) || !stats.StdDev.GreaterThan(decimal.Zero) {
			continue
		}
		bound := stats.Mean.Add(stats.StdDev.Mul(decimal.NewFromFloat(uc.cfg.AbnormalStdDevFactor)))
		if mov.Quantity.Abs().LessThanOrEqual(bound) {
			continue
		}
		rec, err := uc.stockRepo.GetByID(ctx, mov.StockRecordID)
		if err != nil || rec == nil {
			continue
		}
		_, err = uc.raiseIfAbsent(ctx, rec, alertDraft{
			kind:     entity.AlertKindAbnormalMovement,
			severity: entity.AlertSeverityMedium,
			title:    "Movimentação atípica",
			message:  fmt.Sprintf("quantidade %s excede a faixa esperada (média %s, limite %s)", mov.Quantity.Abs(), stats.Mean.Round(2), bound.Round(2)),
		}, now)
		if err != nil {
			uc.log.Error().Err(err).Str("movement_id", mov.ID).Msg("falha ao levantar alerta de movimentação atípica")
		}
	}
}

// Acknowledge reconhece um alerta aberto.
func (uc *AlertUseCase) Acknowledge(ctx context.Context, id, actorID string) (*entity.AlertRecord, error) {
	alert, err := uc.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != entity.AlertStatusOpen {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	alert.Status = entity.AlertStatusAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = actorID
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Resolve encerra um alerta aberto ou reconhecido. A reavaliação posterior
// pode levantar um novo alerta se a condição persistir.
func (uc *AlertUseCase) Resolve(ctx context.Context, id, actorID, note string) (*entity.AlertRecord, error) {
	return uc.close(ctx, id, actorID, note, entity.AlertStatusResolved)
}

// Dismiss descarta um alerta aberto ou reconhecido.
func (uc *AlertUseCase) Dismiss(ctx context.Context, id, actorID, note string) (*entity.AlertRecord, error) {
	return uc.close(ctx, id, actorID, note, entity.AlertStatusDismissed)
}

func (uc *AlertUseCase) close(ctx context.Context, id, actorID, note, status string) (*entity.AlertRecord, error) {
	alert, err := uc.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if !alert.IsOpen() {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	alert.Status = status
	alert.ResolvedAt = &now
	alert.ResolvedBy = actorID
	alert.ResolutionNote = note
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// List lista alertas pelo filtro informado.
func (uc *AlertUseCase) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.AlertRecord, error) {
	return uc.alertRepo.List(ctx, filter)
}

func (uc *AlertUseCase) getAlert(ctx context.Context, id string) (*entity.AlertRecord, error) {
	alert, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}
