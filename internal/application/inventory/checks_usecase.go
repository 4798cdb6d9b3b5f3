package inventory

import (
	"context"

	"github.com/Guztaver/licitacao-sub002/internal/application/dto"
	"github.com/Guztaver/licitacao-sub002/pkg/logger"
)

// ChecksUseCase varredura automática: geração de sugestões de reposição +
// avaliação de alertas sobre o razão inteiro. Idempotente; pode rodar em
// qualquer cadência (agendador ou sob demanda) sem produzir sinais
// duplicados. Falhas são isoladas por registro.
type ChecksUseCase struct {
	alertUC *AlertUseCase
	replUC  *ReplenishmentUseCase
	log     *logger.Logger
}

// NewChecksUseCase constrói o caso de uso.
func NewChecksUseCase(alertUC *AlertUseCase, replUC *ReplenishmentUseCase, log *logger.Logger) *ChecksUseCase {
	return &ChecksUseCase{alertUC: alertUC, replUC: replUC, log: log}
}

// Run executa a varredura completa e devolve o resumo.
func (uc *ChecksUseCase) Run(ctx context.Context) (*dto.ChecksReportResponse, error) {
	created, skippedSuggestions, err := uc.replUC.GenerateSuggestions(ctx)
	if err != nil {
		return nil, err
	}

	checked, raised, skippedAlerts, err := uc.alertUC.SweepStock(ctx)
	if err != nil {
		return nil, err
	}

	delayed, err := uc.alertUC.SweepReplenishmentDelays(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ChecksReportResponse{
		RecordsChecked:     checked,
		AlertsRaised:       raised + delayed,
		SuggestionsCreated: created,
		Skipped:            skippedSuggestions + skippedAlerts,
	}
	uc.log.Info().
		Int("records_checked", report.RecordsChecked).
		Int("alerts_raised", report.AlertsRaised).
		Int("suggestions_created", report.SuggestionsCreated).
		Int("skipped", report.Skipped).
		Msg("varredura automática concluída")
	return report, nil
}
