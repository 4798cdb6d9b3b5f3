package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplenishmentRecord_IsTerminal(t *testing.T) {
	terminais := []string{ReplenishmentStatusReceived, ReplenishmentStatusCancelled}
	abertas := []string{
		ReplenishmentStatusSuggested,
		ReplenishmentStatusApproved,
		ReplenishmentStatusRequested,
		ReplenishmentStatusInTransit,
		ReplenishmentStatusPartiallyReceived,
	}
	for _, s := range terminais {
		assert.True(t, (&ReplenishmentRecord{Status: s}).IsTerminal(), s)
	}
	for _, s := range abertas {
		assert.False(t, (&ReplenishmentRecord{Status: s}).IsTerminal(), s)
	}
}

func TestReplenishmentRecord_IsDelayed(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	passado := now.AddDate(0, 0, -2)
	futuro := now.AddDate(0, 0, 2)

	// Atrasada: solicitada com entrega prevista vencida.
	rec := &ReplenishmentRecord{Status: ReplenishmentStatusRequested, ExpectedDeliveryDate: &passado}
	assert.True(t, rec.IsDelayed(now))

	// Em trânsito e parcialmente recebida também contam.
	rec.Status = ReplenishmentStatusInTransit
	assert.True(t, rec.IsDelayed(now))
	rec.Status = ReplenishmentStatusPartiallyReceived
	assert.True(t, rec.IsDelayed(now))

	// Entrega prevista no futuro não é atraso.
	rec = &ReplenishmentRecord{Status: ReplenishmentStatusRequested, ExpectedDeliveryDate: &futuro}
	assert.False(t, rec.IsDelayed(now))

	// Sem data prevista nunca é atraso.
	rec = &ReplenishmentRecord{Status: ReplenishmentStatusRequested}
	assert.False(t, rec.IsDelayed(now))

	// Sugerida e recebida não entram na regra mesmo com data vencida.
	rec = &ReplenishmentRecord{Status: ReplenishmentStatusSuggested, ExpectedDeliveryDate: &passado}
	assert.False(t, rec.IsDelayed(now))
	rec.Status = ReplenishmentStatusReceived
	assert.False(t, rec.IsDelayed(now))
}

func TestReplenishmentRecord_RemainingQuantity(t *testing.T) {
	rec := &ReplenishmentRecord{QuantityRequested: dec("50"), QuantityFulfilled: dec("30")}
	assert.True(t, rec.RemainingQuantity().Equal(dec("20")))

	rec.QuantityFulfilled = dec("50")
	assert.True(t, rec.RemainingQuantity().IsZero())

	// Nunca negativo, mesmo com dados inconsistentes.
	rec.QuantityFulfilled = dec("60")
	assert.True(t, rec.RemainingQuantity().IsZero())
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityRank(ReplenishmentPriorityUrgent), PriorityRank(ReplenishmentPriorityHigh))
	assert.Greater(t, PriorityRank(ReplenishmentPriorityHigh), PriorityRank(ReplenishmentPriorityNormal))
	assert.Greater(t, PriorityRank(ReplenishmentPriorityNormal), PriorityRank(ReplenishmentPriorityLow))
	assert.Equal(t, -1, PriorityRank("desconhecida"))
}
