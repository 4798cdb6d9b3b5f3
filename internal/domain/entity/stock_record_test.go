package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestStockRecord_DerivedStatuses(t *testing.T) {
	max := dec("100")

	tests := []struct {
		name         string
		onHand       string
		minimum      string
		maximum      *decimal.Decimal
		reorderPoint string
		belowMin     bool
		zeroed       bool
		aboveMax     bool
		atReorder    bool
	}{
		{name: "saldo saudável", onHand: "50", minimum: "20", maximum: &max, reorderPoint: "15"},
		{name: "no mínimo exato conta como baixo", onHand: "20", minimum: "20", maximum: &max, reorderPoint: "15", belowMin: true},
		{name: "abaixo do mínimo", onHand: "10", minimum: "20", maximum: &max, reorderPoint: "15", belowMin: true, atReorder: true},
		{name: "zerado não é baixo", onHand: "0", minimum: "20", maximum: &max, reorderPoint: "15", zeroed: true, atReorder: true},
		{name: "acima do máximo", onHand: "150", minimum: "20", maximum: &max, reorderPoint: "15", aboveMax: true},
		{name: "sem máximo definido nunca excede", onHand: "1000", minimum: "20", reorderPoint: "15"},
		{name: "no ponto de reposição exato", onHand: "15", minimum: "10", maximum: &max, reorderPoint: "15", atReorder: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := StockRecord{
				QuantityOnHand:  dec(tt.onHand),
				QuantityMinimum: dec(tt.minimum),
				QuantityMaximum: tt.maximum,
				ReorderPoint:    dec(tt.reorderPoint),
			}
			assert.Equal(t, tt.belowMin, rec.IsBelowMinimum(), "IsBelowMinimum")
			assert.Equal(t, tt.zeroed, rec.IsZeroed(), "IsZeroed")
			assert.Equal(t, tt.aboveMax, rec.IsAboveMaximum(), "IsAboveMaximum")
			assert.Equal(t, tt.atReorder, rec.IsAtOrBelowReorderPoint(), "IsAtOrBelowReorderPoint")
		})
	}
}

func TestStockRecord_Expiration(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	semValidade := StockRecord{}
	assert.False(t, semValidade.IsExpired(now))
	assert.False(t, semValidade.ExpiresWithin(now, 30))

	vencida := now.AddDate(0, 0, -1)
	rec := StockRecord{ExpirationDate: &vencida}
	assert.True(t, rec.IsExpired(now))
	assert.False(t, rec.ExpiresWithin(now, 30), "vencido não conta como vencendo")

	vencendo := now.AddDate(0, 0, 10)
	rec = StockRecord{ExpirationDate: &vencendo}
	assert.False(t, rec.IsExpired(now))
	assert.True(t, rec.ExpiresWithin(now, 30))
	assert.False(t, rec.ExpiresWithin(now, 5))
}

func TestStockRecord_TotalValueAndAvailable(t *testing.T) {
	rec := StockRecord{
		QuantityOnHand:   dec("40"),
		QuantityReserved: dec("15"),
		AverageUnitCost:  dec("2.50"),
	}
	assert.True(t, rec.TotalValue().Equal(dec("100")))
	assert.True(t, rec.AvailableQuantity().Equal(dec("25")))
}
