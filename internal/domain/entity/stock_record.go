package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Situações possíveis de um registro de estoque.
const (
	StockStatusActive      = "ACTIVE"
	StockStatusBlocked     = "BLOCKED"
	StockStatusUnderReview = "UNDER_REVIEW"
)

// StockRecord representa o saldo atual de um item em um local de armazenagem
// (opcionalmente por lote). É a fonte de verdade do "quanto há aqui agora";
// somente o motor de movimentações altera o saldo.
type StockRecord struct {
	ID              string
	ItemID          string
	LocationID      string
	Lot             string // vazio = sem controle de lote
	QuantityOnHand  decimal.Decimal
	QuantityReserved decimal.Decimal
	QuantityMinimum decimal.Decimal
	QuantityMaximum *decimal.Decimal // nil = sem teto definido
	ReorderPoint    decimal.Decimal
	LeadTimeDays    int
	AverageUnitCost decimal.Decimal
	ExpirationDate  *time.Time
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalValue valor total do saldo (QuantityOnHand × AverageUnitCost).
// Sempre derivado; nunca editado de forma independente.
func (s *StockRecord) TotalValue() decimal.Decimal {
	return s.QuantityOnHand.Mul(s.AverageUnitCost)
}

// AvailableQuantity saldo disponível (em mãos menos reservado).
func (s *StockRecord) AvailableQuantity() decimal.Decimal {
	return s.QuantityOnHand.Sub(s.QuantityReserved)
}

// IsZeroed saldo zerado. Estado terminal válido; registros nunca são excluídos.
func (s *StockRecord) IsZeroed() bool {
	return s.QuantityOnHand.IsZero()
}

// IsBelowMinimum saldo igual ou abaixo do mínimo, porém maior que zero.
func (s *StockRecord) IsBelowMinimum() bool {
	return s.QuantityOnHand.GreaterThan(decimal.Zero) &&
		s.QuantityOnHand.LessThanOrEqual(s.QuantityMinimum)
}

// IsAboveMaximum saldo acima do máximo definido (falso se não há máximo).
func (s *StockRecord) IsAboveMaximum() bool {
	return s.QuantityMaximum != nil && s.QuantityOnHand.GreaterThan(*s.QuantityMaximum)
}

// IsAtOrBelowReorderPoint saldo no ponto de reposição ou abaixo dele.
func (s *StockRecord) IsAtOrBelowReorderPoint() bool {
	return s.QuantityOnHand.LessThanOrEqual(s.ReorderPoint)
}

// IsExpired validade do lote vencida em relação a now.
func (s *StockRecord) IsExpired(now time.Time) bool {
	return s.ExpirationDate != nil && s.ExpirationDate.Before(now)
}

// ExpiresWithin validade do lote dentro do horizonte de dias a partir de now
// (exclui lotes já vencidos).
func (s *StockRecord) ExpiresWithin(now time.Time, days int) bool {
	if s.ExpirationDate == nil || s.IsExpired(now) {
		return false
	}
	return !s.ExpirationDate.After(now.AddDate(0, 0, days))
}
