package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origens de uma reposição.
const (
	ReplenishmentKindAutomatic  = "AUTOMATIC"
	ReplenishmentKindManual     = "MANUAL"
	ReplenishmentKindPreventive = "PREVENTIVE"
	ReplenishmentKindEmergency  = "EMERGENCY"
)

// Situações do fluxo de reposição.
const (
	ReplenishmentStatusSuggested         = "SUGGESTED"
	ReplenishmentStatusApproved          = "APPROVED"
	ReplenishmentStatusRequested         = "REQUESTED"
	ReplenishmentStatusInTransit         = "IN_TRANSIT"
	ReplenishmentStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	ReplenishmentStatusReceived          = "RECEIVED"
	ReplenishmentStatusCancelled         = "CANCELLED"
)

// Prioridades de atendimento.
const (
	ReplenishmentPriorityLow    = "LOW"
	ReplenishmentPriorityNormal = "NORMAL"
	ReplenishmentPriorityHigh   = "HIGH"
	ReplenishmentPriorityUrgent = "URGENT"
)

// ReplenishmentRecord representa um pedido de reposição, da sugestão ao
// recebimento. O próprio registro nunca altera saldo: todo crédito de estoque
// passa pelo motor de movimentações. Version protege transições concorrentes
// (trava otimista).
type ReplenishmentRecord struct {
	ID                   string
	ItemID               string
	StockRecordID        string
	Kind                 string
	Status               string
	Priority             string
	QuantitySuggested    decimal.Decimal
	QuantityRequested    decimal.Decimal // zero até a aprovação
	QuantityFulfilled    decimal.Decimal // acumulador; nunca excede QuantityRequested
	SuggestedDate        time.Time
	RequestedDate        *time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	SupplierID           string
	RequesterID          string
	ApproverID           string
	CancelReason         string
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsTerminal situação final (recebido ou cancelado).
func (r *ReplenishmentRecord) IsTerminal() bool {
	switch r.Status {
	case ReplenishmentStatusReceived, ReplenishmentStatusCancelled:
		return true
	}
	return false
}

// IsDelayed reposição solicitada/em trânsito com data prevista de entrega já
// vencida e sem recebimento total. Derivado, nunca persistido.
func (r *ReplenishmentRecord) IsDelayed(now time.Time) bool {
	switch r.Status {
	case ReplenishmentStatusRequested, ReplenishmentStatusInTransit, ReplenishmentStatusPartiallyReceived:
	default:
		return false
	}
	return r.ExpectedDeliveryDate != nil && r.ExpectedDeliveryDate.Before(now)
}

// RemainingQuantity quanto ainda falta receber.
func (r *ReplenishmentRecord) RemainingQuantity() decimal.Decimal {
	rem := r.QuantityRequested.Sub(r.QuantityFulfilled)
	if rem.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return rem
}

// PriorityRank peso numérico para ordenação de filas (maior = mais urgente).
func PriorityRank(priority string) int {
	switch priority {
	case ReplenishmentPriorityUrgent:
		return 3
	case ReplenishmentPriorityHigh:
		return 2
	case ReplenishmentPriorityNormal:
		return 1
	case ReplenishmentPriorityLow:
		return 0
	}
	return -1
}
