package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimentação de estoque.
const (
	MovementKindInbound     = "INBOUND"      // entrada
	MovementKindOutbound    = "OUTBOUND"     // saída
	MovementKindTransferOut = "TRANSFER_OUT" // perna de saída de uma transferência
	MovementKindTransferIn  = "TRANSFER_IN"  // perna de entrada de uma transferência
	MovementKindAdjustment  = "ADJUSTMENT"   // ajuste (quantidade com sinal)
)

// Situações de uma movimentação. Confirmadas nunca mudam de situação;
// CANCELLED aplica-se apenas a rascunhos pendentes descartados antes da
// confirmação.
const (
	MovementStatusPending   = "PENDING"
	MovementStatusConfirmed = "CONFIRMED"
	MovementStatusCancelled = "CANCELLED"
)

// MovementRecord representa um evento imutável que alterou o saldo de um
// StockRecord. Registros confirmados nunca são editados nem saem do conjunto
// confirmado: a soma das quantidades confirmadas de um registro deve sempre
// bater com QuantityOnHand. A correção de um lançamento é feita por
// movimentação compensatória com o mesmo CorrelationID; o original permanece
// confirmado e recebe apenas a marcação de estornado (ReversedByID).
type MovementRecord struct {
	ID            string
	CorrelationID string // agrupa as duas pernas de uma transferência e os estornos
	StockRecordID string
	ItemID        string
	LocationID    string
	Kind          string
	Status        string
	Quantity      decimal.Decimal // delta com sinal aplicado ao saldo
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	SourceDocument string
	Reason         string
	OriginLocationID      string // somente transferências
	DestinationLocationID string // somente transferências
	ReversedByID   string     // id do lançamento compensatório; vazio se nunca estornado
	ReversedAt     *time.Time
	ActorID        string
	OccurredAt     time.Time
	CreatedAt      time.Time
}

// ValidMovementKind informa se o tipo pertence ao conjunto fechado de tipos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindInbound, MovementKindOutbound, MovementKindTransferOut,
		MovementKindTransferIn, MovementKindAdjustment:
		return true
	}
	return false
}

// IsTransferLeg informa se a movimentação é uma das pernas de transferência.
func (m *MovementRecord) IsTransferLeg() bool {
	return m.Kind == MovementKindTransferOut || m.Kind == MovementKindTransferIn
}

// IsReversed informa se a movimentação já foi estornada por lançamento
// compensatório.
func (m *MovementRecord) IsReversed() bool {
	return m.ReversedByID != ""
}
