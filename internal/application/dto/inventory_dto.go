package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guztaver/licitacao-sub002/internal/domain/entity"
)

// RegisterMovementRequest corpo para POST /api/inventory/movements.
// Para INBOUND/OUTBOUND/ADJUSTMENT: stock_record_id, kind, quantity
// (unit_cost obrigatório em entradas). Para transferências: stock_record_id do
// registro de origem + destination_location_id.
type RegisterMovementRequest struct {
	StockRecordID         string           `json:"stock_record_id"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	Kind                  string           `json:"kind"`
	Quantity              decimal.Decimal  `json:"quantity"`
	UnitCost              *decimal.Decimal `json:"unit_cost,omitempty"`
	SourceDocument        string           `json:"source_document,omitempty"`
	Reason                string           `json:"reason,omitempty"`
}

// ReverseMovementRequest corpo para POST /api/inventory/movements/:id/reverse.
type ReverseMovementRequest struct {
	Reason string `json:"reason"`
}

// MovementResponse representação de uma movimentação.
type MovementResponse struct {
	ID                    string          `json:"id"`
	CorrelationID         string          `json:"correlation_id"`
	StockRecordID         string          `json:"stock_record_id"`
	ItemID                string          `json:"item_id"`
	LocationID            string          `json:"location_id"`
	Kind                  string          `json:"kind"`
	Status                string          `json:"status"`
	Quantity              decimal.Decimal `json:"quantity"`
	BalanceBefore         decimal.Decimal `json:"balance_before"`
	BalanceAfter          decimal.Decimal `json:"balance_after"`
	UnitCost              decimal.Decimal `json:"unit_cost"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	SourceDocument        string          `json:"source_document,omitempty"`
	Reason                string          `json:"reason,omitempty"`
	OriginLocationID      string          `json:"origin_location_id,omitempty"`
	DestinationLocationID string          `json:"destination_location_id,omitempty"`
	ReversedByID          string          `json:"reversed_by_id,omitempty"`
	ReversedAt            *time.Time      `json:"reversed_at,omitempty"`
	ActorID               string          `json:"actor_id"`
	OccurredAt            time.Time       `json:"occurred_at"`
}

// MovementResultResponse resposta de POST /api/inventory/movements.
// Transferências devolvem as duas pernas sob o mesmo correlation_id.
type MovementResultResponse struct {
	CorrelationID string             `json:"correlation_id"`
	BalanceBefore decimal.Decimal    `json:"balance_before"`
	BalanceAfter  decimal.Decimal    `json:"balance_after"`
	Movements     []MovementResponse `json:"movements"`
}

// StockRecordResponse registro de estoque com as situações derivadas
// calculadas no momento da leitura.
type StockRecordResponse struct {
	ID                 string           `json:"id"`
	ItemID             string           `json:"item_id"`
	LocationID         string           `json:"location_id"`
	Lot                string           `json:"lot,omitempty"`
	QuantityOnHand     decimal.Decimal  `json:"quantity_on_hand"`
	QuantityReserved   decimal.Decimal  `json:"quantity_reserved"`
	QuantityMinimum    decimal.Decimal  `json:"quantity_minimum"`
	QuantityMaximum    *decimal.Decimal `json:"quantity_maximum,omitempty"`
	ReorderPoint       decimal.Decimal  `json:"reorder_point"`
	LeadTimeDays       int              `json:"lead_time_days"`
	AverageUnitCost    decimal.Decimal  `json:"average_unit_cost"`
	TotalValue         decimal.Decimal  `json:"total_value"`
	ExpirationDate     *time.Time       `json:"expiration_date,omitempty"`
	Status             string           `json:"status"`
	BelowMinimum       bool             `json:"below_minimum"`
	Zeroed             bool             `json:"zeroed"`
	AboveMaximum       bool             `json:"above_maximum"`
	Expired            bool             `json:"expired"`
	AtOrBelowReorder   bool             `json:"at_or_below_reorder_point"`
}

// StockRecordFromEntity monta a resposta com os campos derivados.
func StockRecordFromEntity(s *entity.StockRecord, now time.Time) StockRecordResponse {
	return StockRecordResponse{
		ID:               s.ID,
		ItemID:           s.ItemID,
		LocationID:       s.LocationID,
		Lot:              s.Lot,
		QuantityOnHand:   s.QuantityOnHand,
		QuantityReserved: s.QuantityReserved,
		QuantityMinimum:  s.QuantityMinimum,
		QuantityMaximum:  s.QuantityMaximum,
		ReorderPoint:     s.ReorderPoint,
		LeadTimeDays:     s.LeadTimeDays,
		AverageUnitCost:  s.AverageUnitCost,
		TotalValue:       s.TotalValue(),
		ExpirationDate:   s.ExpirationDate,
		Status:           s.Status,
		BelowMinimum:     s.IsBelowMinimum(),
		Zeroed:           s.IsZeroed(),
		AboveMaximum:     s.IsAboveMaximum(),
		Expired:          s.IsExpired(now),
		AtOrBelowReorder: s.IsAtOrBelowReorderPoint(),
	}
}

// MovementFromEntity monta a resposta de uma movimentação.
func MovementFromEntity(m *entity.MovementRecord) MovementResponse {
	return MovementResponse{
		ID:                    m.ID,
		CorrelationID:         m.CorrelationID,
		StockRecordID:         m.StockRecordID,
		ItemID:                m.ItemID,
		LocationID:            m.LocationID,
		Kind:                  m.Kind,
		Status:                m.Status,
		Quantity:              m.Quantity,
		BalanceBefore:         m.BalanceBefore,
		BalanceAfter:          m.BalanceAfter,
		UnitCost:              m.UnitCost,
		TotalCost:             m.TotalCost,
		SourceDocument:        m.SourceDocument,
		Reason:                m.Reason,
		OriginLocationID:      m.OriginLocationID,
		DestinationLocationID: m.DestinationLocationID,
		ReversedByID:          m.ReversedByID,
		ReversedAt:            m.ReversedAt,
		ActorID:               m.ActorID,
		OccurredAt:            m.OccurredAt,
	}
}

// AlertResponse representação de um alerta.
type AlertResponse struct {
	ID             string     `json:"id"`
	ItemID         string     `json:"item_id"`
	StockRecordID  string     `json:"stock_record_id"`
	Kind           string     `json:"kind"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	RaisedAt       time.Time  `json:"raised_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy     string     `json:"resolved_by,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
}

// AlertFromEntity monta a resposta de um alerta.
func AlertFromEntity(a *entity.AlertRecord) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		ItemID:         a.ItemID,
		StockRecordID:  a.StockRecordID,
		Kind:           a.Kind,
		Severity:       a.Severity,
		Status:         a.Status,
		Title:          a.Title,
		Message:        a.Message,
		RaisedAt:       a.RaisedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		ResolvedAt:     a.ResolvedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolutionNote: a.ResolutionNote,
	}
}

// ResolveAlertRequest corpo para resolver/descartar um alerta.
type ResolveAlertRequest struct {
	ResolutionNote string `json:"resolution_note"`
}

// ApproveReplenishmentRequest corpo para aprovar uma sugestão.
type ApproveReplenishmentRequest struct {
	QuantityRequested *decimal.Decimal `json:"quantity_requested,omitempty"`
}

// RequestReplenishmentRequest corpo para solicitar ao fornecedor.
type RequestReplenishmentRequest struct {
	SupplierID           string     `json:"supplier_id"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
}

// ReceiveReplenishmentRequest corpo para registrar um recebimento
// (parcial ou total).
type ReceiveReplenishmentRequest struct {
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	SourceDocument string           `json:"source_document,omitempty"`
}

// CancelReplenishmentRequest corpo para cancelar (motivo obrigatório).
type CancelReplenishmentRequest struct {
	Reason string `json:"reason"`
}

// ReplenishmentResponse representação de uma reposição.
type ReplenishmentResponse struct {
	ID                   string          `json:"id"`
	ItemID               string          `json:"item_id"`
	StockRecordID        string          `json:"stock_record_id"`
	Kind                 string          `json:"kind"`
	Status               string          `json:"status"`
	Priority             string          `json:"priority"`
	QuantitySuggested    decimal.Decimal `json:"quantity_suggested"`
	QuantityRequested    decimal.Decimal `json:"quantity_requested"`
	QuantityFulfilled    decimal.Decimal `json:"quantity_fulfilled"`
	SuggestedDate        time.Time       `json:"suggested_date"`
	RequestedDate        *time.Time      `json:"requested_date,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	SupplierID           string          `json:"supplier_id,omitempty"`
	RequesterID          string          `json:"requester_id,omitempty"`
	ApproverID           string          `json:"approver_id,omitempty"`
	CancelReason         string          `json:"cancel_reason,omitempty"`
	Delayed              bool            `json:"delayed"`
}

// ReplenishmentFromEntity monta a resposta com o atraso derivado.
func ReplenishmentFromEntity(r *entity.ReplenishmentRecord, now time.Time) ReplenishmentResponse {
	return ReplenishmentResponse{
		ID:                   r.ID,
		ItemID:               r.ItemID,
		StockRecordID:        r.StockRecordID,
		Kind:                 r.Kind,
		Status:               r.Status,
		Priority:             r.Priority,
		QuantitySuggested:    r.QuantitySuggested,
		QuantityRequested:    r.QuantityRequested,
		QuantityFulfilled:    r.QuantityFulfilled,
		SuggestedDate:        r.SuggestedDate,
		RequestedDate:        r.RequestedDate,
		ExpectedDeliveryDate: r.ExpectedDeliveryDate,
		ActualDeliveryDate:   r.ActualDeliveryDate,
		SupplierID:           r.SupplierID,
		RequesterID:          r.RequesterID,
		ApproverID:           r.ApproverID,
		CancelReason:         r.CancelReason,
		Delayed:              r.IsDelayed(now),
	}
}

// ChecksReportResponse resultado da varredura automática.
type ChecksReportResponse struct {
	RecordsChecked     int `json:"records_checked"`
	AlertsRaised       int `json:"alerts_raised"`
	SuggestionsCreated int `json:"suggestions_created"`
	Skipped            int `json:"skipped"`
}
