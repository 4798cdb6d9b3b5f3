package entity

import "time"

// Tipos de alerta derivados do razão de estoque.
const (
	AlertKindLowStock             = "LOW_STOCK"
	AlertKindZeroStock            = "ZERO_STOCK"
	AlertKindExcessStock          = "EXCESS_STOCK"
	AlertKindExpiringSoon         = "EXPIRING_SOON"
	AlertKindExpired              = "EXPIRED"
	AlertKindStaleLot             = "STALE_LOT"
	AlertKindDelayedReplenishment = "DELAYED_REPLENISHMENT"
	AlertKindAbnormalMovement     = "ABNORMAL_MOVEMENT"
)

// Severidades de alerta.
const (
	AlertSeverityLow      = "LOW"
	AlertSeverityMedium   = "MEDIUM"
	AlertSeverityHigh     = "HIGH"
	AlertSeverityCritical = "CRITICAL"
)

// Situações de um alerta.
const (
	AlertStatusOpen         = "OPEN"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
	AlertStatusDismissed    = "DISMISSED"
)

// AlertRecord representa um alerta derivado pela avaliação de regras sobre o
// razão de estoque. No máximo um alerta aberto por (item, tipo) pode existir.
type AlertRecord struct {
	ID             string
	ItemID         string
	StockRecordID  string
	Kind           string
	Severity       string
	Status         string
	Title          string
	Message        string
	RaisedAt       time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string
	ResolvedAt     *time.Time
	ResolvedBy     string
	ResolutionNote string
}

// IsOpen alerta ainda não resolvido nem descartado (inclui reconhecidos).
func (a *AlertRecord) IsOpen() bool {
	return a.Status == AlertStatusOpen || a.Status == AlertStatusAcknowledged
}
