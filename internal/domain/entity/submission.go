package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de envío registrados en la bitácora.
const (
	SubmissionKindTransfer       = "TRANSFER"
	SubmissionKindReconciliation = "RECONCILIATION"
)

// Estados de un lote enviado.
const (
	SubmissionStatusCommitted = "COMMITTED"
	SubmissionStatusFailed    = "FAILED"
	SubmissionStatusSkipped   = "SKIPPED" // abortado por la falla de un lote anterior
)

// SubmissionItem ítem enviado al servicio remoto.
// WarehouseID solo se usa en conciliación (destino por ítem).
type SubmissionItem struct {
	VariantID   string `json:"product_variant_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

// SubmissionRecord registro de bitácora de un lote remoto (uno por llamada).
// Los lotes confirmados no se revierten si uno posterior falla.
type SubmissionRecord struct {
	ID              string
	SessionID       string
	Kind            string
	FromWarehouseID string
	ToWarehouseID   string
	Reason          string
	Items           []SubmissionItem
	TotalQuantity   decimal.Decimal
	ItemsProcessed  int
	Status          string
	ErrorMessage    string
	CreatedBy       string
	CreatedAt       time.Time
}
