package dto

import "time"

// ── Directorio y desglose ─────────────────────────────────────────────────────

// WarehouseResponse bodega del servicio de inventario.
type WarehouseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	IsActive bool   `json:"is_active"`
}

// WarehouseListResponse listado de bodegas.
type WarehouseListResponse struct {
	Rows []WarehouseResponse `json:"rows"`
}

// BreakdownRowResponse fila (variante, bodega) del desglose.
type BreakdownRowResponse struct {
	VariantID     string `json:"variant_id"`
	SKU           string `json:"sku"`
	WarehouseID   string `json:"warehouse_id,omitempty"`
	WarehouseName string `json:"warehouse_name,omitempty"`
	WarehouseCode string `json:"warehouse_code,omitempty"`
	OnHand        int    `json:"on_hand"`
}

// VariantSummaryResponse totales por variante con faltante de reorden.
type VariantSummaryResponse struct {
	VariantID        string `json:"variant_id"`
	SKU              string `json:"sku"`
	OnHand           int    `json:"on_hand"`
	ReorderThreshold int    `json:"reorder_threshold"`
	InTransit        int    `json:"in_transit"`
	Shortage         int    `json:"shortage"`
}

// BreakdownResponse desglose por bodega de un producto o variante.
type BreakdownResponse struct {
	ProductID                string                   `json:"product_id"`
	ProductName              string                   `json:"product_name"`
	Scope                    string                   `json:"scope"`
	Rows                     []BreakdownRowResponse   `json:"rows"`
	Variants                 []VariantSummaryResponse `json:"variants"`
	VariantCount             int                      `json:"variant_count"`
	WarehouseCount           int                      `json:"warehouse_count"`
	TotalOnHand              int                      `json:"total_on_hand"`
	DefaultSourceWarehouseID string                   `json:"default_source_warehouse_id,omitempty"`
}

// ── Sesiones: requests ────────────────────────────────────────────────────────

// SelectWarehouseRequest bodega origen, o destino/bodega común para todas las líneas.
type SelectWarehouseRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// AddLineRequest variante a agregar a la selección.
type AddLineRequest struct {
	VariantID string `json:"variant_id"`
}

// SeedLinesRequest siembra líneas desde una fila del desglose.
type SeedLinesRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// UpdateTransferLineRequest cambios parciales de una línea de traslado.
type UpdateTransferLineRequest struct {
	Quantity               *RequestedQuantity `json:"quantity"`
	DestinationWarehouseID *string            `json:"destination_warehouse_id"`
}

// UpdateReconciliationLineRequest cambios parciales de una línea de conciliación.
type UpdateReconciliationLineRequest struct {
	Quantity          *RequestedQuantity `json:"quantity"`
	TargetWarehouseID *string            `json:"target_warehouse_id"`
}

// SubmitRequest envío de la selección.
type SubmitRequest struct {
	Reason string `json:"reason"`
}

// ── Sesiones: responses ───────────────────────────────────────────────────────

// LineDisplayResponse datos informativos de la línea.
type LineDisplayResponse struct {
	ProductName string `json:"product_name,omitempty"`
	SKU         string `json:"sku,omitempty"`
	SizeText    string `json:"size_text,omitempty"`
	ColorText   string `json:"color_text,omitempty"`
	Image       string `json:"image,omitempty"`
}

// LineIssueResponse motivo de invalidez de una línea.
type LineIssueResponse struct {
	LineID  string `json:"line_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResponse resultado de validar la selección.
type ValidationResponse struct {
	Submittable bool                `json:"submittable"`
	Blocker     string              `json:"blocker,omitempty"`
	Problems    []LineIssueResponse `json:"problems"`
}

// TransferLineResponse línea de traslado.
type TransferLineResponse struct {
	LineID                 string              `json:"line_id"`
	VariantID              string              `json:"variant_id"`
	SourceWarehouseID      string              `json:"source_warehouse_id"`
	DestinationWarehouseID string              `json:"destination_warehouse_id,omitempty"`
	Available              int                 `json:"available"`
	Quantity               int                 `json:"quantity"`
	Display                LineDisplayResponse `json:"display"`
	Issue                  string              `json:"issue,omitempty"`
}

// TransferSessionResponse estado de la sesión de traslado.
type TransferSessionResponse struct {
	SessionID         string                 `json:"session_id"`
	SourceWarehouseID string                 `json:"source_warehouse_id,omitempty"`
	Lines             []TransferLineResponse `json:"lines"`
	Validation        ValidationResponse     `json:"validation"`
	Fetching          bool                   `json:"fetching"`
	Submitting        bool                   `json:"submitting"`
}

// StockEntryResponse existencia de una variante en la bodega origen.
type StockEntryResponse struct {
	VariantID string              `json:"variant_id"`
	OnHand    int                 `json:"on_hand"`
	Display   LineDisplayResponse `json:"display"`
}

// SourceStockResponse existencias vigentes de la bodega origen.
type SourceStockResponse struct {
	WarehouseID string               `json:"warehouse_id"`
	FetchedAt   time.Time            `json:"fetched_at"`
	Rows        []StockEntryResponse `json:"rows"`
}

// BatchResponse resultado de un lote remoto.
type BatchResponse struct {
	SubmissionID    string   `json:"submission_id,omitempty"`
	FromWarehouseID string   `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string   `json:"to_warehouse_id,omitempty"`
	LineIDs         []string `json:"line_ids"`
	ItemsSubmitted  int      `json:"items_submitted"`
	ItemsProcessed  int      `json:"items_processed"`
	Status          string   `json:"status"`
	Message         string   `json:"message,omitempty"`
}

// TransferSubmitResponse resultado del traslado.
type TransferSubmitResponse struct {
	ItemsProcessed  int             `json:"items_processed"`
	RefreshRequired bool            `json:"refresh_required"`
	Batches         []BatchResponse `json:"batches"`
}

// SubmitFailureResponse el servicio remoto rechazó un lote. Message es el texto remoto.
type SubmitFailureResponse struct {
	Code            string          `json:"code"`
	Message         string          `json:"message"`
	RefreshRequired bool            `json:"refresh_required"`
	Batches         []BatchResponse `json:"batches,omitempty"`
}

// NotSubmittableResponse la selección no pasó la validación local.
type NotSubmittableResponse struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Validation ValidationResponse `json:"validation"`
}

// UnallocatedRowResponse variante con stock no atribuido.
type UnallocatedRowResponse struct {
	VariantID         string              `json:"variant_id"`
	UnallocatedOnHand int                 `json:"unallocated_on_hand"`
	Display           LineDisplayResponse `json:"display"`
}

// UnallocatedSearchResponse resultado de búsqueda.
type UnallocatedSearchResponse struct {
	Term string                   `json:"term"`
	Rows []UnallocatedRowResponse `json:"rows"`
}

// ReconciliationLineResponse línea de conciliación.
type ReconciliationLineResponse struct {
	LineID            string              `json:"line_id"`
	VariantID         string              `json:"variant_id"`
	UnallocatedOnHand int                 `json:"unallocated_on_hand"`
	TargetWarehouseID string              `json:"target_warehouse_id,omitempty"`
	Quantity          int                 `json:"quantity"`
	Display           LineDisplayResponse `json:"display"`
	Issue             string              `json:"issue,omitempty"`
}

// ReconciliationSessionResponse estado de la sesión de conciliación.
type ReconciliationSessionResponse struct {
	SessionID  string                       `json:"session_id"`
	SearchTerm string                       `json:"search_term"`
	Lines      []ReconciliationLineResponse `json:"lines"`
	Validation ValidationResponse           `json:"validation"`
	Fetching   bool                         `json:"fetching"`
	Submitting bool                         `json:"submitting"`
}

// ReconciliationSubmitResponse resultado de la conciliación.
type ReconciliationSubmitResponse struct {
	SubmissionID    string `json:"submission_id"`
	ItemsProcessed  int    `json:"items_processed"`
	RefreshRequired bool   `json:"refresh_required"`
}
