package ports

import (
	"context"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// InventoryGateway define el puerto de salida hacia el servicio remoto de inventario.
// El ledger remoto es la fuente de verdad; este módulo solo lee snapshots y envía
// lotes ya validados localmente. Cualquier adaptador (HTTP, mock) implementa esta interfaz.
// Todas las operaciones deben respetar la cancelación del contexto.
type InventoryGateway interface {
	// ListWarehouses devuelve el directorio de bodegas (activas e inactivas).
	ListWarehouses(ctx context.Context) ([]entity.Warehouse, error)
	// GetProduct devuelve el producto con sus variantes y el resumen de stock por bodega.
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	// WarehouseStock devuelve las existencias actuales de una bodega.
	WarehouseStock(ctx context.Context, warehouseID string) (*WarehouseStock, error)
	// UnallocatedVariants lista variantes con stock no atribuido; search vacío = todas.
	UnallocatedVariants(ctx context.Context, search string) ([]entity.UnallocatedVariant, error)
	// TransferStockBulk traslada todos los ítems de una bodega origen a una destino en una sola llamada.
	TransferStockBulk(ctx context.Context, req TransferRequest) (*SubmitResult, error)
	// ReconcileStock asigna stock no atribuido; acepta destinos mezclados en una sola llamada.
	ReconcileStock(ctx context.Context, req ReconcileRequest) (*SubmitResult, error)
}

// WarehouseStock respuesta de existencias de una bodega.
type WarehouseStock struct {
	Warehouse entity.Warehouse
	Entries   []entity.StockEntry
}

// TransferRequest lote de traslado para un par (origen, destino).
type TransferRequest struct {
	FromWarehouseID string
	ToWarehouseID   string
	Reason          string
	Items           []entity.SubmissionItem
}

// ReconcileRequest lote de conciliación (cada ítem trae su bodega destino).
type ReconcileRequest struct {
	Reason string
	Items  []entity.SubmissionItem
}

// SubmitResult resultado de un envío. ItemsProcessed es nil si el servicio no lo informó.
type SubmitResult struct {
	ItemsProcessed *int
}

// RemoteError error devuelto por el servicio remoto. Message se muestra tal cual al operador.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}
