package stockkeeping

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// CatalogUseCase lecturas que no dependen de una sesión: directorio de bodegas y
// desglose de stock por bodega de un producto o variante.
type CatalogUseCase struct {
	gateway ports.InventoryGateway
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(gateway ports.InventoryGateway) *CatalogUseCase {
	return &CatalogUseCase{gateway: gateway}
}

// BreakdownView desglose más la bodega origen sugerida.
type BreakdownView struct {
	ProductID                string
	ProductName              string
	Scope                    BreakdownScope
	Breakdown                Breakdown
	DefaultSourceWarehouseID string
}

// Warehouses devuelve el directorio de bodegas.
func (uc *CatalogUseCase) Warehouses(ctx context.Context) ([]entity.Warehouse, error) {
	list, err := uc.gateway.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return list, nil
}

// ProductBreakdown arma el desglose por bodega. variantID vacío con alcance de variante
// es entrada inválida; con alcance de producto se usa solo como fila de respaldo.
func (uc *CatalogUseCase) ProductBreakdown(ctx context.Context, productID, variantID string, scope BreakdownScope) (*BreakdownView, error) {
	if productID == "" || (scope == ScopeVariant && variantID == "") {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.gateway.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	warehouses, err := uc.gateway.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	row := entity.ProductVariant{ID: variantID, ProductID: product.ID, ProductName: product.Name}
	if v, ok := product.FindVariant(variantID); ok {
		row = v
	}
	in := BreakdownInput{Product: product, Row: row, Scope: scope}
	view := &BreakdownView{
		ProductID:   product.ID,
		ProductName: product.Name,
		Scope:       scope,
		Breakdown:   BuildBreakdown(in),
	}
	if id, ok := DefaultSourceWarehouse(ScopedVariants(in), entity.NewWarehouseDirectory(warehouses)); ok {
		view.DefaultSourceWarehouseID = id
	}
	return view, nil
}
