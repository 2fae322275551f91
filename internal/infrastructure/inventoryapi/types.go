package inventoryapi

import (
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// ── Estructuras del protocolo JSON del servicio de inventario ─────────────────

type warehouseJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive *bool  `json:"isActive"`
}

func (w warehouseJSON) toEntity() entity.Warehouse {
	// Un servicio que no informa el estado solo lista bodegas utilizables.
	active := w.IsActive == nil || *w.IsActive
	return entity.Warehouse{ID: w.ID, Name: w.Name, Code: w.Code, IsActive: active}
}

type warehouseListResponse struct {
	Rows []warehouseJSON `json:"rows"`
}

type productRefJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type variantJSON struct {
	ID               string             `json:"id"`
	ProductID        string             `json:"productId"`
	SKU              string             `json:"sku"`
	SizeText         string             `json:"sizeText"`
	ColorText        string             `json:"colorText"`
	Images           []string           `json:"images"`
	ReorderThreshold int                `json:"reorderThreshold"`
	InTransit        int                `json:"inTransit"`
	WarehouseSummary []warehouseQtyJSON `json:"warehouseSummary"`
}

type warehouseQtyJSON struct {
	WarehouseID   string `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	WarehouseCode string `json:"warehouseCode"`
	Quantity      int    `json:"quantity"`
}

func (v variantJSON) toEntity(productID, productName string) entity.ProductVariant {
	out := entity.ProductVariant{
		ID:               v.ID,
		ProductID:        v.ProductID,
		ProductName:      productName,
		SKU:              v.SKU,
		SizeText:         v.SizeText,
		ColorText:        v.ColorText,
		Images:           v.Images,
		ReorderThreshold: v.ReorderThreshold,
		InTransit:        v.InTransit,
	}
	if out.ProductID == "" {
		out.ProductID = productID
	}
	for _, w := range v.WarehouseSummary {
		out.WarehouseSummary = append(out.WarehouseSummary, entity.WarehouseOnHand{
			WarehouseID:   w.WarehouseID,
			WarehouseName: w.WarehouseName,
			WarehouseCode: w.WarehouseCode,
			OnHand:        w.Quantity,
		})
	}
	return out
}

type productJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Variants []variantJSON `json:"variants"`
}

func (p productJSON) toEntity() *entity.Product {
	out := &entity.Product{ID: p.ID, Name: p.Name}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, v.toEntity(p.ID, p.Name))
	}
	return out
}

type stockRowJSON struct {
	ProductVariantID string         `json:"productVariantId"`
	Product          productRefJSON `json:"product"`
	ProductVariant   variantJSON    `json:"productVariant"`
	Quantity         int            `json:"quantity"`
}

type warehouseStockResponse struct {
	Warehouse warehouseJSON  `json:"warehouse"`
	Stock     []stockRowJSON `json:"stock"`
}

type unallocatedRowJSON struct {
	ProductVariantID  string   `json:"productVariantId"`
	ProductName       string   `json:"productName"`
	SKU               string   `json:"sku"`
	SizeText          string   `json:"sizeText"`
	ColorText         string   `json:"colorText"`
	UnallocatedOnHand int      `json:"unallocatedOnHand"`
	Images            []string `json:"images"`
}

type unallocatedResponse struct {
	Rows []unallocatedRowJSON `json:"rows"`
}

type itemJSON struct {
	ProductVariantID string `json:"productVariantId"`
	WarehouseID      string `json:"warehouseId,omitempty"`
	Quantity         int    `json:"quantity"`
}

func itemsJSON(items []entity.SubmissionItem) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, itemJSON{ProductVariantID: it.VariantID, WarehouseID: it.WarehouseID, Quantity: it.Quantity})
	}
	return out
}

type transferRequestJSON struct {
	FromWarehouseID string     `json:"fromWarehouseId"`
	ToWarehouseID   string     `json:"toWarehouseId"`
	Reason          string     `json:"reason,omitempty"`
	Items           []itemJSON `json:"items"`
}

type reconcileRequestJSON struct {
	Reason string     `json:"reason,omitempty"`
	Items  []itemJSON `json:"items"`
}

type submitResponse struct {
	ItemsProcessed *int `json:"itemsProcessed"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
