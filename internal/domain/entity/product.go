package entity

// Product producto con sus variantes, tal como lo devuelve el servicio de inventario.
type Product struct {
	ID       string
	Name     string
	Variants []ProductVariant
}

// FindVariant busca una variante por ID dentro del producto.
func (p *Product) FindVariant(variantID string) (ProductVariant, bool) {
	if p == nil {
		return ProductVariant{}, false
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// ProductVariant variante (talla/color) de un producto; es la unidad que se traslada.
// WarehouseSummary trae el stock por bodega tal como lo reporta el ledger (puede incluir ceros).
type ProductVariant struct {
	ID               string
	ProductID        string
	ProductName      string
	SKU              string
	SizeText         string
	ColorText        string
	Images           []string
	WarehouseSummary []WarehouseOnHand
	ReorderThreshold int // 0 = sin política de reorden
	InTransit        int // unidades ya en camino hacia el inventario
}

// Display datos informativos de la variante para las líneas de selección.
func (v ProductVariant) Display() LineDisplay {
	d := LineDisplay{
		ProductName: v.ProductName,
		SKU:         v.SKU,
		SizeText:    v.SizeText,
		ColorText:   v.ColorText,
	}
	if len(v.Images) > 0 {
		d.Image = v.Images[0]
	}
	return d
}

// WarehouseOnHand stock de una variante en una bodega según el resumen del producto.
type WarehouseOnHand struct {
	WarehouseID   string
	WarehouseName string
	WarehouseCode string
	OnHand        int
}
