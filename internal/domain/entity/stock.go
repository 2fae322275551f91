package entity

// StockEntry existencia de una variante en una bodega (lectura del ledger remoto).
// El valor autoritativo vive en el servicio de inventario; aquí solo hay una copia de lectura.
type StockEntry struct {
	VariantID   string
	WarehouseID string
	OnHand      int
	Variant     ProductVariant
}

// UnallocatedVariant variante con stock aún no atribuido a ninguna bodega.
type UnallocatedVariant struct {
	VariantID         string
	ProductName       string
	SKU               string
	SizeText          string
	ColorText         string
	UnallocatedOnHand int
	Images            []string
}

// Display datos informativos para la línea de conciliación.
func (u UnallocatedVariant) Display() LineDisplay {
	d := LineDisplay{
		ProductName: u.ProductName,
		SKU:         u.SKU,
		SizeText:    u.SizeText,
		ColorText:   u.ColorText,
	}
	if len(u.Images) > 0 {
		d.Image = u.Images[0]
	}
	return d
}

// LineDisplay metadatos solo informativos; nunca participan en la validación.
type LineDisplay struct {
	ProductName string
	SKU         string
	SizeText    string
	ColorText   string
	Image       string
}

// StockLine línea de traslado elegida por el operador.
// Available está atado al último snapshot de la bodega origen.
// Las líneas del selector siguen a la bodega origen de la sesión; las sembradas
// desde el desglose (Seeded) conservan su propia bodega.
type StockLine struct {
	VariantID              string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Available              int
	Quantity               int
	Seeded                 bool
	Display                LineDisplay
}

// ID identifica la línea dentro de la selección. Una misma variante puede aparecer
// una vez por bodega origen (sembrado desde el desglose por bodega).
func (l StockLine) ID() string {
	return TransferLineID(l.VariantID, l.SourceWarehouseID)
}

// TransferLineID compone el ID de una línea de traslado.
func TransferLineID(variantID, sourceWarehouseID string) string {
	return variantID + "@" + sourceWarehouseID
}

// ReconciliationLine línea de conciliación: asigna stock no atribuido a una bodega.
type ReconciliationLine struct {
	VariantID         string
	UnallocatedOnHand int
	TargetWarehouseID string
	Quantity          int
	Display           LineDisplay
}

// ID identifica la línea (una por variante).
func (l ReconciliationLine) ID() string {
	return l.VariantID
}

// WarehouseBreakdownRow fila derivada (solo lectura) del desglose por bodega.
type WarehouseBreakdownRow struct {
	VariantID     string
	SKU           string
	WarehouseID   string
	WarehouseName string
	WarehouseCode string
	OnHand        int
}
