package stockkeeping

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/inventory"
)

// ReconcileTransferLines re-deriva las líneas de traslado contra el snapshot de una bodega.
// Solo toca las líneas cuyo origen es la bodega del snapshot:
//   - variante ausente o sin stock → la línea se elimina
//   - en otro caso Available toma el valor nuevo y Quantity se recorta a [0, Available]
//
// Función pura e idempotente: no modifica el slice recibido.
func ReconcileTransferLines(lines []entity.StockLine, snap *WarehouseSnapshot) []entity.StockLine {
	out := make([]entity.StockLine, 0, len(lines))
	for _, l := range lines {
		if snap == nil || l.SourceWarehouseID != snap.WarehouseID {
			out = append(out, l)
			continue
		}
		e, ok := snap.Lookup(l.VariantID)
		if !ok || e.OnHand <= 0 {
			continue
		}
		l.Available = e.OnHand
		l.Quantity = clampTo(l.Quantity, e.OnHand)
		out = append(out, l)
	}
	return out
}

// RebindTransferLines lleva a sourceID las líneas del selector que apuntan a otra bodega
// (cambio de bodega origen). Con snapshot de sourceID cada línea movida se re-deriva contra él:
// variante ausente o sin stock → se elimina; si no, Available toma el valor nuevo y
// Quantity se recorta. Sin snapshot solo cambia el origen y la línea queda sin existencias
// cargadas hasta la próxima consulta. Las líneas sembradas no se tocan. Si la variante ya
// tenía línea en sourceID se conserva esa.
//
// Función pura e idempotente: no modifica el slice recibido.
func RebindTransferLines(lines []entity.StockLine, sourceID string, snap *WarehouseSnapshot) []entity.StockLine {
	if snap != nil && snap.WarehouseID != sourceID {
		snap = nil
	}
	taken := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.SourceWarehouseID == sourceID {
			taken[l.ID()] = true
		}
	}
	out := make([]entity.StockLine, 0, len(lines))
	for _, l := range lines {
		if l.Seeded || l.SourceWarehouseID == sourceID {
			out = append(out, l)
			continue
		}
		if snap != nil {
			e, ok := snap.Lookup(l.VariantID)
			if !ok || e.OnHand <= 0 {
				continue
			}
			l.Available = e.OnHand
			l.Quantity = clampTo(l.Quantity, e.OnHand)
		}
		l.SourceWarehouseID = sourceID
		if taken[l.ID()] {
			continue
		}
		taken[l.ID()] = true
		out = append(out, l)
	}
	return out
}

// ReconcileReconciliationLines re-deriva las líneas de conciliación contra una búsqueda.
// Si la búsqueda fue filtrada, una variante ausente no implica que no tenga stock:
// la línea se conserva sin cambios. Con búsqueda completa, la ausencia la elimina.
func ReconcileReconciliationLines(lines []entity.ReconciliationLine, snap *UnallocatedSnapshot) []entity.ReconciliationLine {
	out := make([]entity.ReconciliationLine, 0, len(lines))
	for _, l := range lines {
		if snap == nil {
			out = append(out, l)
			continue
		}
		row, ok := snap.Lookup(l.VariantID)
		if !ok {
			if !snap.Complete {
				out = append(out, l)
			}
			continue
		}
		if row.UnallocatedOnHand <= 0 {
			continue
		}
		l.UnallocatedOnHand = row.UnallocatedOnHand
		l.Quantity = clampTo(l.Quantity, row.UnallocatedOnHand)
		out = append(out, l)
	}
	return out
}

func clampTo(quantity, max int) int {
	return inventory.ClampQuantity(decimal.NewFromInt(int64(quantity)), max)
}

func indexOfTransferLine(lines []entity.StockLine, lineID string) int {
	for i, l := range lines {
		if l.ID() == lineID {
			return i
		}
	}
	return -1
}

func indexOfReconciliationLine(lines []entity.ReconciliationLine, lineID string) int {
	for i, l := range lines {
		if l.ID() == lineID {
			return i
		}
	}
	return -1
}

// removeAt devuelve una copia del slice sin el elemento i.
func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
