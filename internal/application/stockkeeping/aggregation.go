package stockkeeping

import (
	"sort"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/inventory"
)

// BreakdownScope alcance del desglose por bodega.
type BreakdownScope string

const (
	ScopeProduct BreakdownScope = "product"
	ScopeVariant BreakdownScope = "variant"
)

// ParseBreakdownScope interpreta el alcance; cualquier valor distinto de "variant" es producto.
func ParseBreakdownScope(s string) BreakdownScope {
	if BreakdownScope(s) == ScopeVariant {
		return ScopeVariant
	}
	return ScopeProduct
}

// BreakdownInput fila de la tabla (una variante) y su producto padre.
type BreakdownInput struct {
	Product *entity.Product
	Row     entity.ProductVariant
	Scope   BreakdownScope
}

// VariantStockSummary totales de una variante con su faltante de reorden.
type VariantStockSummary struct {
	VariantID        string
	SKU              string
	OnHand           int
	ReorderThreshold int
	InTransit        int
	Shortage         int
}

// Breakdown desglose por bodega derivado (solo lectura).
type Breakdown struct {
	Rows           []entity.WarehouseBreakdownRow
	Variants       []VariantStockSummary
	VariantCount   int
	WarehouseCount int
	TotalOnHand    int
}

// ScopedVariants selecciona las variantes del alcance. Si la fila no aparece entre
// las variantes del padre (o el padre no trae variantes) se usa la fila misma.
func ScopedVariants(in BreakdownInput) []entity.ProductVariant {
	if in.Scope == ScopeVariant {
		if v, ok := in.Product.FindVariant(in.Row.ID); ok {
			return []entity.ProductVariant{v}
		}
		return []entity.ProductVariant{in.Row}
	}
	if in.Product == nil || len(in.Product.Variants) == 0 {
		return []entity.ProductVariant{in.Row}
	}
	return in.Product.Variants
}

// positiveSummary filtra el resumen a OnHand > 0 y lo ordena de mayor a menor
// (estable: los empates conservan el orden original).
func positiveSummary(v entity.ProductVariant) []entity.WarehouseOnHand {
	out := make([]entity.WarehouseOnHand, 0, len(v.WarehouseSummary))
	for _, w := range v.WarehouseSummary {
		if w.OnHand > 0 {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OnHand > out[j].OnHand })
	return out
}

// BuildBreakdown emite una fila por (variante, bodega) con stock; una variante sin stock
// en ninguna bodega produce una fila con OnHand = 0 y sin bodega.
func BuildBreakdown(in BreakdownInput) Breakdown {
	variants := ScopedVariants(in)
	var b Breakdown
	warehouses := make(map[string]struct{})
	for _, v := range variants {
		summary := positiveSummary(v)
		onHand := 0
		if len(summary) == 0 {
			b.Rows = append(b.Rows, entity.WarehouseBreakdownRow{VariantID: v.ID, SKU: v.SKU})
		}
		for _, w := range summary {
			b.Rows = append(b.Rows, entity.WarehouseBreakdownRow{
				VariantID:     v.ID,
				SKU:           v.SKU,
				WarehouseID:   w.WarehouseID,
				WarehouseName: w.WarehouseName,
				WarehouseCode: w.WarehouseCode,
				OnHand:        w.OnHand,
			})
			warehouses[w.WarehouseID] = struct{}{}
			onHand += w.OnHand
		}
		b.Variants = append(b.Variants, VariantStockSummary{
			VariantID:        v.ID,
			SKU:              v.SKU,
			OnHand:           onHand,
			ReorderThreshold: v.ReorderThreshold,
			InTransit:        v.InTransit,
			Shortage:         inventory.ComputeReorderShortage(onHand, v.ReorderThreshold, v.InTransit),
		})
		b.TotalOnHand += onHand
	}
	b.VariantCount = len(variants)
	b.WarehouseCount = len(warehouses)
	return b
}

// DefaultSourceWarehouse suma el stock por bodega habilitada para traslados entre las
// variantes dadas y devuelve la de mayor total (empates: la primera encontrada).
// Con directorio nil no se filtra por estado. Devuelve false si ninguna tiene stock.
func DefaultSourceWarehouse(variants []entity.ProductVariant, dir *entity.WarehouseDirectory) (string, bool) {
	totals := make(map[string]int)
	var order []string
	for _, v := range variants {
		for _, w := range v.WarehouseSummary {
			if w.OnHand <= 0 {
				continue
			}
			if dir != nil && !dir.IsTransferEligible(w.WarehouseID) {
				continue
			}
			if _, seen := totals[w.WarehouseID]; !seen {
				order = append(order, w.WarehouseID)
			}
			totals[w.WarehouseID] += w.OnHand
		}
	}
	best, bestTotal := "", 0
	for _, id := range order {
		if totals[id] > bestTotal {
			best, bestTotal = id, totals[id]
		}
	}
	return best, best != ""
}
