package stockkeeping

import (
	"time"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// WarehouseSnapshot existencias de una bodega tal como se leyeron del ledger remoto.
// Solo conserva entradas con OnHand > 0. Es inmutable una vez construido.
type WarehouseSnapshot struct {
	WarehouseID string
	Warehouse   entity.Warehouse
	FetchedAt   time.Time
	order       []string
	entries     map[string]entity.StockEntry
}

// NewWarehouseSnapshot construye el snapshot descartando existencias no positivas.
// Si una variante llega repetida se conserva la primera aparición.
func NewWarehouseSnapshot(warehouseID string, warehouse entity.Warehouse, entries []entity.StockEntry, fetchedAt time.Time) *WarehouseSnapshot {
	s := &WarehouseSnapshot{
		WarehouseID: warehouseID,
		Warehouse:   warehouse,
		FetchedAt:   fetchedAt,
		entries:     make(map[string]entity.StockEntry, len(entries)),
	}
	for _, e := range entries {
		if e.OnHand <= 0 || e.VariantID == "" {
			continue
		}
		if _, dup := s.entries[e.VariantID]; dup {
			continue
		}
		e.WarehouseID = warehouseID
		s.order = append(s.order, e.VariantID)
		s.entries[e.VariantID] = e
	}
	return s
}

// Lookup devuelve la existencia de la variante en la bodega.
func (s *WarehouseSnapshot) Lookup(variantID string) (entity.StockEntry, bool) {
	if s == nil {
		return entity.StockEntry{}, false
	}
	e, ok := s.entries[variantID]
	return e, ok
}

// Entries devuelve las existencias en el orden del servicio remoto.
func (s *WarehouseSnapshot) Entries() []entity.StockEntry {
	if s == nil {
		return nil
	}
	out := make([]entity.StockEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// UnallocatedSnapshot resultado de una búsqueda de variantes con stock no atribuido.
// Complete indica que la búsqueda fue sin filtro: la ausencia de una variante
// significa entonces que ya no tiene stock pendiente.
type UnallocatedSnapshot struct {
	Term      string // término normalizado
	Complete  bool
	FetchedAt time.Time
	order     []string
	rows      map[string]entity.UnallocatedVariant
}

// NewUnallocatedSnapshot construye el snapshot de la búsqueda.
func NewUnallocatedSnapshot(term string, rows []entity.UnallocatedVariant, fetchedAt time.Time) *UnallocatedSnapshot {
	norm := NormalizeSearchTerm(term)
	s := &UnallocatedSnapshot{
		Term:      norm,
		Complete:  norm == "",
		FetchedAt: fetchedAt,
		rows:      make(map[string]entity.UnallocatedVariant, len(rows)),
	}
	for _, r := range rows {
		if r.VariantID == "" {
			continue
		}
		if _, dup := s.rows[r.VariantID]; dup {
			continue
		}
		s.order = append(s.order, r.VariantID)
		s.rows[r.VariantID] = r
	}
	return s
}

// Lookup devuelve la fila de la variante.
func (s *UnallocatedSnapshot) Lookup(variantID string) (entity.UnallocatedVariant, bool) {
	if s == nil {
		return entity.UnallocatedVariant{}, false
	}
	r, ok := s.rows[variantID]
	return r, ok
}

// Rows devuelve las filas en el orden del servicio remoto.
func (s *UnallocatedSnapshot) Rows() []entity.UnallocatedVariant {
	if s == nil {
		return nil
	}
	out := make([]entity.UnallocatedVariant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	return out
}
