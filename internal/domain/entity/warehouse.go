package entity

// Warehouse representa una bodega del ledger remoto (multi-bodega).
// Solo las bodegas activas pueden ser origen o destino de un traslado.
type Warehouse struct {
	ID       string
	Name     string
	Code     string
	IsActive bool
}

// WarehouseDirectory índice de bodegas por ID que conserva el orden de llegada.
type WarehouseDirectory struct {
	order []string
	byID  map[string]Warehouse
}

// NewWarehouseDirectory construye el directorio a partir del listado remoto.
func NewWarehouseDirectory(list []Warehouse) *WarehouseDirectory {
	d := &WarehouseDirectory{byID: make(map[string]Warehouse, len(list))}
	for _, w := range list {
		if _, dup := d.byID[w.ID]; dup {
			continue
		}
		d.order = append(d.order, w.ID)
		d.byID[w.ID] = w
	}
	return d
}

// Get devuelve la bodega con el ID indicado.
func (d *WarehouseDirectory) Get(id string) (Warehouse, bool) {
	if d == nil {
		return Warehouse{}, false
	}
	w, ok := d.byID[id]
	return w, ok
}

// IsTransferEligible indica si la bodega existe y está activa.
func (d *WarehouseDirectory) IsTransferEligible(id string) bool {
	w, ok := d.Get(id)
	return ok && w.IsActive
}

// List devuelve las bodegas en el orden original.
func (d *WarehouseDirectory) List() []Warehouse {
	if d == nil {
		return nil
	}
	out := make([]Warehouse, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Len cantidad de bodegas conocidas.
func (d *WarehouseDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}
