package stockkeeping

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
)

// SnapshotCache guarda los últimos snapshots leídos del ledger remoto para una sesión.
// No se comparte entre sesiones: cada pantalla tiene el suyo y lo invalida explícitamente
// después de un envío.
//
// Cada consulta lleva un número de secuencia por clave; solo la respuesta de la consulta
// más reciente se guarda (last-write-wins). Invalidate también descarta respuestas en vuelo.
type SnapshotCache struct {
	gateway ports.InventoryGateway
	log     zerolog.Logger
	now     func() time.Time

	mu           sync.Mutex
	warehouses   map[string]*WarehouseSnapshot
	warehouseSeq map[string]uint64
	unallocated  *UnallocatedSnapshot
	searchSeq    uint64
	inFlight     int
}

// NewSnapshotCache construye la caché de la sesión.
func NewSnapshotCache(gateway ports.InventoryGateway, log zerolog.Logger) *SnapshotCache {
	return &SnapshotCache{
		gateway:      gateway,
		log:          log,
		now:          time.Now,
		warehouses:   make(map[string]*WarehouseSnapshot),
		warehouseSeq: make(map[string]uint64),
	}
}

// Fetching indica si hay alguna consulta remota en curso.
func (c *SnapshotCache) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// FetchWarehouseStock consulta las existencias de la bodega y reemplaza su snapshot.
// Si la consulta falla el snapshot de esa bodega se borra y el error se devuelve (sin reintento).
// Si mientras tanto se lanzó otra consulta para la misma bodega, devuelve domain.ErrSuperseded.
func (c *SnapshotCache) FetchWarehouseStock(ctx context.Context, warehouseID string) (*WarehouseSnapshot, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	c.mu.Lock()
	c.warehouseSeq[warehouseID]++
	seq := c.warehouseSeq[warehouseID]
	c.inFlight++
	c.mu.Unlock()

	res, err := c.gateway.WarehouseStock(ctx, warehouseID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if c.warehouseSeq[warehouseID] != seq {
		c.log.Debug().Str("warehouse_id", warehouseID).Msg("respuesta de existencias descartada")
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		delete(c.warehouses, warehouseID)
		c.log.Warn().Err(err).Str("warehouse_id", warehouseID).Msg("consulta de existencias fallida")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	snap := NewWarehouseSnapshot(warehouseID, res.Warehouse, res.Entries, c.now())
	c.warehouses[warehouseID] = snap
	return snap, nil
}

// Warehouse devuelve el snapshot vigente de la bodega, si existe.
func (c *SnapshotCache) Warehouse(warehouseID string) (*WarehouseSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.warehouses[warehouseID]
	return s, ok
}

// HasWarehouse indica si hay snapshot vigente para la bodega.
func (c *SnapshotCache) HasWarehouse(warehouseID string) bool {
	_, ok := c.Warehouse(warehouseID)
	return ok
}

// FetchUnallocated busca variantes con stock no atribuido. Una búsqueda más nueva
// reemplaza a la anterior: la respuesta vieja se descarta con domain.ErrSuperseded
// aunque haya fallado.
func (c *SnapshotCache) FetchUnallocated(ctx context.Context, term string) (*UnallocatedSnapshot, error) {
	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.inFlight++
	c.mu.Unlock()

	rows, err := c.gateway.UnallocatedVariants(ctx, strings.TrimSpace(term))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if c.searchSeq != seq {
		c.log.Debug().Str("term", term).Msg("búsqueda reemplazada por una más reciente")
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		c.unallocated = nil
		c.log.Warn().Err(err).Str("term", term).Msg("búsqueda de stock no atribuido fallida")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	snap := NewUnallocatedSnapshot(term, rows, c.now())
	c.unallocated = snap
	return snap, nil
}

// Unallocated devuelve el último resultado de búsqueda vigente.
func (c *SnapshotCache) Unallocated() (*UnallocatedSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unallocated, c.unallocated != nil
}

// Invalidate borra todos los snapshots y descarta las respuestas que sigan en vuelo.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.warehouses {
		delete(c.warehouses, id)
	}
	for id := range c.warehouseSeq {
		c.warehouseSeq[id]++
	}
	c.unallocated = nil
	c.searchSeq++
}
