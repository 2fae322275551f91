package stockkeeping

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// sessionBase estado común de una pantalla de gestión de stock.
// Cada sesión admite una sola operación lógica a la vez: el mutex se libera durante
// las llamadas remotas y los resultados tardíos de una sesión cerrada se descartan.
type sessionBase struct {
	id           string
	operatorID   string
	gateway      ports.InventoryGateway
	cache        *SnapshotCache
	orchestrator *Orchestrator
	log          zerolog.Logger

	mu         sync.Mutex
	directory  *entity.WarehouseDirectory
	submitting bool
	closed     bool
}

func (s *sessionBase) setup(id, operatorID string, gateway ports.InventoryGateway, orchestrator *Orchestrator, log zerolog.Logger) {
	s.id = id
	s.operatorID = operatorID
	s.gateway = gateway
	s.orchestrator = orchestrator
	s.log = log.With().Str("session_id", id).Logger()
	s.cache = NewSnapshotCache(gateway, s.log)
}

// ID identificador de la sesión.
func (s *sessionBase) ID() string { return s.id }

// OperatorID operador dueño de la sesión.
func (s *sessionBase) OperatorID() string { return s.operatorID }

// LoadWarehouses consulta el directorio de bodegas y lo deja en la sesión.
func (s *sessionBase) LoadWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	list, err := s.gateway.ListWarehouses(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("consulta de bodegas fallida")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrClosed
	}
	s.directory = entity.NewWarehouseDirectory(list)
	return s.directory.List(), nil
}

func (s *sessionBase) ensureDirectory(ctx context.Context) (*entity.WarehouseDirectory, error) {
	s.mu.Lock()
	dir := s.directory
	s.mu.Unlock()
	if dir != nil {
		return dir, nil
	}
	if _, err := s.LoadWarehouses(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory, nil
}

// Close cierra la sesión. Las respuestas remotas que lleguen después se ignoran.
func (s *sessionBase) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cache.Invalidate()
}

// checkEndpointLocked verifica que la bodega pueda recibir o entregar stock.
// Sin directorio cargado no se puede verificar y se acepta.
func (s *sessionBase) checkEndpointLocked(warehouseID string) error {
	if warehouseID == "" || s.directory == nil {
		return nil
	}
	w, ok := s.directory.Get(warehouseID)
	if !ok {
		return domain.ErrNotFound
	}
	if !w.IsActive {
		return domain.ErrInactiveWarehouse
	}
	return nil
}

// beginEditLocked rechaza cambios con la sesión cerrada o durante un envío.
func (s *sessionBase) beginEditLocked() error {
	if s.closed {
		return domain.ErrClosed
	}
	if s.submitting {
		return domain.ErrBusy
	}
	return nil
}

func (s *sessionBase) activityLocked() Activity {
	return Activity{Fetching: s.cache.Fetching(), Submitting: s.submitting}
}
