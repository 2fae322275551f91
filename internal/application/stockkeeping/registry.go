package stockkeeping

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
)

// Registry mantiene las sesiones abiertas por operador. No comparte estado entre
// sesiones: cada una tiene su propia caché de snapshots.
type Registry struct {
	gateway       ports.InventoryGateway
	orchestrator  *Orchestrator
	log           zerolog.Logger
	minTermLength int

	mu              sync.Mutex
	transfers       map[string]*TransferSession
	reconciliations map[string]*ReconciliationSession
}

// NewRegistry construye el registro de sesiones.
func NewRegistry(gateway ports.InventoryGateway, orchestrator *Orchestrator, log zerolog.Logger, minTermLength int) *Registry {
	return &Registry{
		gateway:         gateway,
		orchestrator:    orchestrator,
		log:             log,
		minTermLength:   minTermLength,
		transfers:       make(map[string]*TransferSession),
		reconciliations: make(map[string]*ReconciliationSession),
	}
}

// OpenTransfer abre una sesión de traslado para el operador.
func (r *Registry) OpenTransfer(operatorID string) *TransferSession {
	s := NewTransferSession(uuid.New().String(), operatorID, r.gateway, r.orchestrator, r.log)
	r.mu.Lock()
	r.transfers[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Transfer devuelve la sesión si existe y pertenece al operador.
func (r *Registry) Transfer(id, operatorID string) (*TransferSession, error) {
	r.mu.Lock()
	s, ok := r.transfers[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.OperatorID() != operatorID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// CloseTransfer cierra y olvida la sesión.
func (r *Registry) CloseTransfer(id, operatorID string) error {
	s, err := r.Transfer(id, operatorID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.transfers, id)
	r.mu.Unlock()
	s.Close()
	return nil
}

// OpenReconciliation abre una sesión de conciliación para el operador.
func (r *Registry) OpenReconciliation(operatorID string) *ReconciliationSession {
	s := NewReconciliationSession(uuid.New().String(), operatorID, r.gateway, r.orchestrator, r.log, r.minTermLength)
	r.mu.Lock()
	r.reconciliations[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Reconciliation devuelve la sesión si existe y pertenece al operador.
func (r *Registry) Reconciliation(id, operatorID string) (*ReconciliationSession, error) {
	r.mu.Lock()
	s, ok := r.reconciliations[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.OperatorID() != operatorID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// CloseReconciliation cierra y olvida la sesión.
func (r *Registry) CloseReconciliation(id, operatorID string) error {
	s, err := r.Reconciliation(id, operatorID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.reconciliations, id)
	r.mu.Unlock()
	s.Close()
	return nil
}

// CloseAll cierra todas las sesiones (apagado del servidor).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	transfers, reconciliations := r.transfers, r.reconciliations
	r.transfers = make(map[string]*TransferSession)
	r.reconciliations = make(map[string]*ReconciliationSession)
	r.mu.Unlock()
	for _, s := range transfers {
		s.Close()
	}
	for _, s := range reconciliations {
		s.Close()
	}
}
