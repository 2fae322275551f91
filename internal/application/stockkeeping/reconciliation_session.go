package stockkeeping

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/inventory"
)

// ReconciliationSession pantalla de conciliación: asigna stock no atribuido a bodegas.
type ReconciliationSession struct {
	sessionBase
	minTermLength   int
	defaultTargetID string
	lines           []entity.ReconciliationLine
}

// NewReconciliationSession construye una sesión de conciliación. minTermLength es el
// largo mínimo de un término de búsqueda no vacío (0 = sin mínimo).
func NewReconciliationSession(id, operatorID string, gateway ports.InventoryGateway, orchestrator *Orchestrator, log zerolog.Logger, minTermLength int) *ReconciliationSession {
	s := &ReconciliationSession{minTermLength: minTermLength}
	s.setup(id, operatorID, gateway, orchestrator, log.With().Str("kind", "reconciliation").Logger())
	return s
}

// ReconciliationState vista consistente de la sesión.
type ReconciliationState struct {
	SessionID  string
	SearchTerm string
	Lines      []entity.ReconciliationLine
	Validation ValidationResult
	Activity   Activity
}

// State devuelve una copia del estado actual con su validación.
func (s *ReconciliationSession) State() ReconciliationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity := s.activityLocked()
	lines := make([]entity.ReconciliationLine, len(s.lines))
	copy(lines, s.lines)
	st := ReconciliationState{
		SessionID:  s.id,
		Lines:      lines,
		Validation: ValidateReconciliationLines(s.lines, activity),
		Activity:   activity,
	}
	if snap, ok := s.cache.Unallocated(); ok {
		st.SearchTerm = snap.Term
	}
	return st
}

// Validate valida la selección actual.
func (s *ReconciliationSession) Validate() ValidationResult {
	return s.State().Validation
}

// Search consulta el stock no atribuido. El llamador aplica el debounce; si llega una
// búsqueda más nueva antes de que esta responda, esta devuelve domain.ErrSuperseded y
// no toca el estado.
func (s *ReconciliationSession) Search(ctx context.Context, term string) ([]entity.UnallocatedVariant, error) {
	s.mu.Lock()
	if err := s.beginEditLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()
	if n := utf8.RuneCountInString(NormalizeSearchTerm(term)); n > 0 && n < s.minTermLength {
		return nil, fmt.Errorf("%w: el término debe tener al menos %d caracteres", domain.ErrInvalidInput, s.minTermLength)
	}

	snap, err := s.cache.FetchUnallocated(ctx, term)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrClosed
	}
	if err != nil {
		return nil, err
	}
	s.lines = ReconcileReconciliationLines(s.lines, snap)
	return snap.Rows(), nil
}

// AddLine agrega una variante del último resultado de búsqueda. Si ya estaba, no hace nada.
// La cantidad inicial es todo el stock no atribuido.
func (s *ReconciliationSession) AddLine(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	if variantID == "" {
		return domain.ErrInvalidInput
	}
	if indexOfReconciliationLine(s.lines, variantID) >= 0 {
		return nil
	}
	snap, ok := s.cache.Unallocated()
	if !ok {
		return fmt.Errorf("%w: no hay resultados de búsqueda vigentes", domain.ErrConflict)
	}
	row, ok := snap.Lookup(variantID)
	if !ok || row.UnallocatedOnHand <= 0 {
		return domain.ErrNotFound
	}
	s.lines = append(s.lines, entity.ReconciliationLine{
		VariantID:         variantID,
		UnallocatedOnHand: row.UnallocatedOnHand,
		TargetWarehouseID: s.defaultTargetID,
		Quantity:          row.UnallocatedOnHand,
		Display:           row.Display(),
	})
	return nil
}

// SetQuantity fija la cantidad recortada a [0, UnallocatedOnHand].
func (s *ReconciliationSession) SetQuantity(lineID string, requested decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfReconciliationLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.lines[i].Quantity = inventory.ClampQuantity(requested, s.lines[i].UnallocatedOnHand)
	return nil
}

// SetTarget fija (o limpia con "") la bodega que recibe el stock.
func (s *ReconciliationSession) SetTarget(lineID, warehouseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfReconciliationLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := s.checkEndpointLocked(warehouseID); err != nil {
		return err
	}
	s.lines[i].TargetWarehouseID = warehouseID
	return nil
}

// SetAllTargets aplica la bodega a todas las líneas y a las que se agreguen después.
func (s *ReconciliationSession) SetAllTargets(warehouseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	if err := s.checkEndpointLocked(warehouseID); err != nil {
		return err
	}
	s.defaultTargetID = warehouseID
	for i := range s.lines {
		s.lines[i].TargetWarehouseID = warehouseID
	}
	return nil
}

// RemoveLine quita la línea de la selección.
func (s *ReconciliationSession) RemoveLine(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfReconciliationLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.lines = removeAt(s.lines, i)
	return nil
}

// Submit valida y envía el lote único de conciliación. Con éxito vacía la selección e
// invalida la caché; con error la selección queda intacta para corregir y reenviar.
func (s *ReconciliationSession) Submit(ctx context.Context, reason string) (*ReconciliationOutcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrClosed
	}
	v := ValidateReconciliationLines(s.lines, s.activityLocked())
	if !v.Submittable {
		s.mu.Unlock()
		return nil, v.Err()
	}
	batch, err := PlanReconciliationBatch(s.lines)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	meta := SubmissionMeta{SessionID: s.id, OperatorID: s.operatorID, Reason: strings.TrimSpace(reason)}
	s.mu.Unlock()

	outcome, err := s.orchestrator.SubmitReconciliation(ctx, batch, meta)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil || s.closed {
		return outcome, err
	}
	s.lines = nil
	s.cache.Invalidate()
	return outcome, nil
}
