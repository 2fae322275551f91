package stockkeeping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/inventory"
)

// TransferSession pantalla de traslado entre bodegas: bodega origen, líneas elegidas,
// validación y envío agrupado por (origen, destino).
type TransferSession struct {
	sessionBase
	sourceID             string
	defaultDestinationID string
	lines                []entity.StockLine
}

// NewTransferSession construye una sesión de traslado.
func NewTransferSession(id, operatorID string, gateway ports.InventoryGateway, orchestrator *Orchestrator, log zerolog.Logger) *TransferSession {
	s := &TransferSession{}
	s.setup(id, operatorID, gateway, orchestrator, log.With().Str("kind", "transfer").Logger())
	return s
}

// TransferState vista consistente de la sesión en un instante.
type TransferState struct {
	SessionID         string
	SourceWarehouseID string
	Lines             []entity.StockLine
	Validation        ValidationResult
	Activity          Activity
}

// State devuelve una copia del estado actual con su validación.
func (s *TransferSession) State() TransferState {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity := s.activityLocked()
	lines := make([]entity.StockLine, len(s.lines))
	copy(lines, s.lines)
	return TransferState{
		SessionID:         s.id,
		SourceWarehouseID: s.sourceID,
		Lines:             lines,
		Validation:        ValidateTransferLines(s.lines, activity, s.cache.HasWarehouse),
		Activity:          activity,
	}
}

// Validate valida la selección actual.
func (s *TransferSession) Validate() ValidationResult {
	return s.State().Validation
}

// SourceSnapshot existencias vigentes de la bodega origen (para el selector de variantes).
func (s *TransferSession) SourceSnapshot() (*WarehouseSnapshot, bool) {
	s.mu.Lock()
	src := s.sourceID
	s.mu.Unlock()
	if src == "" {
		return nil, false
	}
	return s.cache.Warehouse(src)
}

// SelectSource cambia la bodega origen y consulta sus existencias.
// Las líneas existentes se re-derivan contra el snapshot nuevo.
func (s *TransferSession) SelectSource(ctx context.Context, warehouseID string) error {
	s.mu.Lock()
	if err := s.beginEditLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if warehouseID == "" {
		s.mu.Unlock()
		return domain.ErrInvalidInput
	}
	if err := s.checkEndpointLocked(warehouseID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sourceID = warehouseID
	s.mu.Unlock()

	snap, err := s.cache.FetchWarehouseStock(ctx, warehouseID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	if errors.Is(err, domain.ErrSuperseded) || s.sourceID != warehouseID {
		// otra selección más reciente se encarga de las líneas
		return nil
	}
	before := len(s.lines)
	if err != nil {
		s.lines = RebindTransferLines(s.lines, warehouseID, nil)
		return err
	}
	s.lines = RebindTransferLines(s.lines, warehouseID, snap)
	s.lines = ReconcileTransferLines(s.lines, snap)
	if dropped := before - len(s.lines); dropped > 0 {
		s.log.Info().Str("warehouse_id", warehouseID).Int("dropped", dropped).Msg("líneas sin stock en la nueva bodega origen")
	}
	return nil
}

// Refresh vuelve a consultar la bodega origen y todas las bodegas origen de las líneas.
// Devuelve el primer error; las bodegas que sí respondieron quedan conciliadas.
func (s *TransferSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if err := s.beginEditLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	var ids []string
	seen := make(map[string]bool)
	if s.sourceID != "" {
		ids = append(ids, s.sourceID)
		seen[s.sourceID] = true
	}
	for _, l := range s.lines {
		if !seen[l.SourceWarehouseID] {
			seen[l.SourceWarehouseID] = true
			ids = append(ids, l.SourceWarehouseID)
		}
	}
	s.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		err := s.refreshWarehouse(ctx, id)
		if errors.Is(err, domain.ErrClosed) {
			return err
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *TransferSession) refreshWarehouse(ctx context.Context, warehouseID string) error {
	snap, err := s.cache.FetchWarehouseStock(ctx, warehouseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	if errors.Is(err, domain.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return err
	}
	before := len(s.lines)
	s.lines = ReconcileTransferLines(s.lines, snap)
	if dropped := before - len(s.lines); dropped > 0 {
		s.log.Info().Str("warehouse_id", warehouseID).Int("dropped", dropped).Msg("líneas sin stock eliminadas")
	}
	return nil
}

// AddLine agrega una variante de la bodega origen. Si ya estaba, no hace nada.
// La cantidad inicial es 1 (o 0 si no hay stock) y el destino, el destino común si se fijó.
func (s *TransferSession) AddLine(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	if s.sourceID == "" || variantID == "" {
		return domain.ErrInvalidInput
	}
	snap, ok := s.cache.Warehouse(s.sourceID)
	if !ok {
		return fmt.Errorf("%w: existencias de la bodega origen sin cargar", domain.ErrConflict)
	}
	e, ok := snap.Lookup(variantID)
	if !ok {
		return domain.ErrNotFound
	}
	if indexOfTransferLine(s.lines, entity.TransferLineID(variantID, s.sourceID)) >= 0 {
		return nil
	}
	dest := s.defaultDestinationID
	if dest == s.sourceID {
		dest = ""
	}
	s.lines = append(s.lines, entity.StockLine{
		VariantID:              variantID,
		SourceWarehouseID:      s.sourceID,
		DestinationWarehouseID: dest,
		Available:              e.OnHand,
		Quantity:               clampTo(1, e.OnHand),
		Display:                e.Variant.Display(),
	})
	return nil
}

// SeedFromVariant siembra una línea por cada bodega activa que tiene stock de la variante
// (orígenes heterogéneos). Las líneas sembradas empiezan con cantidad 0. Si no había
// bodega origen elegida se pre-selecciona la de mayor stock.
func (s *TransferSession) SeedFromVariant(ctx context.Context, productID, variantID string) error {
	s.mu.Lock()
	err := s.beginEditLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	dir, err := s.ensureDirectory(ctx)
	if err != nil {
		return err
	}
	product, err := s.gateway.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	variant, ok := product.FindVariant(variantID)
	if !ok {
		return domain.ErrNotFound
	}
	if variant.ProductName == "" {
		variant.ProductName = product.Name
	}
	var sources []string
	for _, w := range positiveSummary(variant) {
		if dir.IsTransferEligible(w.WarehouseID) {
			sources = append(sources, w.WarehouseID)
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: la variante no tiene stock en bodegas activas", domain.ErrNotFound)
	}
	defaultSource, _ := DefaultSourceWarehouse([]entity.ProductVariant{variant}, dir)

	for _, src := range sources {
		snap, err := s.cache.FetchWarehouseStock(ctx, src)
		if errors.Is(err, domain.ErrSuperseded) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.seedLine(variant, snap); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sourceID == "" {
		s.sourceID = defaultSource
	}
	return nil
}

func (s *TransferSession) seedLine(variant entity.ProductVariant, snap *WarehouseSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	s.lines = ReconcileTransferLines(s.lines, snap)
	e, ok := snap.Lookup(variant.ID)
	if !ok || indexOfTransferLine(s.lines, entity.TransferLineID(variant.ID, snap.WarehouseID)) >= 0 {
		return nil
	}
	dest := s.defaultDestinationID
	if dest == snap.WarehouseID {
		dest = ""
	}
	s.lines = append(s.lines, entity.StockLine{
		VariantID:              variant.ID,
		SourceWarehouseID:      snap.WarehouseID,
		DestinationWarehouseID: dest,
		Available:              e.OnHand,
		Seeded:                 true,
		Display:                variant.Display(),
	})
	return nil
}

// SetQuantity fija la cantidad de la línea recortada a [0, Available].
func (s *TransferSession) SetQuantity(lineID string, requested decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfTransferLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.lines[i].Quantity = inventory.ClampQuantity(requested, s.lines[i].Available)
	return nil
}

// SetDestination fija (o limpia con "") la bodega destino de una línea.
func (s *TransferSession) SetDestination(lineID, warehouseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfTransferLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := s.checkEndpointLocked(warehouseID); err != nil {
		return err
	}
	s.lines[i].DestinationWarehouseID = warehouseID
	return nil
}

// SetAllDestinations aplica el destino a todas las líneas cuyo origen es distinto,
// y lo deja como destino por defecto de las líneas nuevas.
func (s *TransferSession) SetAllDestinations(warehouseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	if err := s.checkEndpointLocked(warehouseID); err != nil {
		return err
	}
	s.defaultDestinationID = warehouseID
	for i := range s.lines {
		if s.lines[i].SourceWarehouseID != warehouseID {
			s.lines[i].DestinationWarehouseID = warehouseID
		}
	}
	return nil
}

// RemoveLine quita la línea de la selección.
func (s *TransferSession) RemoveLine(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.beginEditLocked(); err != nil {
		return err
	}
	i := indexOfTransferLine(s.lines, lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.lines = removeAt(s.lines, i)
	return nil
}

// Submit valida, planifica y envía los lotes. La misma validación que ve el operador
// decide aquí: un lote no enviable devuelve *ValidationError sin llamar al servicio.
//
// Con éxito la selección se vacía y la caché se invalida (la verdad nueva solo se
// observa con una consulta posterior). Si un lote falla, las líneas de los lotes ya
// confirmados se quitan y el resto queda para corregir y reenviar.
func (s *TransferSession) Submit(ctx context.Context, reason string) (*TransferOutcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrClosed
	}
	v := ValidateTransferLines(s.lines, s.activityLocked(), s.cache.HasWarehouse)
	if !v.Submittable {
		s.mu.Unlock()
		return nil, v.Err()
	}
	batches, err := PlanTransferBatches(s.lines)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	meta := SubmissionMeta{SessionID: s.id, OperatorID: s.operatorID, Reason: strings.TrimSpace(reason)}
	s.mu.Unlock()

	outcome, err := s.orchestrator.SubmitTransfers(ctx, batches, meta)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if s.closed {
		return outcome, err
	}
	if err == nil {
		s.lines = nil
		s.cache.Invalidate()
		return outcome, nil
	}
	if outcome != nil {
		if committed := outcome.CommittedLineIDs(); len(committed) > 0 {
			s.lines = withoutTransferLines(s.lines, committed)
			s.cache.Invalidate()
		}
	}
	return outcome, err
}

func withoutTransferLines(lines []entity.StockLine, ids []string) []entity.StockLine {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]entity.StockLine, 0, len(lines))
	for _, l := range lines {
		if !drop[l.ID()] {
			out = append(out, l)
		}
	}
	return out
}
