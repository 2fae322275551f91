package stockkeeping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/repository"
)

// Orchestrator ejecuta los lotes planificados contra el servicio remoto:
//
//	Traslado:     un lote tras otro (nunca en paralelo), suma de itemsProcessed
//	Conciliación: una sola llamada
//
// Cada llamada remota es su propia unidad de trabajo. Si un lote falla los siguientes
// no se envían y los ya confirmados quedan confirmados (no hay compensación).
type Orchestrator struct {
	gateway ports.InventoryGateway
	journal repository.SubmissionJournalRepository // opcional
	log     zerolog.Logger
	now     func() time.Time
}

// NewOrchestrator construye el orquestador. journal puede ser nil (sin bitácora).
func NewOrchestrator(gateway ports.InventoryGateway, journal repository.SubmissionJournalRepository, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{gateway: gateway, journal: journal, log: log, now: time.Now}
}

// SubmissionMeta datos comunes de un envío.
type SubmissionMeta struct {
	SessionID  string
	OperatorID string
	Reason     string
}

// BatchOutcome resultado de un lote.
type BatchOutcome struct {
	SubmissionID    string
	FromWarehouseID string
	ToWarehouseID   string
	LineIDs         []string
	ItemsSubmitted  int
	ItemsProcessed  int
	Status          string
	Message         string
}

// TransferOutcome resultado combinado del traslado.
type TransferOutcome struct {
	ItemsProcessed  int
	Batches         []BatchOutcome
	RefreshRequired bool
}

// CommittedLineIDs líneas incluidas en lotes confirmados.
func (o *TransferOutcome) CommittedLineIDs() []string {
	var ids []string
	for _, b := range o.Batches {
		if b.Status == entity.SubmissionStatusCommitted {
			ids = append(ids, b.LineIDs...)
		}
	}
	return ids
}

// ReconciliationOutcome resultado de la conciliación.
type ReconciliationOutcome struct {
	SubmissionID    string
	ItemsProcessed  int
	RefreshRequired bool
}

// SubmissionError el servicio remoto rechazó un lote. Message es el texto remoto sin tocar.
// Committed lista los lotes que sí quedaron confirmados antes de la falla; Batches, todos
// los lotes planificados en orden (confirmados, el fallido y los omitidos).
type SubmissionError struct {
	Message   string
	Committed []BatchOutcome
	Failed    BatchOutcome
	Batches   []BatchOutcome
	Err       error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() []error {
	return []error{domain.ErrSubmitFailed, e.Err}
}

// SubmitTransfers envía los lotes en orden. Ante la primera falla devuelve el resultado
// parcial junto con un *SubmissionError.
func (o *Orchestrator) SubmitTransfers(ctx context.Context, batches []TransferBatch, meta SubmissionMeta) (*TransferOutcome, error) {
	if len(batches) == 0 {
		return nil, domain.ErrNoValidLines
	}
	out := &TransferOutcome{}
	for i, b := range batches {
		res, err := o.gateway.TransferStockBulk(ctx, ports.TransferRequest{
			FromWarehouseID: b.FromWarehouseID,
			ToWarehouseID:   b.ToWarehouseID,
			Reason:          meta.Reason,
			Items:           b.Items,
		})
		bo := BatchOutcome{
			SubmissionID:    uuid.New().String(),
			FromWarehouseID: b.FromWarehouseID,
			ToWarehouseID:   b.ToWarehouseID,
			LineIDs:         b.LineIDs,
			ItemsSubmitted:  len(b.Items),
		}
		if err != nil {
			bo.Status = entity.SubmissionStatusFailed
			bo.Message = remoteMessage(err)
			out.Batches = append(out.Batches, bo)
			o.record(ctx, entity.SubmissionKindTransfer, meta, bo, b.Items)
			for _, rest := range batches[i+1:] {
				out.Batches = append(out.Batches, BatchOutcome{
					FromWarehouseID: rest.FromWarehouseID,
					ToWarehouseID:   rest.ToWarehouseID,
					LineIDs:         rest.LineIDs,
					ItemsSubmitted:  len(rest.Items),
					Status:          entity.SubmissionStatusSkipped,
				})
			}
			committed := committedBatches(out.Batches)
			out.RefreshRequired = len(committed) > 0
			o.log.Error().Err(err).
				Str("session_id", meta.SessionID).
				Int("batch", i+1).
				Int("batches", len(batches)).
				Int("committed", len(committed)).
				Msg("lote de traslado rechazado")
			return out, &SubmissionError{Message: bo.Message, Committed: committed, Failed: bo, Batches: out.Batches, Err: err}
		}
		bo.Status = entity.SubmissionStatusCommitted
		bo.ItemsProcessed = processedOr(res, len(b.Items))
		out.ItemsProcessed += bo.ItemsProcessed
		out.Batches = append(out.Batches, bo)
		o.record(ctx, entity.SubmissionKindTransfer, meta, bo, b.Items)
		o.log.Info().
			Str("session_id", meta.SessionID).
			Str("from", b.FromWarehouseID).
			Str("to", b.ToWarehouseID).
			Int("items_processed", bo.ItemsProcessed).
			Msg("lote de traslado confirmado")
	}
	out.RefreshRequired = true
	return out, nil
}

// SubmitReconciliation envía el lote único de conciliación.
func (o *Orchestrator) SubmitReconciliation(ctx context.Context, batch *ReconciliationBatch, meta SubmissionMeta) (*ReconciliationOutcome, error) {
	if batch == nil || len(batch.Items) == 0 {
		return nil, domain.ErrNoValidLines
	}
	res, err := o.gateway.ReconcileStock(ctx, ports.ReconcileRequest{Reason: meta.Reason, Items: batch.Items})
	bo := BatchOutcome{
		SubmissionID:   uuid.New().String(),
		LineIDs:        batch.LineIDs,
		ItemsSubmitted: len(batch.Items),
	}
	if err != nil {
		bo.Status = entity.SubmissionStatusFailed
		bo.Message = remoteMessage(err)
		o.record(ctx, entity.SubmissionKindReconciliation, meta, bo, batch.Items)
		o.log.Error().Err(err).Str("session_id", meta.SessionID).Msg("conciliación rechazada")
		return nil, &SubmissionError{Message: bo.Message, Failed: bo, Batches: []BatchOutcome{bo}, Err: err}
	}
	bo.Status = entity.SubmissionStatusCommitted
	bo.ItemsProcessed = processedOr(res, len(batch.Items))
	o.record(ctx, entity.SubmissionKindReconciliation, meta, bo, batch.Items)
	o.log.Info().Str("session_id", meta.SessionID).Int("items_processed", bo.ItemsProcessed).Msg("conciliación confirmada")
	return &ReconciliationOutcome{
		SubmissionID:    bo.SubmissionID,
		ItemsProcessed:  bo.ItemsProcessed,
		RefreshRequired: true,
	}, nil
}

// record guarda el lote en la bitácora. Un error aquí se registra pero nunca
// cambia el resultado del envío: el lote remoto ya ocurrió.
func (o *Orchestrator) record(ctx context.Context, kind string, meta SubmissionMeta, bo BatchOutcome, items []entity.SubmissionItem) {
	if o.journal == nil {
		return
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromInt(int64(it.Quantity)))
	}
	rec := &entity.SubmissionRecord{
		ID:              bo.SubmissionID,
		SessionID:       meta.SessionID,
		Kind:            kind,
		FromWarehouseID: bo.FromWarehouseID,
		ToWarehouseID:   bo.ToWarehouseID,
		Reason:          meta.Reason,
		Items:           items,
		TotalQuantity:   total,
		ItemsProcessed:  bo.ItemsProcessed,
		Status:          bo.Status,
		ErrorMessage:    bo.Message,
		CreatedBy:       meta.OperatorID,
		CreatedAt:       o.now(),
	}
	if err := o.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		o.log.Warn().Err(err).Str("submission_id", rec.ID).Msg("no se pudo registrar el lote en la bitácora")
	}
}

func committedBatches(list []BatchOutcome) []BatchOutcome {
	var out []BatchOutcome
	for _, b := range list {
		if b.Status == entity.SubmissionStatusCommitted {
			out = append(out, b)
		}
	}
	return out
}

func processedOr(res *ports.SubmitResult, fallback int) int {
	if res == nil || res.ItemsProcessed == nil {
		return fallback
	}
	return *res.ItemsProcessed
}

// remoteMessage devuelve el mensaje del servicio remoto tal cual.
func remoteMessage(err error) string {
	var remote *ports.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fmt.Sprintf("%s: %v", domain.ErrSubmitFailed.Error(), err)
}
