package stockkeeping

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/repository"
)

// TransferSlipGenerator define el puerto de salida para generar el comprobante de traslado.
type TransferSlipGenerator interface {
	GenerateTransferSlip(ctx context.Context, rec *entity.SubmissionRecord, from, to entity.Warehouse) ([]byte, error)
}

// SlipUseCase genera el comprobante (PDF) de un lote de traslado confirmado.
type SlipUseCase struct {
	journal   repository.SubmissionJournalRepository
	gateway   ports.InventoryGateway
	generator TransferSlipGenerator
}

// NewSlipUseCase construye el caso de uso.
func NewSlipUseCase(journal repository.SubmissionJournalRepository, gateway ports.InventoryGateway, generator TransferSlipGenerator) *SlipUseCase {
	return &SlipUseCase{journal: journal, gateway: gateway, generator: generator}
}

// TransferSlip devuelve el PDF y el nombre de archivo.
//
// Retorna:
//   - domain.ErrNotFound     si el lote no existe.
//   - domain.ErrForbidden    si el lote lo envió otro operador.
//   - domain.ErrInvalidInput si no es un traslado confirmado.
func (uc *SlipUseCase) TransferSlip(ctx context.Context, operatorID, submissionID string) ([]byte, string, error) {
	rec, err := uc.journal.GetByID(ctx, submissionID)
	if err != nil {
		return nil, "", err
	}
	if rec == nil {
		return nil, "", domain.ErrNotFound
	}
	if rec.CreatedBy != operatorID {
		return nil, "", domain.ErrForbidden
	}
	if rec.Kind != entity.SubmissionKindTransfer || rec.Status != entity.SubmissionStatusCommitted {
		return nil, "", domain.ErrInvalidInput
	}

	from := entity.Warehouse{ID: rec.FromWarehouseID, Name: rec.FromWarehouseID}
	to := entity.Warehouse{ID: rec.ToWarehouseID, Name: rec.ToWarehouseID}
	if list, err := uc.gateway.ListWarehouses(ctx); err == nil {
		dir := entity.NewWarehouseDirectory(list)
		if w, ok := dir.Get(rec.FromWarehouseID); ok {
			from = w
		}
		if w, ok := dir.Get(rec.ToWarehouseID); ok {
			to = w
		}
	}

	pdf, err := uc.generator.GenerateTransferSlip(ctx, rec, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, "traslado-" + rec.ID + ".pdf", nil
}
