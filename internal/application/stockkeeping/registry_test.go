package stockkeeping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Registry
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_SesionesPorOperador(t *testing.T) {
	gw := newFakeGateway()
	reg := stockkeeping.NewRegistry(gw, stockkeeping.NewOrchestrator(gw, nil, zerolog.Nop()), zerolog.Nop(), 2)

	s := reg.OpenTransfer("op1")
	other := reg.OpenTransfer("op1")
	assert.NotEqual(t, s.ID(), other.ID(), "cada sesión es independiente")

	got, err := reg.Transfer(s.ID(), "op1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = reg.Transfer(s.ID(), "op2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = reg.Transfer("no-existe", "op1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, reg.CloseTransfer(s.ID(), "op1"))
	_, err = reg.Transfer(s.ID(), "op1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.SelectSource(context.Background(), "W1"), domain.ErrClosed)
}

func TestRegistry_CloseAll(t *testing.T) {
	gw := newFakeGateway()
	reg := stockkeeping.NewRegistry(gw, stockkeeping.NewOrchestrator(gw, nil, zerolog.Nop()), zerolog.Nop(), 2)
	tr := reg.OpenTransfer("op1")
	rc := reg.OpenReconciliation("op1")

	_, err := reg.Reconciliation(rc.ID(), "op2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	reg.CloseAll()

	_, err = reg.Reconciliation(rc.ID(), "op1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, tr.AddLine("v1"), domain.ErrClosed)
	_, err = rc.Search(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrClosed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_ProductBreakdown(t *testing.T) {
	gw := newFakeGateway()
	seedProduct(gw)
	uc := stockkeeping.NewCatalogUseCase(gw)

	view, err := uc.ProductBreakdown(context.Background(), "p1", "v1", stockkeeping.ScopeVariant)
	require.NoError(t, err)
	assert.Equal(t, "Camisa", view.ProductName)
	assert.Equal(t, 17, view.Breakdown.TotalOnHand)
	require.Len(t, view.Breakdown.Rows, 3)
	assert.Equal(t, "W3", view.Breakdown.Rows[0].WarehouseID)
	assert.Equal(t, "W2", view.DefaultSourceWarehouseID, "W3 tiene más stock pero está inactiva")

	_, err = uc.ProductBreakdown(context.Background(), "p1", "", stockkeeping.ScopeVariant)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ProductBreakdown(context.Background(), "p9", "", stockkeeping.ScopeProduct)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestCatalog_Warehouses(t *testing.T) {
	list, err := stockkeeping.NewCatalogUseCase(newFakeGateway()).Warehouses(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobante de traslado
// ──────────────────────────────────────────────────────────────────────────────

type fakeSlipGenerator struct {
	from, to entity.Warehouse
	rec      *entity.SubmissionRecord
}

func (g *fakeSlipGenerator) GenerateTransferSlip(_ context.Context, rec *entity.SubmissionRecord, from, to entity.Warehouse) ([]byte, error) {
	g.rec, g.from, g.to = rec, from, to
	return []byte("%PDF-fake"), nil
}

func journalWith(records ...*entity.SubmissionRecord) *fakeJournal {
	return &fakeJournal{records: records}
}

func TestSlipUseCase_TransferSlip(t *testing.T) {
	committed := &entity.SubmissionRecord{
		ID: "b1", Kind: entity.SubmissionKindTransfer, Status: entity.SubmissionStatusCommitted,
		FromWarehouseID: "W1", ToWarehouseID: "W2", CreatedBy: "op1", CreatedAt: time.Now(),
		Items:         []entity.SubmissionItem{{VariantID: "v1", Quantity: 2}},
		TotalQuantity: decimal.NewFromInt(2),
	}
	failed := &entity.SubmissionRecord{ID: "b2", Kind: entity.SubmissionKindTransfer, Status: entity.SubmissionStatusFailed, CreatedBy: "op1"}
	recon := &entity.SubmissionRecord{ID: "b3", Kind: entity.SubmissionKindReconciliation, Status: entity.SubmissionStatusCommitted, CreatedBy: "op1"}
	gen := &fakeSlipGenerator{}
	uc := stockkeeping.NewSlipUseCase(journalWith(committed, failed, recon), newFakeGateway(), gen)

	pdf, name, err := uc.TransferSlip(context.Background(), "op1", "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "traslado-b1.pdf", name)
	assert.Equal(t, "Principal", gen.from.Name)
	assert.Equal(t, "Norte", gen.to.Name)

	_, _, err = uc.TransferSlip(context.Background(), "op2", "b1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, _, err = uc.TransferSlip(context.Background(), "op1", "b2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = uc.TransferSlip(context.Background(), "op1", "b3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = uc.TransferSlip(context.Background(), "op1", "b9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
