package stockkeeping_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newTransferSession(t *testing.T, gw *fakeGateway) *stockkeeping.TransferSession {
	t.Helper()
	orch := stockkeeping.NewOrchestrator(gw, &fakeJournal{}, zerolog.Nop())
	s := stockkeeping.NewTransferSession("s1", "op1", gw, orch, zerolog.Nop())
	_, err := s.LoadWarehouses(context.Background())
	require.NoError(t, err)
	return s
}

// readySession sesión con origen W1 y la variante v1 (5 en stock) seleccionada hacia W2.
func readySession(t *testing.T, gw *fakeGateway) *stockkeeping.TransferSession {
	t.Helper()
	gw.setStock("W1", stockEntry("v1", 5), stockEntry("v2", 2))
	s := newTransferSession(t, gw)
	require.NoError(t, s.SelectSource(context.Background(), "W1"))
	require.NoError(t, s.AddLine("v1"))
	require.NoError(t, s.SetAllDestinations("W2"))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferSession_AddLineRequiereOrigen(t *testing.T) {
	s := newTransferSession(t, newFakeGateway())
	assert.ErrorIs(t, s.AddLine("v1"), domain.ErrInvalidInput)
}

func TestTransferSession_AddLine(t *testing.T) {
	gw := newFakeGateway()
	gw.setStock("W1", stockEntry("v1", 5))
	s := newTransferSession(t, gw)
	require.NoError(t, s.SelectSource(context.Background(), "W1"))

	require.NoError(t, s.AddLine("v1"))
	require.NoError(t, s.AddLine("v1"), "agregar dos veces no es un error")
	assert.ErrorIs(t, s.AddLine("v9"), domain.ErrNotFound)

	st := s.State()
	require.Len(t, st.Lines, 1)
	l := st.Lines[0]
	assert.Equal(t, "v1@W1", l.ID())
	assert.Equal(t, 5, l.Available)
	assert.Equal(t, 1, l.Quantity)
	assert.Equal(t, "SKU-v1", l.Display.SKU)
	assert.Equal(t, stockkeeping.IssueDestinationRequired, st.Validation.Issues["v1@W1"])
}

func TestTransferSession_SelectSourceBodegaInactiva(t *testing.T) {
	s := newTransferSession(t, newFakeGateway())
	assert.ErrorIs(t, s.SelectSource(context.Background(), "W3"), domain.ErrInactiveWarehouse)
	assert.ErrorIs(t, s.SelectSource(context.Background(), "W9"), domain.ErrNotFound)
}

func TestTransferSession_CambioDeOrigenReDerivaLineas(t *testing.T) {
	gw := newFakeGateway()
	gw.setStock("W2", stockEntry("v2", 1))
	s := readySession(t, gw)
	require.NoError(t, s.AddLine("v2"))
	require.NoError(t, s.SetQuantity("v2@W1", decimal.NewFromInt(2)))

	require.NoError(t, s.SelectSource(context.Background(), "W2"))

	st := s.State()
	assert.Equal(t, "W2", st.SourceWarehouseID)
	require.Len(t, st.Lines, 1, "v1 no existe en la nueva bodega origen")
	l := st.Lines[0]
	assert.Equal(t, "v2@W2", l.ID())
	assert.Equal(t, "W2", l.SourceWarehouseID)
	assert.Equal(t, 1, l.Available)
	assert.Equal(t, 1, l.Quantity, "la cantidad se recorta al stock de la nueva bodega")
	assert.Equal(t, stockkeeping.IssueSameWarehouse, st.Validation.Issues["v2@W2"])

	_, err := s.Submit(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotSubmittable)
	assert.Empty(t, gw.transferCalls(), "nunca se envía desde la bodega abandonada")
}

func TestTransferSession_CambioDeOrigenConFallaDejaLineasSinCargar(t *testing.T) {
	gw := newFakeGateway()
	gw.warehouses = append(gw.warehouses, entity.Warehouse{ID: "W4", Name: "Sur", IsActive: true})
	s := readySession(t, gw)
	gw.failStock("W4", errors.New("timeout"))

	assert.Error(t, s.SelectSource(context.Background(), "W4"))

	st := s.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, "v1@W4", st.Lines[0].ID())
	assert.Equal(t, stockkeeping.IssueStockNotLoaded, st.Validation.Issues["v1@W4"])
	assert.False(t, st.Validation.Submittable)
}

func TestTransferSession_CambioDeOrigenConservaLineasSembradas(t *testing.T) {
	gw := newFakeGateway()
	seedProduct(gw)
	s := newTransferSession(t, gw)
	require.NoError(t, s.SeedFromVariant(context.Background(), "p1", "v1"))

	require.NoError(t, s.SelectSource(context.Background(), "W1"))

	st := s.State()
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "v1@W2", st.Lines[0].ID())
	assert.Equal(t, "v1@W1", st.Lines[1].ID())
}

func TestTransferSession_SetQuantityRecorta(t *testing.T) {
	s := readySession(t, newFakeGateway())

	cases := []struct {
		in   string
		want int
	}{
		{"99", 5},
		{"2.7", 2},
		{"-1", 0},
		{"3", 3},
	}
	for _, tc := range cases {
		require.NoError(t, s.SetQuantity("v1@W1", decimal.RequireFromString(tc.in)))
		assert.Equal(t, tc.want, s.State().Lines[0].Quantity, "cantidad %s", tc.in)
	}
	assert.ErrorIs(t, s.SetQuantity("v9@W1", decimal.NewFromInt(1)), domain.ErrNotFound)
}

func TestTransferSession_SetDestination(t *testing.T) {
	s := readySession(t, newFakeGateway())

	assert.ErrorIs(t, s.SetDestination("v1@W1", "W3"), domain.ErrInactiveWarehouse)
	assert.ErrorIs(t, s.SetDestination("v1@W1", "W9"), domain.ErrNotFound)

	require.NoError(t, s.SetDestination("v1@W1", "W1"))
	assert.Equal(t, stockkeeping.IssueSameWarehouse, s.Validate().Issues["v1@W1"])

	require.NoError(t, s.SetDestination("v1@W1", "W2"))
	assert.True(t, s.Validate().Submittable)
}

func TestTransferSession_DestinoComunParaLineasNuevas(t *testing.T) {
	s := readySession(t, newFakeGateway())
	require.NoError(t, s.AddLine("v2"))

	lines := s.State().Lines
	require.Len(t, lines, 2)
	assert.Equal(t, "W2", lines[1].DestinationWarehouseID)
}

func TestTransferSession_RemoveLine(t *testing.T) {
	s := readySession(t, newFakeGateway())
	require.NoError(t, s.RemoveLine("v1@W1"))
	assert.Empty(t, s.State().Lines)
	assert.ErrorIs(t, s.RemoveLine("v1@W1"), domain.ErrNotFound)
	assert.Equal(t, stockkeeping.BlockerEmpty, s.Validate().Blocker)
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresco
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferSession_RefreshReconciliaLineas(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)
	require.NoError(t, s.AddLine("v2"))
	require.NoError(t, s.SetQuantity("v1@W1", decimal.NewFromInt(5)))

	gw.setStock("W1", stockEntry("v1", 3))
	require.NoError(t, s.Refresh(context.Background()))

	lines := s.State().Lines
	require.Len(t, lines, 1, "la variante que quedó sin stock se elimina")
	assert.Equal(t, 3, lines[0].Available)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestTransferSession_FallaDeConsultaBloqueaElEnvio(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)

	gw.failStock("W1", errors.New("timeout"))
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	st := s.State()
	require.Len(t, st.Lines, 1, "las líneas del operador se conservan")
	assert.Equal(t, stockkeeping.IssueStockNotLoaded, st.Validation.Issues["v1@W1"])
	_, ok := s.SourceSnapshot()
	assert.False(t, ok)

	_, err = s.Submit(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotSubmittable)
	assert.Empty(t, gw.transferCalls())
}

func TestTransferSession_ConsultaEnCursoBloqueaElEnvio(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)

	release := gw.holdStock("W1")
	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	<-gw.entered

	st := s.State()
	assert.True(t, st.Activity.Fetching)
	assert.Equal(t, stockkeeping.BlockerFetching, st.Validation.Blocker)

	_, err := s.Submit(context.Background(), "")
	var verr *stockkeeping.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, stockkeeping.BlockerFetching, verr.Blocker)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, s.Validate().Submittable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sembrado desde el desglose
// ──────────────────────────────────────────────────────────────────────────────

func seedProduct(gw *fakeGateway) {
	gw.products["p1"] = &entity.Product{ID: "p1", Name: "Camisa", Variants: []entity.ProductVariant{{
		ID:  "v1",
		SKU: "SKU-v1",
		WarehouseSummary: []entity.WarehouseOnHand{
			{WarehouseID: "W1", OnHand: 3},
			{WarehouseID: "W2", OnHand: 5},
			{WarehouseID: "W3", OnHand: 9},
		},
	}}}
	gw.setStock("W1", stockEntry("v1", 3))
	gw.setStock("W2", stockEntry("v1", 5))
	gw.setStock("W3", stockEntry("v1", 9))
}

func TestTransferSession_SeedFromVariant(t *testing.T) {
	gw := newFakeGateway()
	seedProduct(gw)
	s := newTransferSession(t, gw)

	require.NoError(t, s.SeedFromVariant(context.Background(), "p1", "v1"))

	st := s.State()
	assert.Equal(t, "W2", st.SourceWarehouseID, "se pre-selecciona la bodega activa con más stock")
	require.Len(t, st.Lines, 2, "la bodega inactiva no siembra línea")
	assert.Equal(t, "v1@W2", st.Lines[0].ID())
	assert.Equal(t, 5, st.Lines[0].Available)
	assert.Equal(t, 0, st.Lines[0].Quantity)
	assert.Equal(t, "v1@W1", st.Lines[1].ID())
	assert.Equal(t, "Camisa", st.Lines[1].Display.ProductName)

	require.NoError(t, s.SeedFromVariant(context.Background(), "p1", "v1"))
	assert.Len(t, s.State().Lines, 2, "sembrar dos veces no duplica")

	assert.ErrorIs(t, s.SeedFromVariant(context.Background(), "p1", "v9"), domain.ErrNotFound)
	assert.ErrorIs(t, s.SeedFromVariant(context.Background(), "p9", "v1"), domain.ErrFetchFailed)
}

func TestTransferSession_SembradoDuranteEnvioRetornaBusy(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)
	seedProduct(gw)

	releaseProduct := gw.holdProduct("p1")
	seedDone := make(chan error, 1)
	go func() { seedDone <- s.SeedFromVariant(context.Background(), "p1", "v1") }()
	require.Equal(t, "p1", <-gw.entered)

	releaseSubmit := gw.holdSubmit()
	submitDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "")
		submitDone <- err
	}()
	require.Equal(t, "submit", <-gw.entered)

	close(releaseProduct)
	assert.ErrorIs(t, <-seedDone, domain.ErrBusy, "no se agregan líneas mientras hay un envío en curso")

	close(releaseSubmit)
	require.NoError(t, <-submitDone)
	assert.Empty(t, s.State().Lines)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferSession_SubmitExitoso(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)
	require.NoError(t, s.SetQuantity("v1@W1", decimal.NewFromInt(4)))

	out, err := s.Submit(context.Background(), "  reposición  ")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ItemsProcessed)
	assert.True(t, out.RefreshRequired)

	calls := gw.transferCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, ports.TransferRequest{
		FromWarehouseID: "W1",
		ToWarehouseID:   "W2",
		Reason:          "reposición",
		Items:           []entity.SubmissionItem{{VariantID: "v1", Quantity: 4}},
	}, calls[0])

	assert.Empty(t, s.State().Lines)
	_, ok := s.SourceSnapshot()
	assert.False(t, ok, "la caché se invalida después del envío")
}

func TestTransferSession_SubmitInvalidoNoLlamaAlServicio(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)
	require.NoError(t, s.SetDestination("v1@W1", ""))

	_, err := s.Submit(context.Background(), "")
	var verr *stockkeeping.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, stockkeeping.BlockerInvalidLines, verr.Blocker)
	assert.Empty(t, gw.transferCalls())
	assert.Len(t, s.State().Lines, 1)
}

func TestTransferSession_FallaParcialQuitaLineasConfirmadas(t *testing.T) {
	gw := newFakeGateway()
	seedProduct(gw)
	gw.transferErr[1] = &ports.RemoteError{StatusCode: 422, Message: "Stock insuficiente"}
	s := newTransferSession(t, gw)
	require.NoError(t, s.SeedFromVariant(context.Background(), "p1", "v1"))
	require.NoError(t, s.SetDestination("v1@W2", "W1"))
	require.NoError(t, s.SetDestination("v1@W1", "W2"))
	require.NoError(t, s.SetQuantity("v1@W2", decimal.NewFromInt(2)))
	require.NoError(t, s.SetQuantity("v1@W1", decimal.NewFromInt(1)))

	out, err := s.Submit(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "Stock insuficiente", err.Error())
	require.Len(t, out.Batches, 2)

	st := s.State()
	require.Len(t, st.Lines, 1, "solo queda la línea del lote rechazado")
	assert.Equal(t, "v1@W1", st.Lines[0].ID())
	assert.Equal(t, stockkeeping.IssueStockNotLoaded, st.Validation.Issues["v1@W1"], "hay que refrescar antes de reenviar")
}

func TestTransferSession_Cerrada(t *testing.T) {
	gw := newFakeGateway()
	s := readySession(t, gw)
	s.Close()

	assert.ErrorIs(t, s.AddLine("v2"), domain.ErrClosed)
	assert.ErrorIs(t, s.SelectSource(context.Background(), "W1"), domain.ErrClosed)
	_, err := s.Submit(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrClosed)
	assert.Empty(t, gw.transferCalls())
}
