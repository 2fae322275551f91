package stockkeeping_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Snapshots y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeSearchTerm(t *testing.T) {
	cases := map[string]string{
		"  Camisa  AZÚL ": "camisa azul",
		"Pantalón":        "pantalon",
		"":                "",
		"   ":             "",
		"ñandú":           "nandu",
	}
	for in, want := range cases {
		assert.Equal(t, want, stockkeeping.NormalizeSearchTerm(in), "término %q", in)
	}
}

func TestNewWarehouseSnapshot_DescartaNoPositivosYDuplicados(t *testing.T) {
	snap := stockkeeping.NewWarehouseSnapshot("W1", entity.Warehouse{ID: "W1"}, []entity.StockEntry{
		stockEntry("v1", 3),
		stockEntry("v2", 0),
		stockEntry("v3", -2),
		stockEntry("v1", 9),
		stockEntry("v4", 1),
	}, time.Now())

	entries := snap.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "v1", entries[0].VariantID)
	assert.Equal(t, 3, entries[0].OnHand, "la primera aparición gana")
	assert.Equal(t, "W1", entries[0].WarehouseID)
	assert.Equal(t, "v4", entries[1].VariantID)

	_, ok := snap.Lookup("v2")
	assert.False(t, ok, "las existencias en cero no forman parte del snapshot")
}

func TestNewUnallocatedSnapshot_CompletoSoloSinFiltro(t *testing.T) {
	assert.True(t, stockkeeping.NewUnallocatedSnapshot("  ", nil, time.Now()).Complete)
	filtered := stockkeeping.NewUnallocatedSnapshot(" Camisa ", nil, time.Now())
	assert.False(t, filtered.Complete)
	assert.Equal(t, "camisa", filtered.Term)
}

// ──────────────────────────────────────────────────────────────────────────────
// Re-derivación de líneas
// ──────────────────────────────────────────────────────────────────────────────

func transferLine(variantID, from, to string, available, qty int) entity.StockLine {
	return entity.StockLine{
		VariantID:              variantID,
		SourceWarehouseID:      from,
		DestinationWarehouseID: to,
		Available:              available,
		Quantity:               qty,
	}
}

func TestReconcileTransferLines_RecortaYElimina(t *testing.T) {
	snap := stockkeeping.NewWarehouseSnapshot("W1", entity.Warehouse{}, []entity.StockEntry{
		stockEntry("v1", 3),
		stockEntry("v2", 0),
	}, time.Now())
	lines := []entity.StockLine{
		transferLine("v1", "W1", "W2", 10, 5),
		transferLine("v2", "W1", "W2", 4, 1),
		transferLine("v3", "W1", "W2", 4, 1),
		transferLine("v4", "W2", "W1", 7, 7),
	}

	got := stockkeeping.ReconcileTransferLines(lines, snap)

	require.Len(t, got, 2)
	assert.Equal(t, "v1@W1", got[0].ID())
	assert.Equal(t, 3, got[0].Available)
	assert.Equal(t, 3, got[0].Quantity, "la cantidad se recorta al nuevo disponible")
	assert.Equal(t, lines[3], got[1], "las líneas de otra bodega no se tocan")
	assert.Equal(t, 5, lines[0].Quantity, "la entrada no se modifica")
}

func TestReconcileTransferLines_Idempotente(t *testing.T) {
	snap := stockkeeping.NewWarehouseSnapshot("W1", entity.Warehouse{}, []entity.StockEntry{
		stockEntry("v1", 2),
		stockEntry("v2", 8),
	}, time.Now())
	lines := []entity.StockLine{
		transferLine("v1", "W1", "W2", 9, 9),
		transferLine("v2", "W1", "", 8, 0),
		transferLine("v9", "W1", "W2", 1, 1),
	}

	once := stockkeeping.ReconcileTransferLines(lines, snap)
	twice := stockkeeping.ReconcileTransferLines(once, snap)
	assert.Equal(t, once, twice)
	for _, l := range twice {
		assert.GreaterOrEqual(t, l.Quantity, 0)
		assert.LessOrEqual(t, l.Quantity, l.Available)
	}
}

func TestReconcileReconciliationLines_BusquedaFiltradaConservaAusentes(t *testing.T) {
	rows := []entity.UnallocatedVariant{
		{VariantID: "v1", ProductName: "Camisa", UnallocatedOnHand: 4},
		{VariantID: "v3", ProductName: "Camisa", UnallocatedOnHand: 0},
	}
	lines := []entity.ReconciliationLine{
		{VariantID: "v1", UnallocatedOnHand: 10, Quantity: 10, TargetWarehouseID: "W1"},
		{VariantID: "v2", UnallocatedOnHand: 6, Quantity: 6, TargetWarehouseID: "W1"},
		{VariantID: "v3", UnallocatedOnHand: 2, Quantity: 2, TargetWarehouseID: "W1"},
	}

	filtered := stockkeeping.ReconcileReconciliationLines(lines, stockkeeping.NewUnallocatedSnapshot("camisa", rows, time.Now()))
	require.Len(t, filtered, 2)
	assert.Equal(t, 4, filtered[0].Quantity)
	assert.Equal(t, 4, filtered[0].UnallocatedOnHand)
	assert.Equal(t, lines[1], filtered[1], "una variante fuera del filtro no se descarta")

	complete := stockkeeping.ReconcileReconciliationLines(lines, stockkeeping.NewUnallocatedSnapshot("", rows, time.Now()))
	require.Len(t, complete, 1)
	assert.Equal(t, "v1", complete[0].VariantID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateTransferLines(t *testing.T) {
	valid := transferLine("v1", "A", "B", 5, 2)
	loaded := func(string) bool { return true }

	tests := []struct {
		name     string
		lines    []entity.StockLine
		activity stockkeeping.Activity
		loaded   func(string) bool
		blocker  string
		issue    stockkeeping.LineIssue
	}{
		{name: "selección vacía", blocker: stockkeeping.BlockerEmpty},
		{name: "línea válida", lines: []entity.StockLine{valid}, loaded: loaded},
		{name: "sin destino", lines: []entity.StockLine{transferLine("v1", "A", "", 5, 2)},
			blocker: stockkeeping.BlockerInvalidLines, issue: stockkeeping.IssueDestinationRequired},
		{name: "destino igual al origen", lines: []entity.StockLine{transferLine("v1", "A", "A", 5, 2)},
			blocker: stockkeeping.BlockerInvalidLines, issue: stockkeeping.IssueSameWarehouse},
		{name: "cantidad cero", lines: []entity.StockLine{transferLine("v1", "A", "B", 5, 0)},
			blocker: stockkeeping.BlockerInvalidLines, issue: stockkeeping.IssueQuantityNotPositive},
		{name: "cantidad mayor al disponible", lines: []entity.StockLine{transferLine("v1", "A", "B", 5, 6)},
			blocker: stockkeeping.BlockerInvalidLines, issue: stockkeeping.IssueQuantityExceedsAvailable},
		{name: "existencias sin cargar", lines: []entity.StockLine{valid}, loaded: func(string) bool { return false },
			blocker: stockkeeping.BlockerInvalidLines, issue: stockkeeping.IssueStockNotLoaded},
		{name: "consulta en curso", lines: []entity.StockLine{valid}, loaded: loaded,
			activity: stockkeeping.Activity{Fetching: true}, blocker: stockkeeping.BlockerFetching},
		{name: "envío en curso", lines: []entity.StockLine{valid}, loaded: loaded,
			activity: stockkeeping.Activity{Submitting: true, Fetching: true}, blocker: stockkeeping.BlockerSubmitting},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := stockkeeping.ValidateTransferLines(tc.lines, tc.activity, tc.loaded)
			assert.Equal(t, tc.blocker, res.Blocker)
			assert.Equal(t, tc.blocker == stockkeeping.BlockerNone, res.Submittable)
			if tc.issue != "" {
				assert.Equal(t, tc.issue, res.Issues["v1@A"])
			} else {
				assert.Empty(t, res.Issues)
			}
		})
	}
}

func TestValidationResult_ErrEnvuelveNoEnviable(t *testing.T) {
	res := stockkeeping.ValidateTransferLines([]entity.StockLine{
		transferLine("v1", "A", "B", 5, 6),
		transferLine("v2", "A", "", 5, 1),
	}, stockkeeping.Activity{}, nil)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotSubmittable))
	var verr *stockkeeping.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 2)
	assert.Equal(t, "línea v1@A: la cantidad supera el stock disponible (y 1 línea(s) más con errores)", err.Error())
}

func TestValidateReconciliationLines(t *testing.T) {
	res := stockkeeping.ValidateReconciliationLines([]entity.ReconciliationLine{
		{VariantID: "v1", UnallocatedOnHand: 5, Quantity: 5, TargetWarehouseID: "W1"},
		{VariantID: "v2", UnallocatedOnHand: 5, Quantity: 5},
		{VariantID: "v3", UnallocatedOnHand: 5, Quantity: 0, TargetWarehouseID: "W1"},
		{VariantID: "v4", UnallocatedOnHand: 5, Quantity: 7, TargetWarehouseID: "W1"},
	}, stockkeeping.Activity{})

	assert.False(t, res.Submittable)
	assert.NotContains(t, res.Issues, "v1")
	assert.Equal(t, stockkeeping.IssueTargetRequired, res.Issues["v2"])
	assert.Equal(t, stockkeeping.IssueQuantityNotPositive, res.Issues["v3"])
	assert.Equal(t, stockkeeping.IssueQuantityExceedsAvailable, res.Issues["v4"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Planificación de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanTransferBatches_AgrupaPorRutaEnOrden(t *testing.T) {
	batches, err := stockkeeping.PlanTransferBatches([]entity.StockLine{
		transferLine("v1", "A", "B", 5, 2),
		transferLine("v2", "C", "B", 5, 1),
		transferLine("v3", "A", "B", 5, 4),
		transferLine("v4", "A", "C", 5, 0),
	})
	require.NoError(t, err)
	require.Len(t, batches, 2, "las líneas en cero no generan lote")

	assert.Equal(t, "A", batches[0].FromWarehouseID)
	assert.Equal(t, "B", batches[0].ToWarehouseID)
	assert.Equal(t, []entity.SubmissionItem{
		{VariantID: "v1", Quantity: 2},
		{VariantID: "v3", Quantity: 4},
	}, batches[0].Items)
	assert.Equal(t, []string{"v1@A", "v3@A"}, batches[0].LineIDs)

	assert.Equal(t, "C", batches[1].FromWarehouseID)
	assert.Equal(t, "B", batches[1].ToWarehouseID)
	assert.Equal(t, []entity.SubmissionItem{{VariantID: "v2", Quantity: 1}}, batches[1].Items)
}

func TestPlanTransferBatches_SinLineasValidas(t *testing.T) {
	_, err := stockkeeping.PlanTransferBatches([]entity.StockLine{transferLine("v1", "A", "B", 5, 0)})
	assert.ErrorIs(t, err, domain.ErrNoValidLines)

	_, err = stockkeeping.PlanTransferBatches(nil)
	assert.ErrorIs(t, err, domain.ErrNoValidLines)
}

func TestPlanReconciliationBatch_DestinosMezclados(t *testing.T) {
	batch, err := stockkeeping.PlanReconciliationBatch([]entity.ReconciliationLine{
		{VariantID: "v1", Quantity: 3, TargetWarehouseID: "W1"},
		{VariantID: "v2", Quantity: 0, TargetWarehouseID: "W1"},
		{VariantID: "v3", Quantity: 1, TargetWarehouseID: "W2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.SubmissionItem{
		{VariantID: "v1", WarehouseID: "W1", Quantity: 3},
		{VariantID: "v3", WarehouseID: "W2", Quantity: 1},
	}, batch.Items)
	assert.Equal(t, []string{"v1", "v3"}, batch.LineIDs)

	_, err = stockkeeping.PlanReconciliationBatch([]entity.ReconciliationLine{{VariantID: "v1"}})
	assert.ErrorIs(t, err, domain.ErrNoValidLines)
}

func TestRebindTransferLines(t *testing.T) {
	snap := stockkeeping.NewWarehouseSnapshot("B", entity.Warehouse{ID: "B"}, []entity.StockEntry{
		{VariantID: "v1", OnHand: 2},
		{VariantID: "v3", OnHand: 7},
	}, time.Now())
	lines := []entity.StockLine{
		{VariantID: "v1", SourceWarehouseID: "A", Available: 5, Quantity: 4},
		{VariantID: "v2", SourceWarehouseID: "A", Available: 5, Quantity: 1},
		{VariantID: "v3", SourceWarehouseID: "C", Available: 9, Quantity: 9, Seeded: true},
		{VariantID: "v3", SourceWarehouseID: "A", Available: 1, Quantity: 1},
		{VariantID: "v3", SourceWarehouseID: "B", Available: 7, Quantity: 3},
	}

	got := stockkeeping.RebindTransferLines(lines, "B", snap)

	require.Len(t, got, 3)
	assert.Equal(t, entity.StockLine{VariantID: "v1", SourceWarehouseID: "B", Available: 2, Quantity: 2}, got[0])
	assert.Equal(t, "v3@C", got[1].ID(), "las líneas sembradas conservan su origen")
	assert.Equal(t, "v3@B", got[2].ID())
	assert.Equal(t, 3, got[2].Quantity, "si ya había línea en la bodega nueva se conserva esa")
	assert.Equal(t, "A", lines[0].SourceWarehouseID, "no modifica la entrada")
	assert.Equal(t, got, stockkeeping.RebindTransferLines(got, "B", snap), "idempotente")
}
