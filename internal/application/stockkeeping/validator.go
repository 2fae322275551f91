package stockkeeping

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// LineIssue motivo por el que una línea no es válida.
type LineIssue string

const (
	IssueDestinationRequired      LineIssue = "DESTINATION_REQUIRED"
	IssueSameWarehouse            LineIssue = "SAME_WAREHOUSE"
	IssueQuantityNotPositive      LineIssue = "QUANTITY_NOT_POSITIVE"
	IssueQuantityExceedsAvailable LineIssue = "QUANTITY_EXCEEDS_AVAILABLE"
	IssueTargetRequired           LineIssue = "TARGET_REQUIRED"
	IssueStockNotLoaded           LineIssue = "STOCK_NOT_LOADED"
)

var issueMessages = map[LineIssue]string{
	IssueDestinationRequired:      "seleccione la bodega destino",
	IssueSameWarehouse:            "la bodega destino debe ser distinta de la de origen",
	IssueQuantityNotPositive:      "la cantidad debe ser un entero positivo",
	IssueQuantityExceedsAvailable: "la cantidad supera el stock disponible",
	IssueTargetRequired:           "seleccione la bodega a la que se asigna el stock",
	IssueStockNotLoaded:           "las existencias de la bodega origen no están cargadas; actualice",
}

// Message texto legible del motivo.
func (i LineIssue) Message() string {
	if m, ok := issueMessages[i]; ok {
		return m
	}
	return string(i)
}

// Motivos globales que impiden enviar el lote.
const (
	BlockerNone         = ""
	BlockerEmpty        = "EMPTY"
	BlockerInvalidLines = "INVALID_LINES"
	BlockerFetching     = "FETCH_IN_FLIGHT"
	BlockerSubmitting   = "SUBMIT_IN_FLIGHT"
)

// Activity operaciones remotas en curso en la sesión.
type Activity struct {
	Fetching   bool
	Submitting bool
}

// LineProblem motivo asociado a una línea, en el orden de la selección.
type LineProblem struct {
	LineID string
	Issue  LineIssue
}

// ValidationResult resultado de validar la selección completa.
// La ausencia de una línea en Issues significa que es válida.
type ValidationResult struct {
	Issues      map[string]LineIssue
	Problems    []LineProblem
	Submittable bool
	Blocker     string
}

// ValidateTransferLines valida las líneas de traslado. loaded, si no es nil, indica
// si hay snapshot vigente para una bodega origen; sin él la disponibilidad no está atada
// a la verdad remota y la línea no se puede enviar.
func ValidateTransferLines(lines []entity.StockLine, activity Activity, loaded func(warehouseID string) bool) ValidationResult {
	res := ValidationResult{Issues: make(map[string]LineIssue)}
	for _, l := range lines {
		if issue, bad := transferLineIssue(l, loaded); bad {
			res.add(l.ID(), issue)
		}
	}
	res.finish(len(lines), activity)
	return res
}

func transferLineIssue(l entity.StockLine, loaded func(string) bool) (LineIssue, bool) {
	switch {
	case l.DestinationWarehouseID == "":
		return IssueDestinationRequired, true
	case l.DestinationWarehouseID == l.SourceWarehouseID:
		return IssueSameWarehouse, true
	case l.Quantity <= 0:
		return IssueQuantityNotPositive, true
	case l.Quantity > l.Available:
		return IssueQuantityExceedsAvailable, true
	case loaded != nil && !loaded(l.SourceWarehouseID):
		return IssueStockNotLoaded, true
	}
	return "", false
}

// ValidateReconciliationLines valida las líneas de conciliación.
func ValidateReconciliationLines(lines []entity.ReconciliationLine, activity Activity) ValidationResult {
	res := ValidationResult{Issues: make(map[string]LineIssue)}
	for _, l := range lines {
		switch {
		case l.TargetWarehouseID == "":
			res.add(l.ID(), IssueTargetRequired)
		case l.Quantity <= 0:
			res.add(l.ID(), IssueQuantityNotPositive)
		case l.Quantity > l.UnallocatedOnHand:
			res.add(l.ID(), IssueQuantityExceedsAvailable)
		}
	}
	res.finish(len(lines), activity)
	return res
}

func (r *ValidationResult) add(lineID string, issue LineIssue) {
	r.Issues[lineID] = issue
	r.Problems = append(r.Problems, LineProblem{LineID: lineID, Issue: issue})
}

func (r *ValidationResult) finish(count int, activity Activity) {
	switch {
	case activity.Submitting:
		r.Blocker = BlockerSubmitting
	case activity.Fetching:
		r.Blocker = BlockerFetching
	case count == 0:
		r.Blocker = BlockerEmpty
	case len(r.Problems) > 0:
		r.Blocker = BlockerInvalidLines
	}
	r.Submittable = r.Blocker == BlockerNone
}

// Err convierte un resultado no enviable en *ValidationError.
func (r ValidationResult) Err() error {
	if r.Submittable {
		return nil
	}
	return &ValidationError{Blocker: r.Blocker, Problems: r.Problems}
}

// ValidationError el lote no pasó la validación local; no se hizo ninguna llamada remota.
type ValidationError struct {
	Blocker  string
	Problems []LineProblem
}

func (e *ValidationError) Error() string {
	switch e.Blocker {
	case BlockerSubmitting:
		return "ya hay un envío en curso"
	case BlockerFetching:
		return "espere a que terminen de cargar las existencias"
	case BlockerEmpty:
		return "no hay líneas seleccionadas"
	}
	if len(e.Problems) == 0 {
		return domain.ErrNotSubmittable.Error()
	}
	first := e.Problems[0]
	var b strings.Builder
	fmt.Fprintf(&b, "línea %s: %s", first.LineID, first.Issue.Message())
	if n := len(e.Problems) - 1; n > 0 {
		fmt.Fprintf(&b, " (y %d línea(s) más con errores)", n)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrNotSubmittable
}
