// Package pdf genera el comprobante de traslado entre bodegas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + N° de lote  │  Fecha + Operador            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN → DESTINO (nombre + código)                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Variante | Cantidad                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ítems / Unidades / Procesados                      │
//	│  QR del lote + firmas de entrega y recibo                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

var _ stockkeeping.TransferSlipGenerator = (*TransferSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// TransferSlipGenerator implementa stockkeeping.TransferSlipGenerator con Maroto v2.
type TransferSlipGenerator struct {
	companyName string
}

// NewTransferSlipGenerator construye el generador. companyName va en el encabezado.
func NewTransferSlipGenerator(companyName string) *TransferSlipGenerator {
	return &TransferSlipGenerator{companyName: companyName}
}

// GenerateTransferSlip genera el PDF del lote y devuelve sus bytes.
func (g *TransferSlipGenerator) GenerateTransferSlip(
	_ context.Context,
	rec *entity.SubmissionRecord,
	from, to entity.Warehouse,
) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("pdf: lote nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de traslado", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(from, to))
	if rec.Reason != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Motivo: "+rec.Reason, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(rec.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rec))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *TransferSlipGenerator) headerRow(rec *entity.SubmissionRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.companyName, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE TRASLADO ENTRE BODEGAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Lote "+shortID(rec.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+rec.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Operador: "+rec.CreatedBy, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func routeRow(from, to entity.Warehouse) core.Row {
	endpoint := func(label string, w entity.Warehouse) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(w.Name, w.ID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Código: "+nonEmpty(w.Code, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(18).Add(endpoint("BODEGA ORIGEN", from), endpoint("BODEGA DESTINO", to))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Variante", 8, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func itemRows(items []entity.SubmissionItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(it.VariantID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(formatThousands(strconv.Itoa(it.Quantity)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(rec *entity.SubmissionRecord) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Ítems:"),
			label("Unidades:"),
			label("Procesados:"),
		),
		col.New(3).Add(
			value(strconv.Itoa(len(rec.Items))),
			value(formatThousands(rec.TotalQuantity.StringFixed(0))),
			value(strconv.Itoa(rec.ItemsProcessed)),
		),
	)
}

func footerRow(rec *entity.SubmissionRecord) core.Row {
	signature := func(label string) core.Col {
		return col.New(4).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center, Top: 22}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 27, Color: colorGray}),
		)
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(rec.ID, props.Rect{Percent: 90, Center: true})),
		signature("Entrega"),
		signature("Recibe"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatThousands inserta puntos de miles en un entero sin signo.
// Ej: "25000" → "25.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
