// Package pdf genera el reporte de cierre de caja en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  Caja N° + Estado             │
//	│  APERTURA / CIERRE: fechas, operadores                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUADRE: Método | Inicial | Ingresos | Egresos | Esperado |  │
//	│          Contado | Diferencia                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS: # | Hora | Tipo | Categoría | Método | Monto   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OBSERVACIONES                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/domain/entity"
)

var _ cash.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 20, Blue: 20}
)

var methodLabels = map[entity.PaymentMethod]string{
	entity.MethodEfectivo: "Efectivo",
	entity.MethodYape:     "Yape",
	entity.MethodPlin:     "Plin",
	entity.MethodPOSBanco: "POS / Banco",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa cash.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateClosingReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateClosingReport(_ context.Context, r cash.ClosingReport) ([]byte, error) {
	if r.Session == nil {
		return nil, fmt.Errorf("pdf: sesión vacía")
	}
	title := nonEmpty(r.BusinessTitle, "Caja")
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Cierre de caja #%d", r.Session.ID), true).
		WithAuthor(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, r.Session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(shiftRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("CUADRE POR MÉTODO DE PAGO"))
	m.AddRows(balanceHeaderRow())
	m.AddRows(balanceRows(r)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(r)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("MOVIMIENTOS (%d)", len(r.Movements))))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(r.Movements)...)

	if r.Session.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("OBSERVACIONES"))
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(r.Session.Notes, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 6.5, Color: colorGray, Top: 3, Align: align.Right,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, s *entity.CashSession) core.Row {
	status := strings.ToUpper(strings.ReplaceAll(string(s.Status), "_", " "))
	statusColor := colorPrimary
	if s.Status == entity.SessionClosedWithDiffs {
		statusColor = colorRed
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Reporte de cierre de caja", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("CAJA N° %d", s.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 9, Color: statusColor,
			}),
		),
	)
}

func shiftRow(r cash.ClosingReport) core.Row {
	s := r.Session
	closed := "—"
	if s.ClosedAt != nil {
		closed = s.ClosedAt.Format("02/01/2006 15:04")
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("APERTURA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Usuario: %s", s.OpenedAt.Format("02/01/2006 15:04"), userLabel(s.OpenedBy)),
				props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("CIERRE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Usuario: %s", closed, userLabel(s.ClosedBy)),
				props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func balanceHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Método", 2, align.Left),
		h("Inicial", 2, align.Right),
		h("Ingresos", 2, align.Right),
		h("Egresos", 1, align.Right),
		h("Esperado", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Dif.", 1, align.Right),
	)
}

func balanceRows(r cash.ClosingReport) []core.Row {
	s := r.Session
	out := make([]core.Row, 0, len(entity.PaymentMethods))
	cell := func(v string, size int, a align.Type, c *props.Color) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: c}))
	}
	for _, m := range entity.PaymentMethods {
		counted, diff := "—", "—"
		var diffColor *props.Color
		if s.Counted != nil {
			counted = formatMoney(s.Counted.Get(m))
		}
		if s.Differences != nil {
			d := s.Differences.Get(m)
			diff = formatMoney(d)
			if !d.IsZero() {
				diffColor = colorRed
			}
		}
		out = append(out, row.New(6).Add(
			cell(methodLabels[m], 2, align.Left, nil),
			cell(formatMoney(s.Opening.Get(m)), 2, align.Right, nil),
			cell(formatMoney(r.Ingress.Get(m)), 2, align.Right, nil),
			cell(formatMoney(r.Egress.Get(m)), 1, align.Right, nil),
			cell(formatMoney(r.Expected.Get(m)), 2, align.Right, nil),
			cell(counted, 2, align.Right, nil),
			cell(diff, 1, align.Right, diffColor),
		))
	}
	return out
}

func totalsRows(r cash.ClosingReport) []core.Row {
	total := func(label, value string, c *props.Color) core.Row {
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Color: c,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Size: 9, Align: align.Right, Right: 1, Color: c,
			})),
		)
	}
	net := r.TotalIngress.Sub(r.TotalEgress)
	return []core.Row{
		total("Total ingresos:", formatMoney(r.TotalIngress), nil),
		total("Total egresos:", formatMoney(r.TotalEgress), nil),
		total("NETO DEL TURNO:", formatMoney(net), colorPrimary),
	}
}

func movementHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("#", 1, align.Left),
		h("Hora", 1, align.Left),
		h("Tipo", 1, align.Left),
		h("Categoría", 2, align.Left),
		h("Método", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Monto", 2, align.Right),
	)
}

func movementRows(movs []*entity.CashMovement) []core.Row {
	out := make([]core.Row, 0, len(movs))
	for _, mv := range movs {
		c := colorGray
		if !mv.Active() {
			c = colorRed
		}
		cell := func(v string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(v, props.Text{Size: 7, Align: a, Top: 1, Left: 1, Right: 1, Color: c}))
		}
		desc := mv.Description
		if !mv.Active() {
			desc = "[EXTORNADO] " + desc
		}
		out = append(out, row.New(5).Add(
			cell(fmt.Sprintf("%d", mv.ID), 1, align.Left),
			cell(mv.CreatedAt.Format("15:04"), 1, align.Left),
			cell(string(mv.Direction), 1, align.Left),
			cell(string(mv.Category), 2, align.Left),
			cell(methodLabels[mv.Method], 2, align.Left),
			cell(desc, 3, align.Left),
			cell(formatMoney(mv.Signed()), 2, align.Right),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func userLabel(id *int64) string {
	if id == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *id)
}

// formatMoney formatea en soles con separador de miles y dos decimales.
// Ej: 1234.5 → "S/ 1,234.50", -20 → "-S/ 20.00"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "S/ " + string(buf) + "." + frac
}
