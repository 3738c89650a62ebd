// Package pdf implementa el informe de entregas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del informe  │  Empresa + CNPJ/CPF           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Data | Descrição | Cliente | Produto | Qtd | Status  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: conteo por estado    │  Valor total                │
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

	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[entity.DeliveryStatus]string{
	entity.StatusPending:   "Pendente",
	entity.StatusInTransit: "Em trânsito",
	entity.StatusDelivered: "Entregue",
	entity.StatusCancelled: "Cancelada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ ports.ReportGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDeliveryReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeliveryReport(_ context.Context, report ports.DeliveryReport) ([]byte, error) {
	author := "Gestão de Entregas"
	if report.Company != nil {
		author = report.Company.LegalName
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Deliveries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Nenhuma entrega no período.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableDetailRows(report.Deliveries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y empresa + documento (der).
func headerRow(report ports.DeliveryReport) core.Row {
	company := "Todas as empresas"
	doc := ""
	if report.Company != nil {
		company = report.Company.LegalName
		doc = "CNPJ/CPF: " + taxid.Format(report.Company.TaxID)
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(company, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(doc, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Data", 2, align.Left),
		h("Descrição", 3, align.Left),
		h("Cliente", 2, align.Left),
		h("Produto", 2, align.Left),
		h("Qtd.", 1, align.Center),
		h("Status", 2, align.Right),
	)
}

// tableDetailRows: una fila por entrega.
func tableDetailRows(list []*entity.Delivery) []core.Row {
	result := make([]core.Row, 0, len(list))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	for _, d := range list {
		result = append(result, row.New(7).Add(
			cell(d.Date.Format("02/01/2006"), 2, align.Left),
			cell(d.Description, 3, align.Left),
			cell(d.ClientName, 2, align.Left),
			cell(nonEmpty(d.ProductDescription, "-"), 2, align.Left),
			cell(fmt.Sprintf("%d", d.Quantity), 1, align.Center),
			cell(statusLabel(d.Status), 2, align.Right),
		))
	}
	return result
}

// summaryRow: conteo por estado (izq) y total de entregas y valor (der).
func summaryRow(report ports.DeliveryReport) core.Row {
	lines := make([]string, 0, len(entity.DeliveryStatuses()))
	for _, s := range entity.DeliveryStatuses() {
		lines = append(lines, fmt.Sprintf("%s: %d", statusLabel(s), report.ByStatus[s]))
	}
	total := decimal.Zero
	for _, d := range report.Deliveries {
		total = total.Add(d.TotalValue())
	}
	return row.New(22).Add(
		col.New(6).Add(
			text.New("RESUMO POR STATUS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.Join(lines, "   |   "), props.Text{Size: 8, Top: 7}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Total de entregas: %d", len(report.Deliveries)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Valor total: "+formatMoney(total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 8,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.DeliveryStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea en reales con separador de miles "." y decimal ",".
// Ej: 1234567.5 → "R$ 1.234.567,50"
func formatMoney(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := "R$ " + string(buf) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
