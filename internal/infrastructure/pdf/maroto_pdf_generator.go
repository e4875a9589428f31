// Package pdf genera el reporte de cuentas para administradores.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app       │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total | Pend. | Aprob. | Rech. | Revoc. | % aprob. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Usuario | Estado | Fecha de registro | ID            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// statusLabels etiqueta visible de cada estado.
var statusLabels = map[entity.Status]string{
	entity.StatusPending:  "Pendiente",
	entity.StatusApproved: "Aprobado",
	entity.StatusRejected: "Rechazado",
	entity.StatusRevoked:  "Revocado",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.RosterPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador. title aparece en el encabezado.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: nonEmpty(title, "SmartSignal")}
}

// GenerateRosterPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRosterPDF(_ context.Context, report usecase.RosterReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de usuarios", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(report.Stats)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Accounts) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No hay usuarios registrados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(tableDetailRows(report.Accounts)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la app (izq) y fecha de generación (der).
func headerRow(title string, report usecase.RosterReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de cuentas de usuario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRows: conteos por estado y tasa de aprobación.
func summaryRows(stats dto.StatsResponse) []core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 5}),
		)
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("RESUMEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(12).Add(
			cell("Total", fmt.Sprint(stats.TotalUsers)),
			cell("Pendientes", fmt.Sprint(stats.PendingUsers)),
			cell("Aprobados", fmt.Sprint(stats.ApprovedUsers)),
			cell("Rechazados", fmt.Sprint(stats.RejectedUsers)),
			cell("Revocados", fmt.Sprint(stats.RevokedUsers)),
			cell("% aprobación", stats.ApprovalRate.StringFixed(2)+"%"),
		),
	}
}

// tableHeaderRow: cabecera de la tabla de cuentas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Usuario", 4, align.Left),
		h("Estado", 2, align.Center),
		h("Registro", 2, align.Center),
		h("ID", 4, align.Left),
	)
}

// tableDetailRows: una fila por cuenta.
func tableDetailRows(accounts []*entity.Account) []core.Row {
	result := make([]core.Row, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(a.Username, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(statusLabel(a.Status), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(a.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(a.ID, props.Text{Size: 6.5, Align: align.Left, Top: 1.5, Left: 1, Color: colorGray})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.Status) string {
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
