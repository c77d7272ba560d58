// Package pdf genera el reporte de retiradas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período             │  Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Cant | Usuario | Destino          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: retiradas + unidades                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ usecase.WithdrawalReportGenerator = (*WithdrawalReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// WithdrawalReportGenerator implementa usecase.WithdrawalReportGenerator con Maroto v2.
type WithdrawalReportGenerator struct {
	title string
	loc   *time.Location
}

// NewWithdrawalReportGenerator construye el generador. Las fechas se imprimen en loc (UTC si es nil).
func NewWithdrawalReportGenerator(title string, loc *time.Location) *WithdrawalReportGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &WithdrawalReportGenerator{title: title, loc: loc}
}

// GenerateWithdrawalReport genera el PDF y devuelve sus bytes.
func (g *WithdrawalReportGenerator) GenerateWithdrawalReport(_ context.Context, report *usecase.WithdrawalReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Sin retiradas en el período", props.Text{
			Size: 8, Align: align.Center, Top: 2, Color: colorGray,
		}))))
	}
	for _, it := range report.Items {
		m.AddRows(g.itemRow(it))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(len(report.Items), report.Total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *WithdrawalReportGenerator) headerRow(report *usecase.WithdrawalReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Período: "+g.period(report.From, report.To), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Emitido: "+report.GeneratedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func (g *WithdrawalReportGenerator) period(from, to *time.Time) string {
	f, t := "inicio", "hoy"
	if from != nil {
		f = from.In(g.loc).Format("02/01/2006")
	}
	if to != nil {
		t = to.In(g.loc).Format("02/01/2006")
	}
	return f + " a " + t
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Usuario", 2, align.Left),
		h("Destino", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *WithdrawalReportGenerator) itemRow(it repository.WithdrawalItem) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(it.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), 2, align.Left),
		cell(it.ProductName, 4, align.Left),
		cell(strconv.Itoa(it.Quantity), 1, align.Center),
		cell(it.Username, 2, align.Left),
		cell(it.Destination, 3, align.Left),
	)
}

func totalRow(count, total int) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New(fmt.Sprintf("Retiradas: %d", count), props.Text{Size: 9, Top: 3})),
		col.New(4).Add(text.New(fmt.Sprintf("TOTAL UNIDADES: %d", total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3, Color: colorPrimary,
		})),
	)
}
