// Package pdf genera la versión imprimible del conteo de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                  │  Fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Cantidad | Última actualiz.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Códigos distintos / Unidades                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"io"
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

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
)

var _ ledger.SnapshotWriter = (*LedgerPDFWriter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// LedgerPDFWriter implementa ledger.SnapshotWriter usando Maroto v2.
type LedgerPDFWriter struct {
	title string
}

// NewLedgerPDFWriter construye el generador; title aparece en el encabezado.
func NewLedgerPDFWriter(title string) *LedgerPDFWriter {
	if title == "" {
		title = "Conteo de inventario"
	}
	return &LedgerPDFWriter{title: title}
}

// WriteSnapshot genera el PDF y lo escribe en out.
func (g *LedgerPDFWriter) WriteSnapshot(_ context.Context, out io.Writer, entries []*entity.LedgerEntry, generatedAt time.Time) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(entries)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := out.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *LedgerPDFWriter) headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format(event.TimestampLayout), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 3, align.Left),
		h("Descripción", 5, align.Left),
		h("Cantidad", 1, align.Right),
		h("Última actualización", 3, align.Right),
	)
}

func tableRows(entries []*entity.LedgerEntry) []core.Row {
	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		desc := "—"
		if e.Description != nil && *e.Description != "" {
			desc = *e.Description
		}
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(e.Barcode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.Itoa(e.TotalCount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(e.LastUpdated.Format(event.TimestampLayout), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return rows
}

func totalsRow(entries []*entity.LedgerEntry) core.Row {
	units := 0
	for _, e := range entries {
		units += e.TotalCount
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Códigos distintos:"), label("Unidades:")),
		col.New(3).Add(value(formatThousands(len(entries))), value(formatThousands(units))),
	)
}

// formatThousands inserta puntos de miles. Ej: 1000000 → "1.000.000".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
