// Package spreadsheet serializa el libro a XLSX y lee la planilla histórica de conteos.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
)

var _ ledger.SnapshotWriter = (*XLSXWriter)(nil)

// SheetName nombre de la hoja exportada (el mismo que usaba la planilla histórica).
const SheetName = "Inventory"

var header = []any{"Barcode", "Total Count", "Last Updated", "Description"}

// XLSXWriter genera la instantánea del libro en formato XLSX.
type XLSXWriter struct{}

// NewXLSXWriter construye el writer.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

// WriteSnapshot escribe una fila por entrada en el orden recibido.
func (w *XLSXWriter) WriteSnapshot(ctx context.Context, out io.Writer, entries []*entity.LedgerEntry, _ time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		desc := ""
		if e.Description != nil {
			desc = *e.Description
		}
		row := []any{e.Barcode, e.TotalCount, e.LastUpdated.Format(event.TimestampLayout), desc}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 22)
	_ = f.SetColWidth(SheetName, "C", "C", 20)
	_ = f.SetColWidth(SheetName, "D", "D", 40)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
