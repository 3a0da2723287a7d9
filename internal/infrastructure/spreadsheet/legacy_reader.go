package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
)

// ReadLegacy lee la planilla histórica (fila 1 encabezado; columnas código, conteo, fecha).
// Las fechas pueden venir como texto "YYYY-MM-DD HH:MM:SS" o como fecha nativa de Excel.
func ReadLegacy(r io.Reader) ([]ledger.LegacyRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}

	out := make([]ledger.LegacyRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		var lr ledger.LegacyRow
		if len(row) > 0 {
			lr.Barcode = row[0]
		}
		if len(row) > 1 {
			lr.Count = parseCount(row[1])
		}
		if len(row) > 2 {
			lr.Timestamp = parseTimestamp(row[2])
		}
		out = append(out, lr)
	}
	return out, nil
}

func parseCount(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation(event.TimestampLayout, s, time.Local); err == nil {
		return &t
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return &t
		}
	}
	return nil
}
