package descriptions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFile lee un catálogo desde .csv o .xlsx: columna A código, columna B descripción.
// Una primera fila cuyo código sea "barcode" o "codigo" se toma como encabezado.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("catálogo: extensión no soportada %q", filepath.Ext(path))
	}
}

// ReadCSV lee el catálogo en CSV (separador coma, filas de largo variable).
func ReadCSV(r io.Reader) (Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	c := Catalog{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) >= 2 {
			c.add(rec[0], strings.TrimSpace(rec[1]))
		}
	}
	return c, nil
}

// ReadXLSX lee el catálogo desde la primera hoja.
func ReadXLSX(r io.Reader) (Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Catalog{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	c := Catalog{}
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) >= 2 {
			c.add(row[0], strings.TrimSpace(row[1]))
		}
	}
	return c, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(row[0])) {
	case "barcode", "codigo", "código":
		return true
	}
	return false
}
