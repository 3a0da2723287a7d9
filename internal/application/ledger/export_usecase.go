package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// ExportUseCase genera instantáneas de solo lectura del libro.
type ExportUseCase struct {
	ledger *LedgerUseCase
	xlsx   SnapshotWriter
	pdf    SnapshotWriter
	clock  Clock
}

// NewExportUseCase construye el caso de uso. pdf puede ser nil (export PDF deshabilitado).
func NewExportUseCase(ledger *LedgerUseCase, xlsx, pdf SnapshotWriter, clock Clock) *ExportUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ExportUseCase{ledger: ledger, xlsx: xlsx, pdf: pdf, clock: clock}
}

// ExportSnapshot devuelve el XLSX y su nombre de archivo sugerido.
func (uc *ExportUseCase) ExportSnapshot(ctx context.Context) ([]byte, string, error) {
	return uc.export(ctx, uc.xlsx, "xlsx")
}

// ExportPDF devuelve el PDF y su nombre de archivo sugerido.
func (uc *ExportUseCase) ExportPDF(ctx context.Context) ([]byte, string, error) {
	return uc.export(ctx, uc.pdf, "pdf")
}

func (uc *ExportUseCase) export(ctx context.Context, w SnapshotWriter, ext string) ([]byte, string, error) {
	if w == nil {
		return nil, "", exportError(fmt.Errorf("formato %s no configurado", ext))
	}
	entries, err := uc.ledger.ListEntries(ctx)
	if err != nil {
		return nil, "", exportError(err)
	}
	now := uc.clock()
	var buf bytes.Buffer
	if err := w.WriteSnapshot(ctx, &buf, entries, now); err != nil {
		return nil, "", exportError(err)
	}
	filename := fmt.Sprintf("inventory_export_%s.%s", now.Format("20060102_150405"), ext)
	return buf.Bytes(), filename, nil
}
