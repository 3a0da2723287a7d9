package ledger_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
)

type stubWriter struct {
	got []*entity.LedgerEntry
	err error
}

func (w *stubWriter) WriteSnapshot(_ context.Context, out io.Writer, entries []*entity.LedgerEntry, _ time.Time) error {
	w.got = entries
	if w.err != nil {
		return w.err
	}
	_, err := out.Write([]byte("snapshot"))
	return err
}

func intPtr(v int) *int { return &v }

func TestExportSnapshot_NombreDeArchivo(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.Upsert(context.Background(), &entity.LedgerEntry{Barcode: "A1", TotalCount: 2}))
	f.clock.Set(time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC))

	xlsx := &stubWriter{}
	uc := ledger.NewExportUseCase(f.ledger, xlsx, nil, f.clock.Now)

	data, name, err := uc.ExportSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inventory_export_20240301_140509.xlsx", name)
	assert.Equal(t, []byte("snapshot"), data)
	require.Len(t, xlsx.got, 1)
	assert.Equal(t, "A1", xlsx.got[0].Barcode)
}

func TestExportSnapshot_FalloDelEscritor(t *testing.T) {
	f := newFixture(t, nil)
	uc := ledger.NewExportUseCase(f.ledger, &stubWriter{err: errors.New("sin espacio")}, nil, f.clock.Now)

	_, _, err := uc.ExportSnapshot(context.Background())
	require.ErrorIs(t, err, domain.ErrExport)
	assert.Contains(t, err.Error(), "sin espacio")
}

func TestExportPDF_SinEscritorConfigurado(t *testing.T) {
	f := newFixture(t, nil)
	uc := ledger.NewExportUseCase(f.ledger, &stubWriter{}, nil, f.clock.Now)

	_, _, err := uc.ExportPDF(context.Background())
	assert.ErrorIs(t, err, domain.ErrExport)
}

func TestExportSnapshot_NoModificaElLibro(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.submit(t, "ADD")
	_, _ = f.submit(t, "A1")
	uc := ledger.NewExportUseCase(f.ledger, &stubWriter{}, &stubWriter{}, f.clock.Now)

	_, name, err := uc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inventory_export_20240301_080000.pdf", name)
	assert.Equal(t, 1, f.count(t, "A1"))
	assert.Equal(t, 1, f.size(t))
}

func TestImportLegacy_SoloInsertaAusentes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.Upsert(ctx, &entity.LedgerEntry{Barcode: "EXIST", TotalCount: 9}))

	ts := time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)
	rows := []ledger.LegacyRow{
		{Barcode: " abc123 ", Count: intPtr(4), Timestamp: &ts},
		{Barcode: "exist", Count: intPtr(1)},
		{Barcode: "NEG", Count: intPtr(-3)},
		{Barcode: "", Count: intPtr(2)},
		{Barcode: "NOCOUNT"},
	}

	uc := ledger.NewImportUseCase(f.store, f.descs, f.clock.Now, zerolog.Nop())
	report, err := uc.ImportLegacy(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, ledger.ImportReport{Imported: 2, Existing: 1, Skipped: 2}, report)

	abc, err := f.store.Get(ctx, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, abc)
	assert.Equal(t, 4, abc.TotalCount)
	assert.Equal(t, ts, abc.LastUpdated)
	require.NotNil(t, abc.Description)
	assert.Equal(t, "Tornillo 3/8", *abc.Description)

	assert.Equal(t, 9, f.count(t, "EXIST"))
	assert.Equal(t, 0, f.count(t, "NEG"))

	neg, err := f.store.Get(ctx, "NEG")
	require.NoError(t, err)
	assert.Equal(t, t0, neg.LastUpdated)
}

func TestImportLegacy_FalloRevierteTodo(t *testing.T) {
	f := newFixture(t, nil)
	tx := failingTx{store: f.store, err: errors.New("conexión perdida")}
	uc := ledger.NewImportUseCase(tx, nil, f.clock.Now, zerolog.Nop())

	_, err := uc.ImportLegacy(context.Background(), []ledger.LegacyRow{{Barcode: "A", Count: intPtr(1)}})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 0, f.size(t))
}
