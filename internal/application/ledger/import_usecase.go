package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

// LegacyRow fila de la planilla histórica (código, conteo, fecha).
type LegacyRow struct {
	Barcode   string
	Count     *int
	Timestamp *time.Time
}

// ImportReport resumen de una importación.
type ImportReport struct {
	Imported int `json:"imported"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// ImportUseCase migra la planilla histórica al libro: solo inserta códigos que no existan.
type ImportUseCase struct {
	txRunner     TxRunner
	descriptions repository.DescriptionLookup
	clock        Clock
	log          zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner TxRunner, descriptions repository.DescriptionLookup, clock Clock, log zerolog.Logger) *ImportUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ImportUseCase{txRunner: txRunner, descriptions: descriptions, clock: clock, log: log}
}

// ImportLegacy inserta las filas en una sola transacción. Filas sin código o sin conteo se omiten;
// conteos negativos se llevan a cero; sin fecha se usa la hora actual.
func (uc *ImportUseCase) ImportLegacy(ctx context.Context, rows []LegacyRow) (ImportReport, error) {
	var report ImportReport
	now := uc.clock()
	err := uc.txRunner.Run(ctx, func(repo repository.LedgerRepository) error {
		report = ImportReport{}
		for _, row := range rows {
			barcode := scan.Normalize(row.Barcode)
			if barcode == "" || row.Count == nil {
				report.Skipped++
				continue
			}
			entry := &entity.LedgerEntry{Barcode: barcode, TotalCount: max(0, *row.Count), LastUpdated: now}
			if row.Timestamp != nil {
				entry.LastUpdated = *row.Timestamp
			}
			if uc.descriptions != nil {
				entry.BackfillDescription(uc.descriptions.Lookup(barcode))
			}
			inserted, err := repo.InsertIfAbsent(ctx, entry)
			if err != nil {
				return err
			}
			if inserted {
				report.Imported++
			} else {
				report.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, storageError(err)
	}
	uc.log.Info().
		Int("imported", report.Imported).
		Int("existing", report.Existing).
		Int("skipped", report.Skipped).
		Msg("importación de planilla histórica")
	return report, nil
}
