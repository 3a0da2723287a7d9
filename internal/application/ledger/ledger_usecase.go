package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

// LedgerUseCase consultas y correcciones manuales del libro (sin pasar por el guardián).
type LedgerUseCase struct {
	repo      repository.LedgerRepository
	txRunner  TxRunner
	processor *Processor
	bus       Broadcaster
	clock     Clock
	log       zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	repo repository.LedgerRepository,
	txRunner TxRunner,
	processor *Processor,
	bus Broadcaster,
	clock Clock,
	log zerolog.Logger,
) *LedgerUseCase {
	if bus == nil {
		bus = NopBroadcaster{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &LedgerUseCase{
		repo:      repo,
		txRunner:  txRunner,
		processor: processor,
		bus:       bus,
		clock:     clock,
		log:       log,
	}
}

// ListEntries devuelve el libro completo en orden de inserción.
func (uc *LedgerUseCase) ListEntries(ctx context.Context) ([]*entity.LedgerEntry, error) {
	entries, err := uc.repo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return entries, nil
}

// SetQuantity fija el conteo de una entrada existente.
// Retorna domain.ErrInvalidInput (código vacío o cantidad negativa) o domain.ErrNotFound.
func (uc *LedgerUseCase) SetQuantity(ctx context.Context, rawBarcode string, quantity int) (*entity.LedgerEntry, error) {
	barcode := scan.Normalize(rawBarcode)
	if barcode == "" || quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.clock()

	var result *entity.LedgerEntry
	err := uc.processor.withBarcodeLock(barcode, func() error {
		err := uc.txRunner.Run(ctx, func(repo repository.LedgerRepository) error {
			entry, err := repo.GetForUpdate(ctx, barcode)
			if err != nil {
				return err
			}
			if entry == nil {
				return domain.ErrNotFound
			}
			entry.TotalCount = quantity
			entry.LastUpdated = now
			if err := repo.Upsert(ctx, entry); err != nil {
				return err
			}
			result = entry.Clone()
			return nil
		})
		if err != nil {
			return err
		}
		// Dentro del bloqueo para conservar el orden de eventos por código.
		uc.bus.Publish(event.EntryUpdated(result, now))
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	uc.log.Info().Str("barcode", barcode).Int("quantity", quantity).Msg("cantidad corregida manualmente")
	return result, nil
}

// ClearLedger borra todas las entradas en una sola transacción. Sin confirmación no muta nada.
func (uc *LedgerUseCase) ClearLedger(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}
	var deleted int
	// Con todas las franjas tomadas ningún inventory_update de un escaneo previo al
	// borrado puede llegar después de database_cleared.
	err := uc.processor.withAllLocks(func() error {
		err := uc.txRunner.Run(ctx, func(repo repository.LedgerRepository) error {
			n, err := repo.DeleteAll(ctx)
			if err != nil {
				return err
			}
			deleted = n
			return nil
		})
		if err != nil {
			return err
		}
		uc.bus.Publish(event.LedgerCleared(deleted, uc.clock()))
		return nil
	})
	if err != nil {
		return 0, storageError(err)
	}
	uc.log.Warn().Int("deleted_count", deleted).Msg("libro de inventario borrado")
	return deleted, nil
}
