package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
)

// Processor aplica un par (código, operación) ya validado al libro.
// Bloquea la fila (SELECT FOR UPDATE) dentro de la transacción y además serializa por
// código en el proceso, de modo que el orden de eventos por código es el de commit.
type Processor struct {
	txRunner     TxRunner
	descriptions repository.DescriptionLookup
	bus          Broadcaster
	locks        *keyedMutex
	log          zerolog.Logger
}

// NewProcessor construye el procesador. descriptions y bus pueden ser nil.
func NewProcessor(txRunner TxRunner, descriptions repository.DescriptionLookup, bus Broadcaster, log zerolog.Logger) *Processor {
	if bus == nil {
		bus = NopBroadcaster{}
	}
	return &Processor{
		txRunner:     txRunner,
		descriptions: descriptions,
		bus:          bus,
		locks:        &keyedMutex{},
		log:          log,
	}
}

// Process busca o crea la entrada, completa la descripción si falta, aplica la operación
// y hace Commit; tras el commit difunde la entrada y la devuelve.
func (p *Processor) Process(ctx context.Context, barcode string, op entity.Operation, now time.Time) (*entity.LedgerEntry, error) {
	if barcode == "" {
		return nil, domain.ErrEmptyInput
	}
	if !op.Valid() {
		return nil, domain.ErrInvalidOperation
	}

	unlock := p.locks.Lock(barcode)
	defer unlock()

	var result *entity.LedgerEntry
	err := p.txRunner.Run(ctx, func(repo repository.LedgerRepository) error {
		entry, err := repo.GetForUpdate(ctx, barcode)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &entity.LedgerEntry{Barcode: barcode}
		}
		entry.BackfillDescription(p.lookup(barcode))
		entry.Apply(op, now)
		if err := repo.Upsert(ctx, entry); err != nil {
			return err
		}
		result = entry.Clone()
		return nil
	})
	if err != nil {
		p.log.Error().Err(err).Str("barcode", barcode).Str("operation", string(op)).Msg("procesar escaneo")
		return nil, storageError(err)
	}

	p.bus.Publish(event.EntryUpdated(result, now))
	p.log.Debug().
		Str("barcode", barcode).
		Str("operation", string(op)).
		Int("total_count", result.TotalCount).
		Msg("escaneo aplicado")
	return result, nil
}

// withBarcodeLock ejecuta fn con el código bloqueado (ediciones manuales).
func (p *Processor) withBarcodeLock(barcode string, fn func() error) error {
	unlock := p.locks.Lock(barcode)
	defer unlock()
	return fn()
}

// withAllLocks ejecuta fn con todos los códigos bloqueados (borrado total).
func (p *Processor) withAllLocks(fn func() error) error {
	unlock := p.locks.LockAll()
	defer unlock()
	return fn()
}

func (p *Processor) lookup(barcode string) (string, bool) {
	if p.descriptions == nil {
		return "", false
	}
	return p.descriptions.Lookup(barcode)
}
