package ledger

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, con el repositorio atado a esa tx.
// Si fn devuelve error (o falla el commit) no queda ningún cambio visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.LedgerRepository) error) error
}

// Broadcaster difunde eventos a los observadores. Publish no debe bloquear.
type Broadcaster interface {
	Publish(evt event.Event)
}

// SnapshotWriter serializa el libro completo (XLSX, PDF).
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, w io.Writer, entries []*entity.LedgerEntry, generatedAt time.Time) error
}

// Clock devuelve la hora actual; inyectable para tests.
type Clock func() time.Time

// NopBroadcaster descarta los eventos.
type NopBroadcaster struct{}

// Publish no hace nada.
func (NopBroadcaster) Publish(event.Event) {}
