package repository

import (
	"context"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del libro de conteos (DIP).
// Las implementaciones se usan tanto con el pool como dentro de una transacción.
type LedgerRepository interface {
	// GetForUpdate obtiene la entrada y bloquea la fila hasta el fin de la transacción.
	// Devuelve (nil, nil) si el código no existe.
	GetForUpdate(ctx context.Context, barcode string) (*entity.LedgerEntry, error)
	Get(ctx context.Context, barcode string) (*entity.LedgerEntry, error)
	// Upsert inserta o actualiza la entrada por código de barras.
	Upsert(ctx context.Context, entry *entity.LedgerEntry) error
	// InsertIfAbsent inserta solo si el código no existe; devuelve true si insertó.
	InsertIfAbsent(ctx context.Context, entry *entity.LedgerEntry) (bool, error)
	// List devuelve todas las entradas en orden de inserción.
	List(ctx context.Context) ([]*entity.LedgerEntry, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}
