package ledger

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Inventario-scanner/internal/domain"
)

// storageError envuelve fallos de infraestructura como ErrStorage conservando la causa.
// Los errores de dominio devueltos desde la transacción pasan tal cual.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, d := range []error{domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrStorage} {
		if errors.Is(err, d) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func exportError(err error) error {
	if err == nil || errors.Is(err, domain.ErrExport) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrExport, err)
}
