package entity

import "time"

// LedgerEntry representa el conteo acumulado de un código de barras.
// Barcode es la clave normalizada (trim + mayúsculas) y no cambia después de creada.
type LedgerEntry struct {
	Barcode     string
	TotalCount  int
	LastUpdated time.Time
	Description *string // nil si el catálogo de descripciones no la conoce
}

// Clone devuelve una copia independiente (la descripción incluida).
func (e *LedgerEntry) Clone() *LedgerEntry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Description != nil {
		d := *e.Description
		c.Description = &d
	}
	return &c
}

// Apply aplica una operación sobre el conteo. REMOVE nunca baja de cero.
func (e *LedgerEntry) Apply(op Operation, now time.Time) {
	switch op {
	case OperationAdd:
		e.TotalCount++
	case OperationRemove:
		if e.TotalCount > 0 {
			e.TotalCount--
		}
	}
	e.LastUpdated = now
}

// BackfillDescription completa la descripción si la entrada aún no tiene una.
// Devuelve true si hubo cambio.
func (e *LedgerEntry) BackfillDescription(desc string, ok bool) bool {
	if e.Description != nil || !ok {
		return false
	}
	e.Description = &desc
	return true
}
