// Package event define los eventos que se difunden a los visores conectados.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
)

// Tipos de evento. Los nombres coinciden con los que consume el frontend.
const (
	TypeEntryUpdated     = "inventory_update"
	TypeOperationChanged = "operation_changed"
	TypeLedgerCleared    = "database_cleared"
)

// TimestampLayout formato de fecha de las entradas (igual que el export).
const TimestampLayout = "2006-01-02 15:04:05"

// Event mensaje difundido. Key agrupa eventos que deben conservar orden (el código de barras).
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// EntryPayload representación JSON de una entrada.
type EntryPayload struct {
	Barcode     string  `json:"barcode"`
	TotalCount  int     `json:"total_count"`
	LastUpdated string  `json:"last_updated"`
	Description *string `json:"description"`
}

// OperationPayload cambio de modo.
type OperationPayload struct {
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// ClearedPayload borrado total.
type ClearedPayload struct {
	DeletedCount int `json:"deleted_count"`
}

// NewEntryPayload convierte una entrada al formato difundido.
func NewEntryPayload(e *entity.LedgerEntry) EntryPayload {
	return EntryPayload{
		Barcode:     e.Barcode,
		TotalCount:  e.TotalCount,
		LastUpdated: e.LastUpdated.Format(TimestampLayout),
		Description: e.Description,
	}
}

// EntryUpdated evento tras una mutación confirmada.
func EntryUpdated(e *entity.LedgerEntry, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: TypeEntryUpdated, Key: e.Barcode, OccurredAt: at, Data: NewEntryPayload(e)}
}

// OperationChanged evento de cambio de modo.
func OperationChanged(op entity.Operation, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeOperationChanged,
		OccurredAt: at,
		Data:       OperationPayload{Operation: string(op), Timestamp: at},
	}
}

// LedgerCleared evento de borrado total.
func LedgerCleared(deleted int, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: TypeLedgerCleared, OccurredAt: at, Data: ClearedPayload{DeletedCount: deleted}}
}
