package dto

import (
	"math"
	"time"

	"github.com/jhoicas/Inventario-scanner/internal/domain/entity"
	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
)

// EntryDTO entrada del libro tal como la ve el frontend.
type EntryDTO = event.EntryPayload

// ToEntryDTO convierte una entrada de dominio.
func ToEntryDTO(e *entity.LedgerEntry) EntryDTO {
	return event.NewEntryPayload(e)
}

// ToEntryDTOs convierte una lista conservando el orden.
func ToEntryDTOs(entries []*entity.LedgerEntry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryDTO(e))
	}
	return out
}

// ScanRequest lectura del lector de códigos. Operation es opcional (ADD/REMOVE).
type ScanRequest struct {
	Barcode   string `json:"barcode" form:"barcode"`
	Operation string `json:"operation,omitempty" form:"operation"`
}

// ScanResponse resultado de una lectura: cambio de modo o entrada actualizada.
type ScanResponse struct {
	Success          bool      `json:"success"`
	OperationChanged bool      `json:"operation_changed,omitempty"`
	NewOperation     string    `json:"new_operation,omitempty"`
	Message          string    `json:"message,omitempty"`
	Item             *EntryDTO `json:"item,omitempty"`
	Operation        string    `json:"operation,omitempty"`
}

// StatusResponse estado del modo de operación.
type StatusResponse struct {
	LastOperationTime *time.Time `json:"last_operation_time"`
	TimeRemaining     float64    `json:"time_remaining"`
	RequiresOperation bool       `json:"requires_operation"`
}

// ToStatusResponse redondea time_remaining a décimas de segundo.
func ToStatusResponse(st scan.Status) StatusResponse {
	return StatusResponse{
		LastOperationTime: st.LastOperationTime,
		TimeRemaining:     math.Round(st.TimeRemaining.Seconds()*10) / 10,
		RequiresOperation: st.RequiresOperation,
	}
}

// SetQuantityRequest corrección manual. Quantity es puntero para detectar ausencia.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// ClearRequest confirmación del borrado total.
type ClearRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ClearResponse resultado del borrado total.
type ClearResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}
