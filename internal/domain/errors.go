package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrEmptyInput           = errors.New("el código de barras es obligatorio")
	ErrInvalidOperation     = errors.New("la operación debe ser ADD o REMOVE")
	ErrOperationTimeout     = errors.New("operación expirada: ingrese ADD o REMOVE primero")
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrConfirmationRequired = errors.New("se requiere confirmación")
	ErrStorage              = errors.New("error de almacenamiento")
	ErrExport               = errors.New("error de exportación")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
)
