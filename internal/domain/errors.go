package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidKind       = errors.New("tipo de movimiento inválido")
	ErrInvalidSortKey    = errors.New("clave de ordenamiento inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorageBusy       = errors.New("almacenamiento ocupado, reintente")
	ErrMigrationFailed   = errors.New("migración de esquema fallida")
)
