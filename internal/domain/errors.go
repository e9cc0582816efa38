package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrReferencedEntityMissing = errors.New("entidad referenciada no encontrada")

	// ErrAuditViolation se devuelve ante cualquier intento de borrar un movimiento
	// fuera de la retracción por borrado de producción. No es reintentable.
	ErrAuditViolation = errors.New("los movimientos de inventario no pueden eliminarse")

	// ErrConsistency indica que un registro de producción quedaría con cero o más de
	// un movimiento de entrada propio. Error de programación: aborta la transacción.
	ErrConsistency = errors.New("inconsistencia en los movimientos de la producción")
)
