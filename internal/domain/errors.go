package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los servicios los envuelven con fmt.Errorf("%w: ...") y la capa HTTP los
// distingue con errors.Is, nunca por el texto.
var (
	ErrUnauthenticated     = errors.New("identidad no válida o ausente")
	ErrForbidden           = errors.New("acceso denegado")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrDuplicateEmail      = errors.New("el email ya está registrado")
	ErrDuplicateAssignment = errors.New("el vendedor ya tiene una asignación activa en la sede")
	ErrInvalidSalesperson  = errors.New("el vendedor indicado no es válido")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrConflict            = errors.New("conflicto con el estado actual")
)
