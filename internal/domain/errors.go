package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Ciclo de vida de entregas.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnknownStatus     = errors.New("estado de entrega desconocido")
	ErrDeliveryLocked    = errors.New("entrega concluida no puede eliminarse")

	// Usuarios.
	ErrSelfDelete     = errors.New("un usuario no puede eliminarse a sí mismo")
	ErrSelfRoleChange = errors.New("un usuario no puede cambiar su propio rol")
)
