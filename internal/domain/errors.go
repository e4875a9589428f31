package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrNotApproved   = fmt.Errorf("%w: la cuenta aún no está aprobada", ErrUnauthorized)
	ErrUsernameTaken = fmt.Errorf("%w: el nombre de usuario ya existe", ErrConflict)
	ErrInvalidStatus = fmt.Errorf("%w: estado inválido", ErrInvalidInput)
	ErrInvalidRole   = fmt.Errorf("%w: rol inválido", ErrInvalidInput)

	// ErrAdminImmutable: el estado de una cuenta admin no se modifica desde la API de administración.
	ErrAdminImmutable = fmt.Errorf("%w: no se pueden modificar usuarios administradores", ErrForbidden)
)

// NotApprovedError indica que la cuenta existe y las credenciales son correctas,
// pero su estado no permite iniciar sesión. Conserva el estado para que el cliente
// pueda distinguir pending de rejected/revoked si lo necesita.
type NotApprovedError struct {
	Status string
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("la cuenta no está aprobada (estado: %s)", e.Status)
}

// Unwrap permite errors.Is(err, ErrNotApproved) y errors.Is(err, ErrUnauthorized).
func (e *NotApprovedError) Unwrap() error { return ErrNotApproved }
