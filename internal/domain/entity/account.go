package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/smartsignal-api/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Role capacidad fija de una cuenta. No existe ruta de promoción.
type Role string

// Roles válidos para Account.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole convierte un string en Role; cualquier otro valor es ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
}

// Status estado del ciclo de vida de una cuenta con rol user.
type Status string

// Estados válidos para Account.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRevoked  Status = "revoked"
)

// Statuses lista los cuatro estados en orden de presentación.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusRevoked}

// ParseStatus convierte un string en Status; cualquier otro valor es ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusRevoked:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
}

// AdminSettable informa si un administrador puede asignar este estado.
// pending solo se alcanza al registrarse.
func (s Status) AdminSettable() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusRevoked
}

// Account representa una cuenta de usuario o administrador.
type Account struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt/argon2id, nunca sale de la capa de persistencia
	Role         Role
	Status       Status // solo significativo para RoleUser
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si la cuenta tiene rol admin.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// NormalizeUsername recorta espacios y aplica NFC para que dos nombres visualmente
// idénticos no convivan como cuentas distintas. No cambia mayúsculas/minúsculas.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
