package dto

import (
	"time"

	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
)

// RegisterRequest entrada para registro: username + password.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse salida de una cuenta (sin password hash).
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterResponse confirmación de registro. No incluye token: la cuenta aún no puede iniciar sesión.
type RegisterResponse struct {
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
}

// LoginResponse token de sesión más rol/estado de la cuenta.
type LoginResponse struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
}

// ToAccountResponse convierte la entidad en su representación pública.
func ToAccountResponse(a *entity.Account) AccountResponse {
	if a == nil {
		return AccountResponse{}
	}
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}
