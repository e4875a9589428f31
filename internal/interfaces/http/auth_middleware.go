package http

import (
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
	"github.com/jhoicas/smartsignal-api/pkg/jwt"
)

// Locals keys para la cuenta autenticada en Fiber.
const (
	LocalUserID  = "user_id"
	LocalAccount = "account"
)

// TokenVerifier valida un token de sesión y devuelve el id de la cuenta (pkg/jwt).
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware valida el Bearer Token, recarga la cuenta y la deja en c.Locals.
// Rol y estado se leen del almacén en cada petición, no del token.
func AuthMiddleware(tokens TokenVerifier, accounts repository.AccountRepository, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}

		accountID, err := tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token expirado"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}

		account, err := accounts.GetByID(c.UserContext(), accountID)
		if err != nil {
			return writeError(c, log, err)
		}
		if account == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "ACCOUNT_NOT_FOUND", Message: "token inválido: la cuenta no existe"})
		}

		c.Locals(LocalUserID, account.ID)
		c.Locals(LocalAccount, account)
		return c.Next()
	}
}

// RequireRole autoriza solo a las cuentas con alguno de los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := GetAccount(c)
		if account == nil || account.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "no hay rol asociado a la sesión"})
		}
		if !slices.Contains(roles, account.Role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado: rol insuficiente"})
		}
		return c.Next()
	}
}

// GetAccount devuelve la cuenta autenticada (después del middleware de auth).
func GetAccount(c *fiber.Ctx) *entity.Account {
	a, _ := c.Locals(LocalAccount).(*entity.Account)
	return a
}

// GetUserID devuelve el id de la cuenta autenticada.
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol de la cuenta autenticada, o "" si no hay sesión.
func GetRole(c *fiber.Ctx) string {
	if a := GetAccount(c); a != nil {
		return string(a.Role)
	}
	return ""
}
