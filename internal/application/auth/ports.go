package auth

// PasswordHasher hash y verificación de contraseñas (pkg/password).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

// TokenIssuer emite tokens de sesión para una cuenta (pkg/jwt).
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

// Resultados de un intento de login reportados al observador.
const (
	OutcomeSuccess     = "success"
	OutcomeBadPassword = "invalid_credentials"
	OutcomeNotApproved = "not_approved"
	OutcomeError       = "error"
)

// Observer recibe los eventos de registro y login (métricas).
type Observer interface {
	LoginAttempt(outcome string)
	Registered()
}

type noopObserver struct{}

func (noopObserver) LoginAttempt(string) {}
func (noopObserver) Registered()         {}
