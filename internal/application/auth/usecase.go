package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/application/lifecycle"
	"github.com/jhoicas/smartsignal-api/internal/domain"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
)

const (
	msgRegistered = "Registro exitoso. Pendiente de aprobación del administrador."
	msgLoggedIn   = "Inicio de sesión exitoso"
)

// errBadCredentials no distingue usuario inexistente de contraseña incorrecta.
var errBadCredentials = fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)

// AuthUseCase casos de uso de autenticación: registro, login y admin inicial.
type AuthUseCase struct {
	repo     repository.AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	observer Observer
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. observer puede ser nil.
func NewAuthUseCase(repo repository.AccountRepository, hasher PasswordHasher, tokens TokenIssuer, observer Observer, log zerolog.Logger) *AuthUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &AuthUseCase{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		observer: observer,
		log:      log,
		now:      time.Now,
	}
}

// Register crea una cuenta role=user, status=pending. No devuelve token: la cuenta aún no puede iniciar sesión.
// Devuelve ErrUsernameTaken (ErrConflict) si el nombre ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Username = entity.NormalizeUsername(in.Username)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de contraseña: %w", err)
	}
	now := uc.now().UTC()
	account := &entity.Account{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		Status:       entity.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Create vuelve a comprobar la unicidad: dos registros simultáneos no pasan ambos.
	if err := uc.repo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("auth: crear cuenta: %w", err)
	}

	uc.observer.Registered()
	uc.log.Info().Str("account_id", account.ID).Str("username", account.Username).Msg("cuenta registrada, pendiente de aprobación")

	return &dto.RegisterResponse{
		Message: msgRegistered,
		User:    dto.ToAccountResponse(account),
	}, nil
}

// Login verifica usuario/contraseña y emite un token.
// Retorna ErrUnauthorized si las credenciales no coinciden y *domain.NotApprovedError
// si la cuenta es user y no está aprobada.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Username = entity.NormalizeUsername(in.Username)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	account, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		uc.observer.LoginAttempt(OutcomeError)
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if account == nil {
		uc.observer.LoginAttempt(OutcomeBadPassword)
		return nil, errBadCredentials
	}

	ok, err := uc.hasher.Verify(in.Password, account.PasswordHash)
	if err != nil {
		uc.observer.LoginAttempt(OutcomeError)
		return nil, fmt.Errorf("auth: verificar contraseña: %w", err)
	}
	if !ok {
		uc.observer.LoginAttempt(OutcomeBadPassword)
		return nil, errBadCredentials
	}

	if err := lifecycle.CanLogin(account); err != nil {
		uc.observer.LoginAttempt(OutcomeNotApproved)
		return nil, err
	}

	token, err := uc.tokens.Issue(account.ID)
	if err != nil {
		uc.observer.LoginAttempt(OutcomeError)
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	uc.observer.LoginAttempt(OutcomeSuccess)

	return &dto.LoginResponse{
		Token:   token,
		Role:    string(account.Role),
		Status:  string(account.Status),
		Message: msgLoggedIn,
		User:    dto.ToAccountResponse(account),
	}, nil
}

// Me devuelve la cuenta con el id indicado. ErrNotFound si no existe.
func (uc *AuthUseCase) Me(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToAccountResponse(account)
	return &out, nil
}

// BootstrapAdmin crea el administrador por defecto si no existe ninguno.
// Devuelve true si lo creó; repetir la llamada no tiene efecto.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	exists, err := uc.repo.ExistsAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("auth: comprobar admin: %w", err)
	}
	if exists {
		return false, nil
	}

	username = entity.NormalizeUsername(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: credenciales del admin por defecto vacías", domain.ErrInvalidInput)
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("auth: hash de contraseña: %w", err)
	}
	now := uc.now().UTC()
	admin := &entity.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Status:       entity.StatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("auth: crear admin por defecto %q: %w", username, err)
	}
	uc.log.Warn().Str("username", username).Msg("administrador por defecto creado; cambie la contraseña inicial")
	return true, nil
}
