// Package lifecycle gobierna el estado de las cuentas con rol user.
//
// La transición es una asignación directa: desde cualquier estado un administrador
// puede fijar approved, rejected o revoked. pending solo se alcanza al registrarse.
// Las cuentas admin quedan fuera del ciclo de vida y siempre se consideran aprobadas.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/smartsignal-api/internal/domain"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
)

// TransitionObserver recibe cada cambio de estado persistido (métricas).
type TransitionObserver interface {
	StatusChanged(from, to entity.Status)
}

type noopObserver struct{}

func (noopObserver) StatusChanged(entity.Status, entity.Status) {}

// Engine aplica los cambios de estado iniciados por un administrador.
type Engine struct {
	repo     repository.AccountRepository
	observer TransitionObserver
	log      zerolog.Logger
}

// NewEngine construye el motor. observer puede ser nil.
func NewEngine(repo repository.AccountRepository, observer TransitionObserver, log zerolog.Logger) *Engine {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Engine{repo: repo, observer: observer, log: log}
}

// SetStatus asigna target a la cuenta accountID y devuelve la cuenta actualizada.
//
// Retorna:
//   - domain.ErrInvalidStatus  si target no es approved, rejected ni revoked.
//   - domain.ErrNotFound       si la cuenta no existe.
//   - domain.ErrAdminImmutable si la cuenta tiene rol admin.
func (e *Engine) SetStatus(ctx context.Context, accountID string, target entity.Status) (*entity.Account, error) {
	if !target.AdminSettable() {
		return nil, fmt.Errorf("%w: %q no es asignable por un administrador", domain.ErrInvalidStatus, target)
	}

	account, err := e.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: obtener cuenta: %w", err)
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if account.IsAdmin() {
		return nil, domain.ErrAdminImmutable
	}

	from := account.Status
	if err := e.repo.UpdateStatus(ctx, accountID, target); err != nil {
		return nil, fmt.Errorf("lifecycle: actualizar estado: %w", err)
	}
	account.Status = target

	e.observer.StatusChanged(from, target)
	e.log.Info().
		Str("account_id", account.ID).
		Str("username", account.Username).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("estado de cuenta actualizado")

	return account, nil
}

// CanLogin decide si la cuenta puede autenticarse: admins siempre, users solo en approved.
// El rechazo es un *domain.NotApprovedError que conserva el estado actual.
func CanLogin(account *entity.Account) error {
	if account.IsAdmin() || account.Status == entity.StatusApproved {
		return nil
	}
	return &domain.NotApprovedError{Status: string(account.Status)}
}
