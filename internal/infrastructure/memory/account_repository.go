// Package memory implementa el almacén de cuentas en memoria del proceso.
// Se usa con STORE_DRIVER=memory (desarrollo, demos) y como doble en los tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/smartsignal-api/internal/domain"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre un mapa protegido por mutex.
// Devuelve siempre copias para que los llamadores no muten el estado interno.
type AccountRepo struct {
	mu         sync.RWMutex
	byID       map[string]*entity.Account
	byUsername map[string]string
	now        func() time.Time
}

// NewAccountRepository construye el repositorio vacío.
func NewAccountRepository() *AccountRepo {
	return &AccountRepo{
		byID:       make(map[string]*entity.Account),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

// Create persiste una cuenta nueva. ErrUsernameTaken si el username ya existe.
func (r *AccountRepo) Create(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[account.Username]; ok {
		return domain.ErrUsernameTaken
	}
	if _, ok := r.byID[account.ID]; ok {
		return domain.ErrConflict
	}
	cp := *account
	r.byID[cp.ID] = &cp
	r.byUsername[cp.Username] = cp.ID
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// GetByUsername obtiene una cuenta por username (comparación exacta).
func (r *AccountRepo) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

// UpdateStatus cambia solo el estado (y updated_at). Última escritura gana.
func (r *AccountRepo) UpdateStatus(_ context.Context, id string, status entity.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.now()
	return nil
}

// List devuelve las cuentas que cumplen el filtro ordenadas por created_at DESC.
func (r *AccountRepo) List(_ context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	r.mu.RLock()
	list := make([]*entity.Account, 0, len(r.byID))
	for _, a := range r.byID {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		cp := *a
		list = append(list, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return []*entity.Account{}, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

// CountByStatus cuenta las cuentas del rol indicado agrupadas por estado.
func (r *AccountRepo) CountByStatus(_ context.Context, role entity.Role) (map[entity.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.Status]int, len(entity.Statuses))
	for _, a := range r.byID {
		if a.Role == role {
			counts[a.Status]++
		}
	}
	return counts, nil
}

// ExistsAdmin informa si hay al menos una cuenta admin.
func (r *AccountRepo) ExistsAdmin(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Role == entity.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}
