package repository

import (
	"context"

	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
)

// AccountFilter criterios de listado. Los campos vacíos no filtran; Limit <= 0 no pagina.
type AccountFilter struct {
	Role   entity.Role
	Status entity.Status
	Limit  int
	Offset int
}

// AccountRepository define el puerto de persistencia para Account (DIP).
// GetByID y GetByUsername devuelven (nil, nil) cuando la cuenta no existe.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	// UpdateStatus modifica solo el estado; ErrNotFound si el id no existe.
	UpdateStatus(ctx context.Context, id string, status entity.Status) error
	List(ctx context.Context, filter AccountFilter) ([]*entity.Account, error)
	CountByStatus(ctx context.Context, role entity.Role) (map[entity.Status]int, error)
	ExistsAdmin(ctx context.Context) (bool, error)
}
