package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/application/lifecycle"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
)

// errReportsDisabled no se expone como error de dominio: es un fallo de configuración (500).
var errReportsDisabled = errors.New("admin: generador de reportes no configurado")

// AdminUseCase operaciones de administración sobre cuentas con rol user.
type AdminUseCase struct {
	repo   repository.AccountRepository
	engine *lifecycle.Engine
	pdf    RosterPDFGenerator
	now    func() time.Time
}

// NewAdminUseCase construye el caso de uso. pdf puede ser nil si no se exponen reportes.
func NewAdminUseCase(repo repository.AccountRepository, engine *lifecycle.Engine, pdf RosterPDFGenerator) *AdminUseCase {
	return &AdminUseCase{repo: repo, engine: engine, pdf: pdf, now: time.Now}
}

// ListUsers lista las cuentas con rol user, opcionalmente filtradas por estado.
func (uc *AdminUseCase) ListUsers(ctx context.Context, in dto.ListUsersRequest) (*dto.UserListResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()

	filter := repository.AccountFilter{Role: entity.RoleUser, Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		st, err := entity.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}

	accounts, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("admin: listar cuentas: %w", err)
	}
	out := &dto.UserListResponse{Users: make([]dto.AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		out.Users = append(out.Users, dto.ToAccountResponse(a))
	}
	return out, nil
}

// UpdateStatus asigna un estado a la cuenta id.
// ErrInvalidStatus (400), ErrNotFound (404) o ErrAdminImmutable (403), en ese orden.
func (uc *AdminUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateStatusRequest) (*dto.UpdateStatusResponse, error) {
	target, err := entity.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	account, err := uc.engine.SetStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	return &dto.UpdateStatusResponse{
		Message: fmt.Sprintf("Estado del usuario actualizado a %s", target),
		User:    dto.ToAccountResponse(account),
	}, nil
}

// Stats cuenta las cuentas con rol user por estado.
func (uc *AdminUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	counts, err := uc.repo.CountByStatus(ctx, entity.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("admin: contar cuentas: %w", err)
	}
	out := &dto.StatsResponse{
		PendingUsers:  counts[entity.StatusPending],
		ApprovedUsers: counts[entity.StatusApproved],
		RejectedUsers: counts[entity.StatusRejected],
		RevokedUsers:  counts[entity.StatusRevoked],
	}
	out.TotalUsers = out.PendingUsers + out.ApprovedUsers + out.RejectedUsers + out.RevokedUsers
	out.ApprovalRate = approvalRate(out.ApprovedUsers, out.TotalUsers)
	return out, nil
}

// RosterPDF genera el reporte PDF con todas las cuentas user y sus conteos.
func (uc *AdminUseCase) RosterPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errReportsDisabled
	}
	stats, err := uc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := uc.repo.List(ctx, repository.AccountFilter{Role: entity.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("admin: listar cuentas: %w", err)
	}
	return uc.pdf.GenerateRosterPDF(ctx, RosterReport{
		GeneratedAt: uc.now(),
		Stats:       *stats,
		Accounts:    accounts,
	})
}

// approvalRate porcentaje de aprobadas con 2 decimales; 0 si no hay cuentas.
func approvalRate(approved, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(approved)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
