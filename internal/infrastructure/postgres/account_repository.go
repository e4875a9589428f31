package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/smartsignal-api/internal/domain"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, username, password_hash, role, status, created_at, updated_at`

// DBTX subconjunto de pgx que usa el repositorio (*pgxpool.Pool, pgx.Tx).
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	db DBTX
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create persiste una nueva cuenta.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Username, a.PasswordHash, string(a.Role), string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByUsername obtiene una cuenta por username (comparación exacta).
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return a, nil
}

// UpdateStatus actualiza solo status/updated_at.
func (r *AccountRepo) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista cuentas filtradas por rol/estado, más recientes primero.
func (r *AccountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	var (
		where []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountByStatus cuenta cuentas de un rol agrupadas por estado.
func (r *AccountRepo) CountByStatus(ctx context.Context, role entity.Role) (map[entity.Status]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM accounts WHERE role = $1 GROUP BY status`, string(role))
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.Status]int, len(entity.Statuses))
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		st, err := entity.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("count accounts: estado almacenado desconocido %q", status)
		}
		counts[st] = int(n)
	}
	return counts, rows.Err()
}

// ExistsAdmin informa si existe al menos una cuenta admin.
func (r *AccountRepo) ExistsAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE role = $1)`, string(entity.RoleAdmin)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists admin: %w", err)
	}
	return exists, nil
}

// scanAccount lee una fila y valida role/status contra los enums del dominio.
func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		a            entity.Account
		role, status string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	// Un valor fuera del enum es una inconsistencia del almacén: no encadena domain.ErrInvalidInput.
	var err error
	if a.Role, err = entity.ParseRole(role); err != nil {
		return nil, fmt.Errorf("scan account %s: rol almacenado desconocido", a.ID)
	}
	if a.Status, err = entity.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("scan account %s: estado almacenado desconocido", a.ID)
	}
	return &a, nil
}
