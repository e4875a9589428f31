package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUUID evita enviar a PostgreSQL ids que no puede convertir a UUID (error 22P02);
// un id mal formado simplemente no existe.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
