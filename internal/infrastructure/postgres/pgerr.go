package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los repositorios traducen a errores de dominio.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgErrorCode(err) == sqlStateUniqueViolation }

// isCheckViolation detecta, por ejemplo, un stock inicial negativo rechazado por products_stock_check.
func isCheckViolation(err error) bool { return pgErrorCode(err) == sqlStateCheckViolation }
