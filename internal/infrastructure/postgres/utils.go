package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isBusy verifica si un error es un timeout de lock o cancelación por
// statement_timeout (55P03 lock_not_available, 57014 query_canceled).
// Son fallas reintentables: el caller las recibe como ErrStorageBusy.
func isBusy(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03" || pgErr.Code == "57014"
	}
	return false
}

// mapBusy traduce timeouts de lock a ErrStorageBusy; el resto pasa sin tocar.
func mapBusy(err error) error {
	if err == nil {
		return nil
	}
	if isBusy(err) {
		return domain.ErrStorageBusy
	}
	return err
}
