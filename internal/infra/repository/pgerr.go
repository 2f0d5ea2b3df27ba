package repository

import (
	"errors"

	"gearbook/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

// kindFromPgErr classifies constraint violations so usecases can branch on
// infra.IsKind without seeing pgconn.
func kindFromPgErr(err error) (infra.RepositoryErrorKind, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return infra.KindDuplicateKey, true
	case pgErrCodeExclusionViolation:
		return infra.KindConflict, true
	case pgErrCodeForeignKeyViolated:
		return infra.KindForeignKeyViolated, true
	default:
		return "", false
	}
}
