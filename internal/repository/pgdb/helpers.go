package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	return "", ""
}

// postgresDuplicate сообщает о нарушении уникального ограничения.
func postgresDuplicate(err error) bool {
	code, _ := pgErrorCode(err)
	return code == uniqueViolation
}

func postgresForeignKey(err error) bool {
	code, _ := pgErrorCode(err)
	return code == foreignKeyViolation
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
