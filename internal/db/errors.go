package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRequestNotFound  = errors.New("feature request not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrOpenReqNotFound  = errors.New("open request not found")
	ErrDuplicateOpenReq = errors.New("request already open for client")
	ErrDuplicateID      = errors.New("id already in use")
)

// pg error codes used below.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgErrCode returns the Postgres error code, or "" for non-pg errors.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
