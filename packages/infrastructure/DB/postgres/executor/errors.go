package executor

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Converts driver error into *Error.Store.
// Context errors are returned as is, so callers can tell cancellation apart.
func ConvertError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Error.NewStoreNotFound("no rows in result set")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		message := pgErr.Message
		if pgErr.Detail != "" {
			message += " (" + pgErr.Detail + ")"
		}
		return Error.NewStoreError(pgErr.Code, message)
	}

	return Error.NewStoreError("", err.Error())
}
