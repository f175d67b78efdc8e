package transaction

import (
	"context"
	"errors"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/query"
	"flashauction/packages/infrastructure/DB/postgres/executor"

	"github.com/jackc/pgx/v5"
)

var txLogger = logger.NewSource("DB TRANSACTION", logger.Default)

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Transaction struct {
	queries []*query.Query
}

func New(queries ...*query.Query) *Transaction {
	return &Transaction{queries}
}

// Executes all queries of the transaction in the order they were given.
func (t *Transaction) Exec(ctx context.Context, db Beginner, exec *executor.Executor) error {
	if len(t.queries) == 0 {
		txLogger.Warning("Transaction has no queries, execution will be skipped", nil)
		return nil
	}

	for _, q := range t.queries {
		if q == nil {
			txLogger.Panic("Failed to run transaction", "At least one query is nil", nil)
		}
	}

	return Run(ctx, db, exec, func(tx *executor.Executor) error {
		for _, q := range t.queries {
			if _, err := tx.Exec(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// Calls fn with executor bound to a new transaction.
// Transaction is committed if fn returns nil, otherwise it's rolled back
// and error of fn is returned as is.
func Run(ctx context.Context, db Beginner, exec *executor.Executor, fn func(tx *executor.Executor) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		txLogger.Error("Failed to begin transaction", err.Error(), nil)
		return executor.ConvertError(err)
	}

	defer func() {
		// Context may be already done, but rollback must be attempted anyway
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			txLogger.Error("Rollback failed (non-critical)", err.Error(), nil)
		}
	}()

	if err := fn(exec.With(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		txLogger.Error("Failed to commit transaction", err.Error(), nil)
		return executor.ConvertError(err)
	}

	return nil
}
