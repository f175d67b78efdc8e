package executor

import (
	"context"
	"flashauction/packages/common/config"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/query"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var executorLogger = logger.NewSource("EXECUTOR", logger.Default)

// Implemented by both *pgxpool.Pool and pgx.Tx
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Runs queries with per-query timeout taken from the current config.
type Executor struct {
	querier Querier
	cfg     *config.Manager
}

func New(querier Querier, cfg *config.Manager) *Executor {
	if querier == nil {
		executorLogger.Panic(
			"Failed to create DB executor",
			"Querier can't be nil",
			nil,
		)
	}
	return &Executor{querier, cfg}
}

// Same executor, but bound to another querier (e.g. to transaction).
func (e *Executor) With(querier Querier) *Executor {
	return New(querier, e.cfg)
}

func formatArgs(args []any) string {
	s := make([]string, len(args))

	for i, arg := range args {
		switch a := arg.(type) {
		case nil:
			s[i] = "NULL"
		case string:
			s[i] = a
		case []string:
			s[i] = strings.Join(a, ", ")
		case time.Time:
			s[i] = a.String()
		default:
			s[i] = fmt.Sprint(a)
		}
	}

	return strings.Join(s, "; ")
}

func (e *Executor) prepare(ctx context.Context, q *query.Query) (context.Context, context.CancelFunc) {
	cfg := e.cfg.Current()

	if cfg.Debug().Enabled && cfg.Debug().LogDbQueries {
		executorLogger.Debug("Running query:\n"+q.SQL+"\n * Query args: "+formatArgs(q.Args), nil)
	}

	return context.WithTimeout(ctx, cfg.DB().QueryTimeout())
}

// Scans a single row into the given destinations.
// All dests must be pointers.
// By default, dests validation is disabled,
// to enable this add "debug-safe-db-scans: true" to the config.
// (works only if app launched in debug mode)
//
// Returns *Error.Store with NotFound set if there are no rows.
func (e *Executor) Row(ctx context.Context, q *query.Query, dests ...any) error {
	ctx, cancel := e.prepare(ctx, q)
	defer cancel()

	if debug := e.cfg.Current().Debug(); debug.Enabled && debug.SafeDatabaseScans {
		for _, dest := range dests {
			typeof := reflect.TypeOf(dest)

			if typeof == nil || typeof.Kind() != reflect.Ptr {
				executorLogger.Panic(
					"Query scan failed",
					fmt.Sprintf("Destination for scanning must be a pointer, but got '%v'", typeof),
					nil,
				)
			}
		}
	}

	if err := e.querier.QueryRow(ctx, q.SQL, q.Args...).Scan(dests...); err != nil {
		return ConvertError(err)
	}

	return nil
}

// Returns number of affected rows.
func (e *Executor) Exec(ctx context.Context, q *query.Query) (int64, error) {
	ctx, cancel := e.prepare(ctx, q)
	defer cancel()

	tag, err := e.querier.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, ConvertError(err)
	}

	return tag.RowsAffected(), nil
}

// Runs query and scans all rows using collect.
// Empty result is not an error.
func Collect[T any](ctx context.Context, e *Executor, q *query.Query, collect pgx.RowToFunc[T]) ([]T, error) {
	ctx, cancel := e.prepare(ctx, q)
	defer cancel()

	rows, err := e.querier.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, ConvertError(err)
	}

	result, err := pgx.CollectRows(rows, collect)
	if err != nil {
		executorLogger.Error("Failed to collect rows", err.Error(), nil)
		return nil, ConvertError(err)
	}

	return result, nil
}

// Same as Collect, but returns *Error.Store with NotFound set
// if query returned no rows and error if it returned more than one.
func CollectOne[T any](ctx context.Context, e *Executor, q *query.Query, collect pgx.RowToFunc[T]) (T, error) {
	ctx, cancel := e.prepare(ctx, q)
	defer cancel()

	var zero T

	rows, err := e.querier.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return zero, ConvertError(err)
	}

	result, err := pgx.CollectExactlyOneRow(rows, collect)
	if err != nil {
		return zero, ConvertError(err)
	}

	return result, nil
}
