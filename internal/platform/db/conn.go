package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type contextKey string

// ConnKey carries a request- or transaction-scoped connection.
const ConnKey contextKey = "db_conn"

// Queryable is the common surface of *pgxpool.Pool, *pgxpool.Conn and pgx.Tx
// that repositories issue queries against.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WithConn returns a context carrying the given connection. Repositories
// prefer it over their pool, so a caller can scope several repository calls
// to one transaction.
func WithConn(ctx context.Context, q Queryable) context.Context {
	return context.WithValue(ctx, ConnKey, q)
}

// ConnFromContext retrieves the scoped connection from the context, or nil.
func ConnFromContext(ctx context.Context) Queryable {
	q, _ := ctx.Value(ConnKey).(Queryable)
	return q
}
