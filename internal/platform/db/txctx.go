package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBConnKey carries a request-scoped connection through the context.
const DBConnKey contextKey = "db_conn"

// WithConn returns a context carrying the given connection. Repositories
// prefer this connection over the shared pool, which lets a caller pin a
// sequence of queries to one session.
func WithConn(ctx context.Context, conn *pgxpool.Conn) context.Context {
	return context.WithValue(ctx, DBConnKey, conn)
}

// ConnFromContext retrieves the request-scoped connection, or nil when the
// caller did not pin one.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}
