package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infinitetechnologys/crm/internal/persistence"
)

// DBTX is the querying surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn resolves the active querier: the transaction carried by ctx when a
// unit of work is open, the pool otherwise.
func conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := persistence.TxFromContext(ctx); ok {
		return tx
	}
	return pool
}
