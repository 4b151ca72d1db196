// Package postgres keeps delivered orders in PostgreSQL through pgx, so a
// rerun of the analysis can skip the order-detail endpoint.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocery-report/internal/storage"
)

// Pool is the pgx pool backing the order archive.
type Pool struct {
	*pgxpool.Pool
}

// PoolOption tunes the settings parsed from the DSN.
type PoolOption func(*pgxpool.Config)

// WithMaxConns caps pooled connections. Non-positive values keep the pgx default.
func WithMaxConns(n int32) PoolOption {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = n
		}
	}
}

// NewPool opens the archive pool and fails fast when the database is unreachable.
func NewPool(ctx context.Context, dsn string, opts ...PoolOption) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("archive dsn: %w", err)
	}
	for _, apply := range opts {
		apply(cfg)
	}

	inner, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open archive pool: %w", err)
	}
	if err := inner.Ping(ctx); err != nil {
		inner.Close()
		return nil, fmt.Errorf("reach archive database at %s:%d: %w", cfg.ConnConfig.Host, cfg.ConnConfig.Port, err)
	}
	return &Pool{Pool: inner}, nil
}

// uniqueViolation is the SQLSTATE raised when an order id is archived twice.
const uniqueViolation = "23505"

// storageErr maps driver errors onto the storage sentinels and labels any
// other failure with the step that produced it.
func storageErr(step string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return storage.ErrNotFound
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return storage.ErrDuplicateKey
	default:
		return fmt.Errorf("%s: %w", step, err)
	}
}
