package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/internlog/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes surfaced as storage sentinels.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PoolOptions sizes the connection pool. Zero values keep the pgx defaults.
type PoolOptions struct {
	MaxConnections int
	MinConnections int
}

// Open creates a pool and verifies the database is reachable.
func Open(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConnections > 0 {
		cfg.MaxConns = int32(opts.MaxConnections)
	}
	if opts.MinConnections > 0 {
		cfg.MinConns = int32(opts.MinConnections)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// mapError translates pgx failures into storage sentinels and wraps everything else.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, storage.ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, storage.ErrForeignKey, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
