package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository hands out the PostgreSQL-backed repositories of each domain.
type Repository struct {
	pool *pgxpool.Pool

	users        *UserRepository
	internships  *InternshipRepository
	applications *ApplicationRepository
	logbooks     *LogbookRepository
}

// NewRepository creates a new PostgreSQL-backed repository
func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool cannot be nil")
	}
	return &Repository{
		pool:         pool,
		users:        &UserRepository{db: pool},
		internships:  &InternshipRepository{db: pool},
		applications: &ApplicationRepository{db: pool},
		logbooks:     &LogbookRepository{db: pool},
	}, nil
}

func (r *Repository) Users() *UserRepository               { return r.users }
func (r *Repository) Internships() *InternshipRepository   { return r.internships }
func (r *Repository) Applications() *ApplicationRepository { return r.applications }
func (r *Repository) Logbooks() *LogbookRepository         { return r.logbooks }

// Ping reports whether the database answers. Used by the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// MigrationState reads the version and dirty flag golang-migrate keeps in schema_migrations.
func (r *Repository) MigrationState(ctx context.Context) (version int64, dirty bool, err error) {
	err = r.pool.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if err != nil {
		return 0, false, mapError("migration state", err)
	}
	return version, dirty, nil
}

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
