package postgres

import (
	"context"
	"time"

	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/users"
	"github.com/internlog/server/internal/metrics"
)

type UserRepository struct {
	db queryer
}

// CreateUser relies on the users_email_key constraint, so two concurrent registrations of
// one email cannot both succeed.
func (r *UserRepository) CreateUser(ctx context.Context, params users.NewUser) (_ *users.User, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("insert_user", start, err) }()

	var u users.User
	var role string
	err = r.db.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, name, email, role, created_at
`, params.Name, params.Email, params.PasswordHash, string(params.Role)).Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt)
	if err != nil {
		err = mapError("insert user", err)
		return nil, err
	}
	u.Role = auth.Role(role)
	return &u, nil
}

func (r *UserRepository) GetCredentialsByEmail(ctx context.Context, email string) (_ *users.Credentials, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("select_user_by_email", start, err) }()

	var c users.Credentials
	var role string
	err = r.db.QueryRow(ctx, `
SELECT id, name, email, role, created_at, password_hash
  FROM users
 WHERE email = $1
`, email).Scan(&c.ID, &c.Name, &c.Email, &role, &c.CreatedAt, &c.PasswordHash)
	if err != nil {
		err = mapError("select user by email", err)
		return nil, err
	}
	c.Role = auth.Role(role)
	return &c, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) (_ []users.User, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_users", start, err) }()

	rows, err := r.db.Query(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY id`)
	if err != nil {
		err = mapError("list users", err)
		return nil, err
	}
	defer rows.Close()

	out := []users.User{}
	for rows.Next() {
		var u users.User
		var role string
		if err = rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt); err != nil {
			err = mapError("scan user", err)
			return nil, err
		}
		u.Role = auth.Role(role)
		out = append(out, u)
	}
	if err = rows.Err(); err != nil {
		err = mapError("list users", err)
		return nil, err
	}
	return out, nil
}
