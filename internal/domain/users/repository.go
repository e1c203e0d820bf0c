package users

import "context"

// Repository is the credential store.
type Repository interface {
	// CreateUser inserts the account atomically. A taken email yields storage.ErrConflict.
	CreateUser(ctx context.Context, params NewUser) (*User, error)
	// GetCredentialsByEmail yields storage.ErrNotFound when no account has the email.
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	ListUsers(ctx context.Context) ([]User, error)
}
