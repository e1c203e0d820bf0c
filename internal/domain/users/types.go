package users

import (
	"time"

	"github.com/internlog/server/internal/auth"
)

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity returns the token identity for the user.
func (u User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Credentials is a user together with its stored password hash.
type Credentials struct {
	User
	PasswordHash string
}

// NewUser holds the columns written when an account is created.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         auth.Role
}

// RegisterParams is the registration request.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role" validate:"required,oneof=student industry faculty admin"`
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
