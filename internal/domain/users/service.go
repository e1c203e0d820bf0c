package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/internlog/server/internal/audit"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/sanitize"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
	"github.com/rs/zerolog"
)

// Error types for user domain operations
var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenIssuer signs bearer tokens for an identity.
type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
	Burn(password string)
}

// Service handles registration, login and account listing
type Service struct {
	repo        Repository
	hasher      PasswordHasher
	tokens      TokenIssuer
	validator   *validation.Validator
	auditLogger *audit.Logger
	logger      zerolog.Logger
}

// NewService creates a new user service instance
func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer, auditLogger *audit.Logger, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		validator:   validation.New(),
		auditLogger: auditLogger,
		logger:      logger.With().Str("component", "users").Logger(),
	}
}

// Register creates an account and returns it with a token bound to the new identity.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	params.Email = strings.TrimSpace(params.Email)
	params.Role = strings.ToLower(strings.TrimSpace(params.Role))
	params.Name = sanitize.Text(params.Name)

	if err := s.validator.Struct(params); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, NewUser{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         auth.Role(params.Role),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrEmailTaken
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.auditLogger.LogSuccess(ctx, "user.registered", user.Identity(), "user", user.ID, map[string]string{
		"role": user.Role.String(),
	})

	return &AuthResult{User: *user, Token: token}, nil
}

// Login verifies credentials. An unknown email and a wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.hasher.Burn(password)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Verify(creds.PasswordHash, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(creds.User.Identity())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &AuthResult{User: creds.User, Token: token}, nil
}

// List returns every account without password hashes. Admin only.
func (s *Service) List(ctx context.Context, caller auth.Identity) ([]User, error) {
	if err := auth.Authorize(caller, auth.ActionListUsers); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionListUsers), caller.Role.String()).Inc()
		return nil, err
	}

	items, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if items == nil {
		items = []User{}
	}
	return items, nil
}

// EnsureAdmin creates an admin account unless the email is already registered.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.Register(ctx, RegisterParams{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     string(auth.RoleAdmin),
	})
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Info().Msg("bootstrapped admin user")
	return true, nil
}
