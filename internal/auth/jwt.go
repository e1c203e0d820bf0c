package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenExpiry is how long an issued token stays valid.
const DefaultTokenExpiry = 7 * 24 * time.Hour

// InsecureDefaultSecret signs tokens when JWT_SECRET is not configured.
// It is only acceptable outside production.
const InsecureDefaultSecret = "dev_secret_change_in_prod"

type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the verified caller carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

type JWTManager struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

func NewJWTManager(secret string, expiry time.Duration, issuer string) *JWTManager {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &JWTManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for the identity that expires after the configured window.
func (m *JWTManager) Issue(identity Identity) (string, error) {
	if identity.ID <= 0 || identity.Email == "" || !identity.Role.Valid() {
		return "", ErrInvalidToken
	}

	now := m.now()
	claims := &Claims{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm, issuer and expiry and returns the embedded claims.
// Every failure wraps ErrInvalidToken; the wrapped text is for logs only.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case claims.ID <= 0 || !claims.Role.Valid():
		return nil, fmt.Errorf("%w: unknown subject or role", ErrInvalidToken)
	}
	return claims, nil
}

func TokenFromHeader(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
