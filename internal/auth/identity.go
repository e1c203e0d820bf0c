package auth

import "context"

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity stored by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
