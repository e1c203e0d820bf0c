package middleware

import (
	"errors"
	"net/http"

	"github.com/internlog/server/internal/api/problem"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/metrics"
	"github.com/rs/zerolog"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the caller's
// identity in the request context. A missing header and a bad token are distinct 401s.
func Authenticate(verifier TokenVerifier, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			var claims *auth.Claims
			if err == nil {
				claims, err = verifier.Verify(token)
			}
			if err != nil {
				writeAuthError(w, r, err, env)
				return
			}

			identity := claims.Identity()
			ctx := auth.WithIdentity(r.Context(), identity)
			if info := requestInfoFrom(ctx); info != nil {
				info.caller = &identity
			}

			logger := zerolog.Ctx(ctx).With().
				Int64("user_id", identity.ID).
				Str("role", identity.Role.String()).
				Logger()
			ctx = logger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error, env string) {
	code := problem.CodeInvalidToken
	title := "Invalid token"
	if errors.Is(err, auth.ErrMissingToken) {
		code = problem.CodeMissingToken
		title = "Missing token"
	}
	metrics.AuthFailuresTotal.WithLabelValues(code).Inc()
	w.Header().Set("WWW-Authenticate", `Bearer realm="internlog"`)
	problem.Write(w, r, http.StatusUnauthorized, code, title, err, env, problem.WithDetail(title))
}
