package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/internlog/server/internal/api/problem"
	"github.com/rs/zerolog"
)

// Recover turns a panic in a handler into a 500 problem response.
func Recover(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				zerolog.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				problem.Write(w, r, http.StatusInternalServerError, problem.CodeInternal, "Internal server error", fmt.Errorf("panic: %v", rec), env)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
