package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/internlog/server/internal/auth"
	"github.com/rs/zerolog"
)

// statusRecorder remembers the status and body size a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// requestInfo is filled in by route-level middleware inside the mux and read by
// RequestLogging after the handler returns.
type requestInfo struct {
	route  string
	caller *auth.Identity
}

type requestInfoKey struct{}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// RequestLogging writes one access line per request through the request-scoped logger,
// including the matched route and the authenticated caller when there is one.
func RequestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

			logger := zerolog.Ctx(r.Context())
			event := logger.Info()
			if rec.status >= 500 {
				event = logger.Error()
			}
			event = event.Str("method", r.Method).Str("path", r.URL.Path)
			if info.route != "" {
				event = event.Str("route", info.route)
			}
			if info.caller != nil {
				event = event.Int64("user_id", info.caller.ID).Str("role", info.caller.Role.String())
			}
			event.
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
