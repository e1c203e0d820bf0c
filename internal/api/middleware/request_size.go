package middleware

import (
	"net/http"
)

// DefaultMaxBodySize caps JSON request bodies at 1MB.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize limits the size of incoming request bodies. Reading past the limit fails
// and the JSON decoder reports it as a malformed body.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
