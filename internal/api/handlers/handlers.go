// Package handlers implements the HTTP endpoints of the internlog API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/internlog/server/internal/api/problem"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/applications"
	"github.com/internlog/server/internal/domain/internships"
	"github.com/internlog/server/internal/domain/logbooks"
	"github.com/internlog/server/internal/domain/users"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a JSON object into dst. An empty body decodes as an empty object so
// missing fields are reported by validation rather than as a parse error.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Field(typeErr.Field, "has the wrong type")
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return validation.Field("body", "is too large")
	}
	return validation.Field("body", "must be a valid JSON object")
}

// pathID parses a positive int64 path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// callerFrom returns the identity placed in the context by middleware.Authenticate.
// Routes that call it are always mounted behind that middleware; a missing identity is
// answered like a missing token.
func callerFrom(w http.ResponseWriter, r *http.Request, env string) (auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.CodeMissingToken, "Missing token", auth.ErrMissingToken, env)
		return auth.Identity{}, false
	}
	return identity, true
}

// writeError maps a service error onto a problem response. Unknown errors are reported as a
// storage failure without internals outside development.
func writeError(w http.ResponseWriter, r *http.Request, err error, env string) {
	status, code, title := classifyError(err)
	var opts []problem.Option
	if code == problem.CodeValidation {
		opts = append(opts, problem.WithFieldErrors(validation.Fields(err)))
	}
	if status < http.StatusInternalServerError {
		opts = append(opts, problem.WithDetail(title))
	}
	problem.Write(w, r, status, code, title, err, env, opts...)
}

func classifyError(err error) (status int, code, title string) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, problem.CodeMissingToken, "Missing token"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, problem.CodeInvalidToken, "Invalid token"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, problem.CodeForbidden, "Forbidden"
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest, problem.CodeValidation, "Validation failed"
	case errors.Is(err, users.ErrEmailTaken):
		return http.StatusBadRequest, problem.CodeDuplicateEmail, "Email already registered"
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusBadRequest, problem.CodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, applications.ErrAlreadyApplied):
		return http.StatusConflict, problem.CodeAlreadyApplied, "Already applied"
	case errors.Is(err, internships.ErrNotFound),
		errors.Is(err, applications.ErrInternshipNotFound),
		errors.Is(err, logbooks.ErrInternshipNotFound):
		return http.StatusNotFound, problem.CodeNotFound, "Internship not found"
	case errors.Is(err, logbooks.ErrEntryNotFound):
		return http.StatusNotFound, problem.CodeNotFound, "Logbook entry not found"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, problem.CodeNotFound, "Not found"
	default:
		return http.StatusInternalServerError, problem.CodeStorage, "Storage error"
	}
}
