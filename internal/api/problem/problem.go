// Package problem writes RFC 7807 problem+json error responses.
package problem

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// TypeBase prefixes every problem type URI.
const TypeBase = "https://internlog.dev/problems/"

// Machine readable error codes carried in the "code" member.
const (
	CodeMissingToken       = "missing_token"
	CodeInvalidToken       = "invalid_token"
	CodeForbidden          = "forbidden"
	CodeValidation         = "validation_error"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAlreadyApplied     = "already_applied"
	CodeNotFound           = "not_found"
	CodeRateLimited        = "rate_limited"
	CodeStorage            = "storage_error"
	CodeInternal           = "internal_error"
)

type ProblemDetails struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Code     string         `json:"code,omitempty"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   map[string]any `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithInstance(instance string) Option {
	return func(p *ProblemDetails) {
		p.Instance = instance
	}
}

// WithFieldErrors attaches per-field validation messages.
func WithFieldErrors(fields map[string]string) Option {
	return func(p *ProblemDetails) {
		if len(fields) == 0 {
			return
		}
		p.Errors = make(map[string]any, len(fields))
		for k, v := range fields {
			p.Errors[k] = v
		}
	}
}

// Write renders a problem whose type URI is derived from code. Outside development and test
// the detail of an error never reaches the client.
func Write(w http.ResponseWriter, r *http.Request, status int, code, title string, err error, env string, opts ...Option) {
	problem := ProblemDetails{
		Type:   TypeBase + code,
		Title:  title,
		Status: status,
		Code:   code,
	}

	for _, opt := range opts {
		opt(&problem)
	}

	if problem.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			problem.Detail = err.Error()
		} else {
			problem.Detail = http.StatusText(status)
		}
	}

	if problem.Instance == "" && r != nil {
		problem.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		var event *zerolog.Event
		if status >= 500 {
			event = logger.Error()
		} else {
			event = logger.Warn()
		}
		event.
			Err(err).
			Int("status", status).
			Str("code", code).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, problem)
}

func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	payload, err := json.Marshal(problem)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}
