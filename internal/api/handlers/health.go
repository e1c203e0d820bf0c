package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/internlog/server/internal/storage"
)

// HealthCheck represents the readiness status of the server
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthStore is implemented by postgres.Repository.
type HealthStore interface {
	Ping(ctx context.Context) error
	MigrationState(ctx context.Context) (version int64, dirty bool, err error)
}

// HealthChecker answers the readiness probe
type HealthChecker struct {
	store     HealthStore
	version   string
	gitCommit string
}

func NewHealthChecker(store HealthStore, version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		store:     store,
		version:   version,
		gitCommit: gitCommit,
	}
}

// Readyz reports 200 when the database answers and the schema is in a clean migration
// state, 503 otherwise.
func (h *HealthChecker) Readyz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Context cancelled - server is shutting down
		select {
		case <-r.Context().Done():
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "shutting_down"})
			return
		default:
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"database": h.checkDatabase(ctx),
		}
		if checks["database"].Status == "pass" {
			checks["migrations"] = h.checkMigrations(ctx)
		}

		status := "healthy"
		code := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				status = "unhealthy"
				code = http.StatusServiceUnavailable
				break
			}
		}

		writeJSON(w, code, HealthCheck{
			Status:    status,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func (h *HealthChecker) checkDatabase(ctx context.Context) CheckResult {
	if h.store == nil {
		return CheckResult{
			Status:  "fail",
			Message: "Database pool not initialized",
			Details: map[string]any{
				"remediation": "Check that DATABASE_URL is set correctly and PostgreSQL is running",
			},
		}
	}

	// per-check timeout so one slow check cannot starve the probe
	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(dbCtx)
	latency := time.Since(start).Milliseconds()
	if err == nil {
		return CheckResult{Status: "pass", Message: "PostgreSQL connection successful", LatencyMs: latency}
	}

	message := "Database query failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = "Database query timed out after 2 seconds"
	case strings.Contains(err.Error(), "connection refused"):
		message = "Database connection refused"
	case strings.Contains(err.Error(), "authentication failed"):
		message = "Database authentication failed"
	}
	return CheckResult{Status: "fail", Message: message, LatencyMs: latency}
}

func (h *HealthChecker) checkMigrations(ctx context.Context) CheckResult {
	migCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	version, dirty, err := h.store.MigrationState(migCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		message := "Failed to query migration version"
		if errors.Is(err, storage.ErrNotFound) || strings.Contains(err.Error(), "does not exist") {
			message = "Migrations not applied"
		}
		return CheckResult{
			Status:    "fail",
			Message:   message,
			LatencyMs: latency,
			Details:   map[string]any{"remediation": "Run: internlog migrate up"},
		}
	}

	if dirty {
		return CheckResult{
			Status:    "fail",
			Message:   "Database in dirty migration state - manual intervention required",
			LatencyMs: latency,
			Details: map[string]any{
				"version": version,
				"dirty":   true,
			},
		}
	}

	return CheckResult{
		Status:    "pass",
		Message:   fmt.Sprintf("Migrations applied successfully (version %d)", version),
		LatencyMs: latency,
		Details:   map[string]any{"version": version},
	}
}

// Healthz returns a lightweight liveness response
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
}

type healthResponse struct {
	Status string `json:"status"`
}
