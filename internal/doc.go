// Package internal documents the internlog server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: users, internships, applications, and logbooks
// - storage: database access and repositories (pgx + Postgres)
// - auth, audit, config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
