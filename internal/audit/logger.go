package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/internlog/server/internal/auth"
	"github.com/rs/zerolog"
)

// Entry represents a single audit log entry with structured fields
type Entry struct {
	Timestamp    time.Time
	Action       string
	Actor        auth.Identity
	ResourceType string
	ResourceID   int64
	Status       string // "success" or "failure"
	Details      map[string]string
}

// Logger writes audit entries for state-changing workflow operations
type Logger struct {
	base zerolog.Logger
}

// NewLogger creates a new audit logger on top of the application logger
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{base: logger.With().Bool("audit", true).Logger()}
}

// Log writes an audit entry. The request-scoped logger in ctx is preferred so the entry
// carries the request id.
func (l *Logger) Log(ctx context.Context, entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	logger := l.base
	if ctx != nil {
		if reqLogger := zerolog.Ctx(ctx); reqLogger.GetLevel() != zerolog.Disabled {
			logger = reqLogger.With().Bool("audit", true).Logger()
		}
	}

	event := logger.Info().
		Time("at", entry.Timestamp).
		Str("action", entry.Action).
		Str("status", entry.Status)
	if entry.Actor.ID != 0 {
		event = event.Int64("actor_id", entry.Actor.ID).Str("actor_role", entry.Actor.Role.String())
	}
	if entry.ResourceType != "" {
		event = event.Str("resource_type", entry.ResourceType)
	}
	if entry.ResourceID != 0 {
		event = event.Str("resource_id", strconv.FormatInt(entry.ResourceID, 10))
	}
	if len(entry.Details) > 0 {
		dict := zerolog.Dict()
		for k, v := range entry.Details {
			dict = dict.Str(k, v)
		}
		event = event.Dict("details", dict)
	}
	event.Msg("audit")
}

// LogSuccess logs a successful operation
func (l *Logger) LogSuccess(ctx context.Context, action string, actor auth.Identity, resourceType string, resourceID int64, details map[string]string) {
	l.Log(ctx, Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       "success",
		Details:      details,
	})
}

// LogFailure logs a rejected operation
func (l *Logger) LogFailure(ctx context.Context, action string, actor auth.Identity, details map[string]string) {
	l.Log(ctx, Entry{
		Action:  action,
		Actor:   actor,
		Status:  "failure",
		Details: details,
	})
}
