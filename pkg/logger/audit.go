package logger

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Back-office actions recorded by the audit log
const (
	ActionUserCreated      = "user_created"
	ActionSuperuserCreated = "superuser_created"
	ActionUserUpdated      = "user_updated"
	ActionPageCreated      = "page_created"
	ActionPageUpdated      = "page_updated"
	ActionPageDeleted      = "page_deleted"
	ActionPageRestored     = "page_restored"
	ActionImageUploaded    = "image_uploaded"
)

// AuthEvent is a login attempt
type AuthEvent struct {
	Email         string
	UserID        string
	IPAddress     string
	Success       bool
	FailureReason string
}

// AdminAction is a change made through the back office
type AdminAction struct {
	Action    string
	ActorID   string
	Model     string
	ObjectID  string
	IPAddress string
	Metadata  map[string]string
}

// ActionSink persists back-office actions alongside the log record
type ActionSink interface {
	RecordAdminAction(ctx context.Context, action AdminAction) error
}

// AuditLogger writes audit records to a structured logger and, when a sink is
// configured, to durable storage
type AuditLogger struct {
	logger *slog.Logger
	sink   ActionSink
	now    func() time.Time
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger, now: time.Now}
}

// WithSink returns a copy of the logger that also writes admin actions to sink
func (al *AuditLogger) WithSink(sink ActionSink) *AuditLogger {
	copied := *al
	copied.sink = sink
	return &copied
}

// LogAuthAttempt logs authentication attempts. Emails are masked.
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuthEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", "login"),
		slog.Bool("success", event.Success),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}

	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogAdminAction logs a back-office change
func (al *AuditLogger) LogAdminAction(ctx context.Context, action AdminAction) {
	attrs := []slog.Attr{
		slog.String("audit_type", "admin"),
		slog.String("event_type", action.Action),
		slog.String("model", action.Model),
		slog.String("object_id", action.ObjectID),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}

	if action.ActorID != "" {
		attrs = append(attrs, slog.String("actor_id", action.ActorID))
	}
	if action.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", action.IPAddress))
	}

	keys := make([]string, 0, len(action.Metadata))
	for key := range action.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, slog.String(key, action.Metadata[key]))
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)

	if al.sink == nil {
		return
	}
	// sink failures are logged, never returned
	if err := al.sink.RecordAdminAction(ctx, action); err != nil {
		al.logger.LogAttrs(ctx, slog.LevelError, "failed to persist audit record",
			slog.String("event_type", action.Action),
			slog.String("object_id", action.ObjectID),
			slog.Any("error", err),
		)
	}
}
