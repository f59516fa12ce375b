package services

import (
	"context"

	"github.com/BradenHooton/sitebase/pkg/logger"
)

type contextKey string

const (
	clientIPKey contextKey = "client_ip"
	actorIDKey  contextKey = "actor_id"
)

// WithClientIP attaches the caller's address for audit records
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// WithActor attaches the acting back-office user for audit records
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorIDKey, userID)
}

// ClientIPFromContext returns the address set by WithClientIP
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// ActorFromContext returns the user set by WithActor
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorIDKey).(string)
	return id
}

// recordAdminAction writes an audit record when audit logging is enabled
func recordAdminAction(ctx context.Context, audit *logger.AuditLogger, action, model, objectID string, metadata map[string]string) {
	if audit == nil {
		return
	}
	audit.LogAdminAction(ctx, logger.AdminAction{
		Action:    action,
		ActorID:   ActorFromContext(ctx),
		Model:     model,
		ObjectID:  objectID,
		IPAddress: ClientIPFromContext(ctx),
		Metadata:  metadata,
	})
}
