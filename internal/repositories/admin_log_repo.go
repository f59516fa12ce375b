package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/sitebase/internal/database"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminLogRepository persists back-office actions to the admin_log table
type AdminLogRepository struct {
	pool *pgxpool.Pool
}

// NewAdminLogRepository creates a new AdminLogRepository
func NewAdminLogRepository(db *database.DB) *AdminLogRepository {
	return &AdminLogRepository{pool: db.Pool}
}

// Create stores an entry. An actor that is not a user ID is stored as NULL.
func (r *AdminLogRepository) Create(ctx context.Context, entry *models.AdminLogEntry) (*models.AdminLogEntry, error) {
	var actor *uuid.UUID
	if id, err := uuid.Parse(entry.ActorID); err == nil {
		actor = &id
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	query, args, err := psql.Insert("admin_log").
		Columns("actor_id", "action", "model", "object_id", "ip_address", "metadata").
		Values(actor, entry.Action, entry.Model, entry.ObjectID, entry.IPAddress, metadata).
		Suffix("RETURNING id::text, action_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build admin log insert: %w", err)
	}

	stored := *entry
	stored.Metadata = metadata
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stored.ID, &stored.ActionTime); err != nil {
		return nil, fmt.Errorf("failed to create admin log entry: %w", database.MapPostgresError(err))
	}
	return &stored, nil
}

// RecordAdminAction stores an audited action; it is the database sink of the audit logger
func (r *AdminLogRepository) RecordAdminAction(ctx context.Context, action logger.AdminAction) error {
	_, err := r.Create(ctx, &models.AdminLogEntry{
		ActorID:   action.ActorID,
		Action:    action.Action,
		Model:     action.Model,
		ObjectID:  action.ObjectID,
		IPAddress: action.IPAddress,
		Metadata:  action.Metadata,
	})
	return err
}
