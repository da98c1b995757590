package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// AuditRepository stores best-effort generation and activity log rows.
type AuditRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sql.DB, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

func (r *AuditRepository) AppendGenerationLog(ctx context.Context, log *models.GenerationLog) error {
	if log.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate log ID: %w", err)
		}

		log.ID = id.String()
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	parametersJSON, err := json.Marshal(log.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal log parameters: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ai_generation_logs (id, user_id, content_type, prompt, style, parameters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.UserID, log.ContentType, log.Prompt, nullIfEmpty(log.Style), parametersJSON, log.CreatedAt)
	if err != nil {
		return persistence.NewStoreError("AppendGenerationLog", "ai_generation_logs", log.ID, err)
	}

	return nil
}

func (r *AuditRepository) AppendActivity(ctx context.Context, activity *models.AgentActivity) error {
	if activity.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate activity ID: %w", err)
		}

		activity.ID = id.String()
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	metadataJSON, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal activity metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO agent_activities (id, agent_id, activity_type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, activity.ID, activity.AgentID, activity.ActivityType, activity.Description, metadataJSON, activity.CreatedAt)
	if err != nil {
		return persistence.NewStoreError("AppendActivity", "agent_activities", activity.ID, err)
	}

	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
