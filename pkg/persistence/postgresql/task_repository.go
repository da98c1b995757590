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

// TaskRepository handles the append-only orchestration audit log.
type TaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskRepository creates a new task queue repository.
func NewTaskRepository(db *sql.DB, logger *slog.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Append(ctx context.Context, entry *models.TaskQueueEntry) error {
	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate task entry ID: %w", err)
		}

		entry.ID = id.String()
	}

	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}

	payloadJSON, err := json.Marshal(entry.TaskPayload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO agent_task_queue (id, agent_id, task_type, task_payload, status, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.AgentID, entry.TaskType, payloadJSON, string(entry.Status), entry.StartedAt, entry.CompletedAt)
	if err != nil {
		return persistence.NewStoreError("Append", "agent_task_queue", entry.ID, err)
	}

	return nil
}

func (r *TaskRepository) CountNotCompleted(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM agent_task_queue WHERE status <> 'completed'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}

	return count, nil
}
