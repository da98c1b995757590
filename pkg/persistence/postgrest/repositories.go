package postgrest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// AgentRepository reads the agent registry through the REST interface.
type AgentRepository struct {
	client *Client
}

func (r *AgentRepository) GetByRole(ctx context.Context, role models.AgentRole) (*models.Agent, error) {
	var rows []models.Agent

	err := r.client.Select(ctx, "agents", map[string]string{"role": string(role)}, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("GetByRole", "agents", string(role), err)
	}

	if len(rows) == 0 {
		return nil, persistence.NewStoreError("GetByRole", "agents", string(role), persistence.ErrAgentNotFound)
	}

	return &rows[0], nil
}

func (r *AgentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	var rows []models.Agent

	err := r.client.Select(ctx, "agents", nil, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("List", "agents", "", err)
	}

	agents := make([]*models.Agent, 0, len(rows))
	for i := range rows {
		agents = append(agents, &rows[i])
	}

	return agents, nil
}

func (r *AgentRepository) TouchLastRun(ctx context.Context, role models.AgentRole, at time.Time) error {
	patch := map[string]any{
		"last_run":   at.UTC().Format(time.RFC3339),
		"updated_at": at.UTC().Format(time.RFC3339),
	}

	err := r.client.Patch(ctx, "agents", map[string]string{"role": string(role)}, patch, nil)
	if err != nil {
		return persistence.NewStoreError("TouchLastRun", "agents", string(role), err)
	}

	return nil
}

// TaskRepository appends orchestration audit entries through the REST interface.
type TaskRepository struct {
	client *Client
}

func (r *TaskRepository) Append(ctx context.Context, entry *models.TaskQueueEntry) error {
	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewStoreError("Append", "agent_task_queue", "", err)
		}

		entry.ID = id.String()
	}

	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}

	err := r.client.Insert(ctx, "agent_task_queue", entry, nil)
	if err != nil {
		return persistence.NewStoreError("Append", "agent_task_queue", entry.ID, err)
	}

	return nil
}

func (r *TaskRepository) CountNotCompleted(ctx context.Context) (int, error) {
	// PostgREST exposes neq filters with the same query convention as eq.
	var rows []models.TaskQueueEntry

	err := r.client.SelectRaw(ctx, "agent_task_queue", "status=neq.completed", &rows)
	if err != nil {
		return 0, persistence.NewStoreError("CountNotCompleted", "agent_task_queue", "", err)
	}

	return len(rows), nil
}

// ProgramRepository serves the affiliate program catalog through the REST interface.
type ProgramRepository struct {
	client *Client
}

// programRow is the wire shape of an awin_programs row; the raw network
// status gets simplified before leaving the repository.
type programRow struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Niche             string     `json:"niche,omitempty"`
	CommissionRate    string     `json:"commission_rate,omitempty"`
	PriorityScore     int        `json:"priority_score,omitempty"`
	Relevance         string     `json:"relevance,omitempty"`
	ApplicationStatus string     `json:"application_status"`
	AppliedAt         *time.Time `json:"applied_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (row programRow) toProgram() *models.Program {
	return &models.Program{
		ID:             row.ID,
		Name:           row.Name,
		Niche:          row.Niche,
		CommissionRate: row.CommissionRate,
		PriorityScore:  row.PriorityScore,
		Relevance:      row.Relevance,
		Status:         models.SimplifyProgramStatus(row.ApplicationStatus),
		AppliedAt:      row.AppliedAt,
		CreatedAt:      row.CreatedAt,
	}
}

func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var rows []programRow

	err := r.client.Select(ctx, "awin_programs", map[string]string{"id": id}, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", "awin_programs", id, err)
	}

	if len(rows) == 0 {
		return nil, persistence.NewStoreError("GetByID", "awin_programs", id, persistence.ErrProgramNotFound)
	}

	return rows[0].toProgram(), nil
}

func (r *ProgramRepository) List(ctx context.Context) ([]*models.Program, error) {
	var rows []programRow

	err := r.client.Select(ctx, "awin_programs", nil, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("List", "awin_programs", "", err)
	}

	programs := make([]*models.Program, 0, len(rows))
	for _, row := range rows {
		programs = append(programs, row.toProgram())
	}

	return programs, nil
}

func (r *ProgramRepository) SetStatus(ctx context.Context, id string, status models.ProgramStatus, appliedAt *time.Time) error {
	patch := map[string]any{"application_status": string(status)}
	if appliedAt != nil {
		patch["applied_at"] = appliedAt.UTC().Format(time.RFC3339)
	}

	var rows []programRow

	err := r.client.Patch(ctx, "awin_programs", map[string]string{"id": id}, patch, &rows)
	if err != nil {
		return persistence.NewStoreError("SetStatus", "awin_programs", id, err)
	}

	if len(rows) == 0 {
		return persistence.NewStoreError("SetStatus", "awin_programs", id, persistence.ErrProgramNotFound)
	}

	return nil
}

// AuditRepository appends best-effort log rows through the REST interface.
type AuditRepository struct {
	client *Client
}

func (r *AuditRepository) AppendGenerationLog(ctx context.Context, log *models.GenerationLog) error {
	if log.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewStoreError("AppendGenerationLog", "ai_generation_logs", "", err)
		}

		log.ID = id.String()
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	err := r.client.Insert(ctx, "ai_generation_logs", log, nil)
	if err != nil {
		return persistence.NewStoreError("AppendGenerationLog", "ai_generation_logs", log.ID, err)
	}

	return nil
}

func (r *AuditRepository) AppendActivity(ctx context.Context, activity *models.AgentActivity) error {
	if activity.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewStoreError("AppendActivity", "agent_activities", "", err)
		}

		activity.ID = id.String()
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	err := r.client.Insert(ctx, "agent_activities", activity, nil)
	if err != nil {
		return persistence.NewStoreError("AppendActivity", "agent_activities", activity.ID, err)
	}

	return nil
}
