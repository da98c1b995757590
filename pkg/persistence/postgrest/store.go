package postgrest

import (
	"context"
	"log/slog"

	"github.com/ecoreach/contentflow/pkg/persistence"
)

// Store implements persistence.Store over a PostgREST interface.
//
// The REST interface has no multi-row transactions. Paired writes use
// compensating writes instead: CreateWithWorkflow deletes the content item
// when the workflow insert fails, ApplyTransition reverts the workflow row
// when the content update fails. A crash between the two writes can still
// leave the pair inconsistent; that consistency level is accepted here and
// documented in DESIGN.md.
type Store struct {
	client       *Client
	logger       *slog.Logger
	agentRepo    *AgentRepository
	contentRepo  *ContentRepository
	approvalRepo *ApprovalRepository
	taskRepo     *TaskRepository
	programRepo  *ProgramRepository
	auditRepo    *AuditRepository
}

// NewStore creates a REST-backed store for the given base URL and API key.
func NewStore(baseURL, apiKey string, logger *slog.Logger) *Store {
	client := NewClient(baseURL, apiKey, logger)

	return &Store{
		client:       client,
		logger:       logger,
		agentRepo:    &AgentRepository{client: client},
		contentRepo:  &ContentRepository{client: client, logger: logger},
		approvalRepo: &ApprovalRepository{client: client, logger: logger},
		taskRepo:     &TaskRepository{client: client},
		programRepo:  &ProgramRepository{client: client},
		auditRepo:    &AuditRepository{client: client},
	}
}

// Close is a no-op; the underlying HTTP client holds no resources to release.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the REST interface answers for the agents table.
func (s *Store) HealthCheck(ctx context.Context) error {
	var rows []map[string]any

	return s.client.Select(ctx, "agents", nil, &rows)
}

func (s *Store) Agents() persistence.AgentRepository {
	return s.agentRepo
}

func (s *Store) Content() persistence.ContentRepository {
	return s.contentRepo
}

func (s *Store) Approvals() persistence.ApprovalRepository {
	return s.approvalRepo
}

func (s *Store) Tasks() persistence.TaskRepository {
	return s.taskRepo
}

func (s *Store) Programs() persistence.ProgramRepository {
	return s.programRepo
}

func (s *Store) Audit() persistence.AuditRepository {
	return s.auditRepo
}
