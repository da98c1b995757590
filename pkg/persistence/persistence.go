// Package persistence provides the storage abstraction for the content
// pipeline. Implementations exist for PostgreSQL (direct SQL), a
// PostgREST-style REST interface, and an in-memory store for tests.
package persistence

import (
	"context"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
)

type Store interface {
	Agents() AgentRepository
	Content() ContentRepository
	Approvals() ApprovalRepository
	Tasks() TaskRepository
	Programs() ProgramRepository
	Audit() AuditRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// AgentRepository reads the seeded agent registry. The pipeline never
// creates agent rows; it only reads config and touches last_run.
type AgentRepository interface {
	GetByRole(ctx context.Context, role models.AgentRole) (*models.Agent, error)
	List(ctx context.Context) ([]*models.Agent, error)
	TouchLastRun(ctx context.Context, role models.AgentRole, at time.Time) error
}

type ContentRepository interface {
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)

	// CreateWithWorkflow persists a content item and, when record is not
	// nil, its paired approval workflow record. Implementations must make
	// the pair atomic in intent: a real transaction where the store
	// supports one, otherwise content first with a compensating delete
	// when the workflow write fails.
	CreateWithWorkflow(ctx context.Context, item *models.ContentItem, record *models.ApprovalWorkflowRecord) error

	// UpdateSeoData replaces the stored seo_data block. Callers are
	// expected to fetch, merge and write back; concurrent writers race
	// with last-write-wins semantics.
	UpdateSeoData(ctx context.Context, id string, seo models.SeoData) error

	SetStatus(ctx context.Context, id string, status models.ContentStatus, publishedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

type ApprovalRepository interface {
	GetByID(ctx context.Context, id string) (*models.ApprovalWorkflowRecord, error)
	ListPending(ctx context.Context) ([]*models.WorkflowWithContent, error)

	// ApplyTransition writes the decided workflow record and transitions
	// the linked content item in one logical operation.
	ApplyTransition(ctx context.Context, record *models.ApprovalWorkflowRecord, contentStatus models.ContentStatus, publishedAt *time.Time) error
}

// TaskRepository appends orchestration audit entries and serves the
// aggregate counts used by status reporting.
type TaskRepository interface {
	Append(ctx context.Context, entry *models.TaskQueueEntry) error
	CountNotCompleted(ctx context.Context) (int, error)
}

type ProgramRepository interface {
	GetByID(ctx context.Context, id string) (*models.Program, error)
	List(ctx context.Context) ([]*models.Program, error)
	SetStatus(ctx context.Context, id string, status models.ProgramStatus, appliedAt *time.Time) error
}

// AuditRepository stores best-effort audit rows. Callers swallow errors
// from these methods; implementations should still report them.
type AuditRepository interface {
	AppendGenerationLog(ctx context.Context, log *models.GenerationLog) error
	AppendActivity(ctx context.Context, activity *models.AgentActivity) error
}
