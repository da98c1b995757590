// Package memory provides an in-memory persistence implementation used by
// tests and local development, mirroring the semantics of the SQL store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// Store implements persistence.Store with mutex-guarded maps.
type Store struct {
	mu sync.Mutex

	agents    map[models.AgentRole]*models.Agent
	content   map[string]*models.ContentItem
	workflows map[string]*models.ApprovalWorkflowRecord
	tasks     []*models.TaskQueueEntry
	programs  map[string]*models.Program

	generationLogs []*models.GenerationLog
	activities     []*models.AgentActivity

	// FailWorkflowInsert forces CreateWithWorkflow to fail after the
	// content insert, exercising the compensating-delete path in tests.
	FailWorkflowInsert bool

	agentLookups int
}

// newID generates a UUIDv7 row id, matching the SQL and REST adapters so
// ids sort by creation time across all stores.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		agents:    make(map[models.AgentRole]*models.Agent),
		content:   make(map[string]*models.ContentItem),
		workflows: make(map[string]*models.ApprovalWorkflowRecord),
		programs:  make(map[string]*models.Program),
	}
}

// NewSeededStore creates a store pre-populated with the two agent roles the
// pipeline depends on, matching the SQL seed migration.
func NewSeededStore() *Store {
	store := NewStore()
	now := time.Now().UTC()

	store.agents[models.AgentRoleContentCreation] = &models.Agent{
		ID:     newID(),
		Name:   "Content Creation Agent",
		Role:   models.AgentRoleContentCreation,
		Status: models.AgentStatusActive,
		Config: models.AgentConfig{
			TargetNiches:         models.DefaultNiches,
			ArticlesPerDay:       3,
			TargetScoreThreshold: 80,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	store.agents[models.AgentRoleSeoOptimization] = &models.Agent{
		ID:        newID(),
		Name:      "SEO Optimization Agent",
		Role:      models.AgentRoleSeoOptimization,
		Status:    models.AgentStatusActive,
		Config:    models.AgentConfig{TargetScoreThreshold: 80},
		CreatedAt: now,
		UpdatedAt: now,
	}

	return store
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

func (s *Store) Agents() persistence.AgentRepository {
	return &agentRepository{store: s}
}

func (s *Store) Content() persistence.ContentRepository {
	return &contentRepository{store: s}
}

func (s *Store) Approvals() persistence.ApprovalRepository {
	return &approvalRepository{store: s}
}

func (s *Store) Tasks() persistence.TaskRepository {
	return &taskRepository{store: s}
}

func (s *Store) Programs() persistence.ProgramRepository {
	return &programRepository{store: s}
}

func (s *Store) Audit() persistence.AuditRepository {
	return &auditRepository{store: s}
}

// AddAgent inserts an agent registry row, for tests needing non-default
// config.
func (s *Store) AddAgent(agent *models.Agent) *models.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if agent.ID == "" {
		agent.ID = newID()
	}

	s.agents[agent.Role] = agent

	return agent
}

// AddProgram inserts a program row, generating an id when absent.
func (s *Store) AddProgram(program *models.Program) *models.Program {
	s.mu.Lock()
	defer s.mu.Unlock()

	if program.ID == "" {
		program.ID = newID()
	}

	if program.CreatedAt.IsZero() {
		program.CreatedAt = time.Now().UTC()
	}

	s.programs[program.ID] = program

	return program
}

// ContentByID returns the stored item without copying, for test assertions.
func (s *Store) ContentByID(id string) *models.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.content[id]
}

// AgentLookups returns how many GetByRole calls the store has served.
func (s *Store) AgentLookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.agentLookups
}

// ContentItems returns all stored content items.
func (s *Store) ContentItems() []*models.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*models.ContentItem, 0, len(s.content))
	for _, item := range s.content {
		items = append(items, item)
	}

	return items
}

// WorkflowForContent returns the stored workflow record referencing the
// given content item, or nil.
func (s *Store) WorkflowForContent(contentID string) *models.ApprovalWorkflowRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.workflows {
		if record.ContentItemID == contentID {
			return record
		}
	}

	return nil
}

// GenerationLogs returns all appended generation log rows.
func (s *Store) GenerationLogs() []*models.GenerationLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*models.GenerationLog(nil), s.generationLogs...)
}

// Activities returns all appended agent activity rows.
func (s *Store) Activities() []*models.AgentActivity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*models.AgentActivity(nil), s.activities...)
}

// TaskEntries returns all appended task queue entries in insertion order.
func (s *Store) TaskEntries() []*models.TaskQueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*models.TaskQueueEntry(nil), s.tasks...)
}

type agentRepository struct {
	store *Store
}

func (r *agentRepository) GetByRole(_ context.Context, role models.AgentRole) (*models.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.agentLookups++

	agent, ok := r.store.agents[role]
	if !ok {
		return nil, persistence.NewStoreError("GetByRole", "agents", string(role), persistence.ErrAgentNotFound)
	}

	copied := *agent

	return &copied, nil
}

func (r *agentRepository) List(_ context.Context) ([]*models.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	agents := make([]*models.Agent, 0, len(r.store.agents))
	for _, agent := range r.store.agents {
		copied := *agent
		agents = append(agents, &copied)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })

	return agents, nil
}

func (r *agentRepository) TouchLastRun(_ context.Context, role models.AgentRole, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	agent, ok := r.store.agents[role]
	if !ok {
		return persistence.NewStoreError("TouchLastRun", "agents", string(role), persistence.ErrAgentNotFound)
	}

	t := at.UTC()
	agent.LastRun = &t
	agent.UpdatedAt = t

	return nil
}

type contentRepository struct {
	store *Store
}

func (r *contentRepository) GetByID(_ context.Context, id string) (*models.ContentItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.content[id]
	if !ok {
		return nil, persistence.NewStoreError("GetByID", "content_items", id, persistence.ErrContentNotFound)
	}

	copied := *item

	return &copied, nil
}

func (r *contentRepository) CreateWithWorkflow(_ context.Context, item *models.ContentItem, record *models.ApprovalWorkflowRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()

	if item.ID == "" {
		item.ID = newID()
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	copied := *item
	r.store.content[item.ID] = &copied

	if record == nil {
		return nil
	}

	if r.store.FailWorkflowInsert {
		delete(r.store.content, item.ID)

		return persistence.NewStoreError("CreateWithWorkflow", "content_approval_workflow", "", persistence.ErrWorkflowNotFound)
	}

	if record.ID == "" {
		record.ID = newID()
	}

	record.ContentItemID = item.ID

	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	copiedRecord := *record
	r.store.workflows[record.ID] = &copiedRecord

	return nil
}

func (r *contentRepository) UpdateSeoData(_ context.Context, id string, seo models.SeoData) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.content[id]
	if !ok {
		return persistence.NewStoreError("UpdateSeoData", "content_items", id, persistence.ErrContentNotFound)
	}

	item.SeoData = seo

	return nil
}

func (r *contentRepository) SetStatus(_ context.Context, id string, status models.ContentStatus, publishedAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.content[id]
	if !ok {
		return persistence.NewStoreError("SetStatus", "content_items", id, persistence.ErrContentNotFound)
	}

	item.Status = status

	if publishedAt != nil {
		item.PublishedAt = publishedAt
	}

	return nil
}

func (r *contentRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.content, id)

	return nil
}

type approvalRepository struct {
	store *Store
}

func (r *approvalRepository) GetByID(_ context.Context, id string) (*models.ApprovalWorkflowRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.workflows[id]
	if !ok {
		return nil, persistence.NewStoreError("GetByID", "content_approval_workflow", id, persistence.ErrWorkflowNotFound)
	}

	copied := *record

	return &copied, nil
}

func (r *approvalRepository) ListPending(_ context.Context) ([]*models.WorkflowWithContent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pending := make([]*models.WorkflowWithContent, 0)

	for _, record := range r.store.workflows {
		if record.Status != models.ApprovalStatusPending {
			continue
		}

		item, ok := r.store.content[record.ContentItemID]
		if !ok {
			continue
		}

		pending = append(pending, &models.WorkflowWithContent{
			Workflow: *record,
			Content: models.ContentSummary{
				ID:          item.ID,
				Title:       item.Title,
				ContentType: item.ContentType,
				Status:      item.Status,
				Author:      item.Author,
				WordCount:   item.WordCount(),
				TargetNiche: item.SeoData.TargetNiche,
				CreatedAt:   item.CreatedAt,
			},
		})
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Workflow.CreatedAt.Before(pending[j].Workflow.CreatedAt)
	})

	return pending, nil
}

func (r *approvalRepository) ApplyTransition(_ context.Context, record *models.ApprovalWorkflowRecord, contentStatus models.ContentStatus, publishedAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.workflows[record.ID]
	if !ok {
		return persistence.NewStoreError("ApplyTransition", "content_approval_workflow", record.ID, persistence.ErrWorkflowNotFound)
	}

	item, ok := r.store.content[stored.ContentItemID]
	if !ok {
		return persistence.NewStoreError("ApplyTransition", "content_items", stored.ContentItemID, persistence.ErrContentNotFound)
	}

	*stored = *record
	item.Status = contentStatus

	if publishedAt != nil {
		item.PublishedAt = publishedAt
	}

	return nil
}

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Append(_ context.Context, entry *models.TaskQueueEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if entry.ID == "" {
		entry.ID = newID()
	}

	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}

	copied := *entry
	r.store.tasks = append(r.store.tasks, &copied)

	return nil
}

func (r *taskRepository) CountNotCompleted(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0

	for _, entry := range r.store.tasks {
		if entry.Status != models.TaskStatusCompleted {
			count++
		}
	}

	return count, nil
}

type programRepository struct {
	store *Store
}

func (r *programRepository) GetByID(_ context.Context, id string) (*models.Program, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	program, ok := r.store.programs[id]
	if !ok {
		return nil, persistence.NewStoreError("GetByID", "awin_programs", id, persistence.ErrProgramNotFound)
	}

	copied := *program

	return &copied, nil
}

func (r *programRepository) List(_ context.Context) ([]*models.Program, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	programs := make([]*models.Program, 0, len(r.store.programs))
	for _, program := range r.store.programs {
		copied := *program
		programs = append(programs, &copied)
	}

	sort.Slice(programs, func(i, j int) bool {
		if programs[i].PriorityScore != programs[j].PriorityScore {
			return programs[i].PriorityScore > programs[j].PriorityScore
		}

		return programs[i].Name < programs[j].Name
	})

	return programs, nil
}

func (r *programRepository) SetStatus(_ context.Context, id string, status models.ProgramStatus, appliedAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	program, ok := r.store.programs[id]
	if !ok {
		return persistence.NewStoreError("SetStatus", "awin_programs", id, persistence.ErrProgramNotFound)
	}

	program.Status = status

	if appliedAt != nil {
		program.AppliedAt = appliedAt
	}

	return nil
}

type auditRepository struct {
	store *Store
}

func (r *auditRepository) AppendGenerationLog(_ context.Context, log *models.GenerationLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	copied := *log
	r.store.generationLogs = append(r.store.generationLogs, &copied)

	return nil
}

func (r *auditRepository) AppendActivity(_ context.Context, activity *models.AgentActivity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	copied := *activity
	r.store.activities = append(r.store.activities, &copied)

	return nil
}
