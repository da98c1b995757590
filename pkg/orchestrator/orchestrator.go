// Package orchestrator composes the content creation and SEO optimization
// agents into the generate-content operation, the status aggregation, and
// the scheduled entry points.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/sessions"
)

// ErrNoNichesConfigured indicates the weekly trigger found an empty niche
// list on the content creation agent.
var ErrNoNichesConfigured = errors.New("no target niches configured")

func IsNoNichesConfigured(err error) bool {
	return errors.Is(err, ErrNoNichesConfigured)
}

const taskTypeGenerateContent = "generate_content"

// WorkflowResult summarizes one orchestrated generate-content run. SEO
// failures are recorded here rather than failing the run.
type WorkflowResult struct {
	ContentID    string `json:"content_id"`
	Title        string `json:"title"`
	WordCount    int    `json:"word_count"`
	Niche        string `json:"niche"`
	SeoOptimized bool   `json:"seo_optimized"`
	SeoScore     int    `json:"seo_score,omitempty"`
	SeoError     string `json:"seo_error,omitempty"`
}

// StatusReport is the read-only aggregation served by the status operation.
type StatusReport struct {
	Agents         int       `json:"agents"`
	PendingTasks   int       `json:"pending_tasks"`
	RecentSessions int       `json:"recent_sessions"`
	Timestamp      time.Time `json:"timestamp"`
}

type Orchestrator struct {
	store     persistence.Store
	creator   *agents.ContentCreation
	optimizer *agents.SeoOptimization
	tracker   sessions.Tracker
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

// NewOrchestrator wires the orchestrator. publisher may be nil when no audit
// channel is configured.
func NewOrchestrator(
	store persistence.Store,
	creator *agents.ContentCreation,
	optimizer *agents.SeoOptimization,
	tracker sessions.Tracker,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		creator:   creator,
		optimizer: optimizer,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger.With("module", "orchestrator"),
	}
}

// GenerateContent chains content creation and, when requested, SEO
// optimization, then appends one completed task queue entry. An SEO failure
// is recorded in the entry and the result but never fails the run; creation
// and task-append failures do.
func (o *Orchestrator) GenerateContent(ctx context.Context, niche, contentType string, runSeo bool) (*WorkflowResult, error) {
	started := time.Now().UTC()

	agent, err := o.creator.Config(ctx)
	if err != nil {
		return nil, err
	}

	created, err := o.creator.CreateForAgent(ctx, agent, niche, contentType, true)
	if err != nil {
		return nil, err
	}

	result := &WorkflowResult{
		ContentID: created.ContentID,
		Title:     created.Title,
		WordCount: created.WordCount,
		Niche:     niche,
	}

	if runSeo {
		seo, err := o.optimizer.Optimize(ctx, created.ContentID)
		if err != nil {
			result.SeoError = err.Error()

			o.logger.WarnContext(ctx, "seo optimization failed during orchestrated run",
				"content_id", created.ContentID, "error", err)
		} else {
			result.SeoOptimized = true
			result.SeoScore = seo.SeoScore
		}
	}

	completed := time.Now().UTC()

	entry := &models.TaskQueueEntry{
		AgentID:  agent.ID,
		TaskType: taskTypeGenerateContent,
		TaskPayload: map[string]any{
			"niche":         niche,
			"content_type":  contentType,
			"content_id":    created.ContentID,
			"seo_optimized": result.SeoOptimized,
			"seo_error":     result.SeoError,
		},
		Status:      models.TaskStatusCompleted,
		StartedAt:   started,
		CompletedAt: &completed,
	}

	err = o.store.Tasks().Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to append task entry: %w", err)
	}

	if o.tracker != nil {
		err = o.tracker.Record(ctx, created.ContentID)
		if err != nil {
			o.logger.WarnContext(ctx, "failed to record generation session", "error", err)
		}
	}

	o.emit(ctx, events.TaskCompleted{
		BaseEvent: events.BaseEvent{
			Type:      events.TaskCompletedEvent,
			Timestamp: completed,
		},
		AgentID:  agent.ID,
		TaskType: taskTypeGenerateContent,
		Status:   string(models.TaskStatusCompleted),
	})

	return result, nil
}

// Status aggregates counts across agents, non-completed tasks and recent
// generation sessions. Pure read, no mutation.
func (o *Orchestrator) Status(ctx context.Context) (*StatusReport, error) {
	agentRows, err := o.store.Agents().List(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := o.store.Tasks().CountNotCompleted(ctx)
	if err != nil {
		return nil, err
	}

	recent := 0

	if o.tracker != nil {
		recent, err = o.tracker.RecentCount(ctx)
		if err != nil {
			o.logger.WarnContext(ctx, "failed to count recent sessions", "error", err)

			recent = 0
		}
	}

	return &StatusReport{
		Agents:         len(agentRows),
		PendingTasks:   pending,
		RecentSessions: recent,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// TriggerWeekly picks a uniformly random niche from the content creation
// agent's configured list and runs a full generate-content workflow on it.
func (o *Orchestrator) TriggerWeekly(ctx context.Context) (*WorkflowResult, error) {
	agent, err := o.creator.Config(ctx)
	if err != nil {
		return nil, err
	}

	niches := agent.Config.TargetNiches
	if len(niches) == 0 {
		return nil, ErrNoNichesConfigured
	}

	niche := niches[rand.IntN(len(niches))]

	o.logger.InfoContext(ctx, "weekly content triggered", "niche", niche)

	return o.GenerateContent(ctx, niche, "article", true)
}

// emit publishes an audit event fire-and-forget.
func (o *Orchestrator) emit(ctx context.Context, event events.Event) {
	if o.publisher == nil {
		return
	}

	err := o.publisher.Publish(ctx, event)
	if err != nil {
		o.logger.WarnContext(ctx, "failed to publish audit event", "type", event.GetType(), "error", err)
	}
}
