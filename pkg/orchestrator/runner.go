package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// BatchOutcome records one iteration of a daily batch.
type BatchOutcome struct {
	Niche     string        `json:"niche"`
	Status    OutcomeStatus `json:"status"`
	ContentID string        `json:"content_id,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// BatchReport summarizes one daily batch run.
type BatchReport struct {
	Planned   int            `json:"planned"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Outcomes  []BatchOutcome `json:"outcomes"`
	Elapsed   time.Duration  `json:"elapsed"`
}

// DailyBatchRunner generates the configured number of articles per day,
// strictly sequentially, one random niche per iteration.
type DailyBatchRunner struct {
	store     persistence.Store
	creator   *agents.ContentCreation
	optimizer *agents.SeoOptimization
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

// NewDailyBatchRunner wires the runner. publisher may be nil; the activity
// summary is then appended to the store directly.
func NewDailyBatchRunner(
	store persistence.Store,
	creator *agents.ContentCreation,
	optimizer *agents.SeoOptimization,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *DailyBatchRunner {
	return &DailyBatchRunner{
		store:     store,
		creator:   creator,
		optimizer: optimizer,
		publisher: publisher,
		logger:    logger.With("module", "orchestrator.daily_batch"),
	}
}

// RunDaily runs articles_per_day create→optimize iterations. A failed
// iteration is recorded and the batch continues; afterwards one agent
// activity row summarizes the run and the agent's last_run is touched.
func (r *DailyBatchRunner) RunDaily(ctx context.Context) (*BatchReport, error) {
	agent, err := r.creator.Config(ctx)
	if err != nil {
		return nil, err
	}

	planned := agent.Config.ArticlesPerDayOrDefault()
	niches := agent.Config.TargetNichesOrDefault()
	started := time.Now()

	report := &BatchReport{
		Planned:  planned,
		Outcomes: make([]BatchOutcome, 0, planned),
	}

	for i := 0; i < planned; i++ {
		niche := niches[rand.IntN(len(niches))]

		outcome := r.runIteration(ctx, agent, niche)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Status == OutcomeSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	report.Elapsed = time.Since(started)

	r.recordActivity(ctx, agent.ID, report)

	now := time.Now().UTC()

	err = r.store.Agents().TouchLastRun(ctx, agent.Role, now)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to touch agent last_run", "error", err)
	}

	r.logger.InfoContext(ctx, "daily batch finished",
		"planned", report.Planned, "succeeded", report.Succeeded,
		"failed", report.Failed, "elapsed", report.Elapsed)

	return report, nil
}

func (r *DailyBatchRunner) runIteration(ctx context.Context, agent *models.Agent, niche string) BatchOutcome {
	created, err := r.creator.CreateForAgent(ctx, agent, niche, "article", true)
	if err != nil {
		r.logger.WarnContext(ctx, "batch iteration failed", "niche", niche, "error", err)

		return BatchOutcome{Niche: niche, Status: OutcomeFailed, Error: err.Error()}
	}

	_, err = r.optimizer.Optimize(ctx, created.ContentID)
	if err != nil {
		r.logger.WarnContext(ctx, "batch iteration failed during optimization",
			"niche", niche, "content_id", created.ContentID, "error", err)

		return BatchOutcome{
			Niche:     niche,
			Status:    OutcomeFailed,
			ContentID: created.ContentID,
			Error:     err.Error(),
		}
	}

	return BatchOutcome{Niche: niche, Status: OutcomeSuccess, ContentID: created.ContentID}
}

// recordActivity writes the batch summary best-effort, through the audit
// channel when one is configured, straight to the store otherwise.
func (r *DailyBatchRunner) recordActivity(ctx context.Context, agentID string, report *BatchReport) {
	activity := models.AgentActivity{
		AgentID:      agentID,
		ActivityType: "daily_batch",
		Description:  batchDescription(report),
		Metadata: map[string]any{
			"planned":    report.Planned,
			"succeeded":  report.Succeeded,
			"failed":     report.Failed,
			"elapsed_ms": report.Elapsed.Milliseconds(),
		},
		CreatedAt: time.Now().UTC(),
	}

	if r.publisher != nil {
		err := r.publisher.Publish(ctx, events.ActivityRecorded{
			BaseEvent: events.BaseEvent{
				Type:      events.ActivityRecordedEvent,
				Timestamp: activity.CreatedAt,
			},
			Activity: activity,
		})
		if err != nil {
			r.logger.WarnContext(ctx, "failed to publish activity event", "error", err)
		}

		return
	}

	err := r.store.Audit().AppendActivity(ctx, &activity)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to append agent activity", "error", err)
	}
}

func batchDescription(report *BatchReport) string {
	return fmt.Sprintf("%s: daily batch, %d generated, %d failed",
		time.Now().UTC().Format("2006-01-02"), report.Succeeded, report.Failed)
}
