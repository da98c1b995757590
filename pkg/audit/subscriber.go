// Package audit consumes audit events from the side channel and persists
// them. Persistence here is best-effort: a failed write is logged and the
// message acknowledged anyway, so audit problems never back up producers.
package audit

import (
	"context"
	"log/slog"

	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

type Subscriber struct {
	store  persistence.Store
	logger *slog.Logger
}

func NewSubscriber(store persistence.Store, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		store:  store,
		logger: logger.With("module", "audit"),
	}
}

// Start subscribes to the audit topic. It returns once the subscription is
// established; consumption continues until ctx is cancelled or the bus is
// closed.
func (s *Subscriber) Start(ctx context.Context, bus eventbus.EventBus) error {
	return bus.Subscribe(ctx, s.handle)
}

func (s *Subscriber) handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.GenerationLogged:
		err := s.store.Audit().AppendGenerationLog(ctx, &e.Log)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to persist generation log", "error", err)
		}
	case *events.ActivityRecorded:
		err := s.store.Audit().AppendActivity(ctx, &e.Activity)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to persist agent activity", "error", err)
		}
	case *events.TaskCompleted:
		s.logger.InfoContext(ctx, "task completed",
			"agent_id", e.AgentID, "task_type", e.TaskType, "status", e.Status)
	default:
		s.logger.WarnContext(ctx, "unknown audit event", "type", event.GetType())
	}

	return nil
}
