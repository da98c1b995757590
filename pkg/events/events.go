// Package events defines the audit events published on the fire-and-forget
// side channel. Producers never wait on these; the audit subscriber persists
// them best-effort.
package events

import (
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
)

// Topic is the single audit topic all events are published to.
const Topic = "contentflow.audit"

const EventTypeMetadataKey = "event_type"

type EventType string

const (
	GenerationLoggedEvent EventType = "audit.generation.logged"
	ActivityRecordedEvent EventType = "audit.activity.recorded"
	TaskCompletedEvent    EventType = "audit.task.completed"
)

// Event is implemented by every audit event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationLogged records one generator invocation.
type GenerationLogged struct {
	BaseEvent

	Log models.GenerationLog `json:"log"`
}

func (e GenerationLogged) GetType() EventType {
	return GenerationLoggedEvent
}

// ActivityRecorded records one agent run summary, e.g. a daily batch.
type ActivityRecorded struct {
	BaseEvent

	Activity models.AgentActivity `json:"activity"`
}

func (e ActivityRecorded) GetType() EventType {
	return ActivityRecordedEvent
}

// TaskCompleted signals one orchestrated run finished. The task queue row is
// written synchronously by the orchestrator; this event is informational.
type TaskCompleted struct {
	BaseEvent

	AgentID  string `json:"agent_id"`
	TaskType string `json:"task_type"`
	Status   string `json:"status"`
}

func (e TaskCompleted) GetType() EventType {
	return TaskCompletedEvent
}
