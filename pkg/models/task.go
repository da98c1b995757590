package models

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskQueueEntry is an append-only audit record of one orchestrated run.
// Entries are written once and only read back by status reporting.
type TaskQueueEntry struct {
	ID          string         `json:"id"`
	AgentID     string         `json:"agent_id"`
	TaskType    string         `json:"task_type"`
	TaskPayload map[string]any `json:"task_payload,omitempty"`
	Status      TaskStatus     `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// AgentActivity is a best-effort log row summarizing one agent run, e.g. a
// daily batch. Write failures never propagate to the caller.
type AgentActivity struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agent_id"`
	ActivityType string         `json:"activity_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// GenerationLog is a best-effort audit row for one generator invocation.
type GenerationLog struct {
	ID          string         `json:"id"`
	UserID      *string        `json:"user_id,omitempty"`
	ContentType string         `json:"content_type"`
	Prompt      string         `json:"prompt"`
	Style       string         `json:"style,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
