package models

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending_approval"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// ApprovalWorkflowRecord is the human-approval gate paired 1:1 with a content
// item awaiting a decision. Approved and rejected are terminal.
type ApprovalWorkflowRecord struct {
	ID               string         `json:"id"`
	ContentItemID    string         `json:"content_item_id"`
	Status           ApprovalStatus `json:"status"`
	ApprovedBy       *string        `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time     `json:"approved_at,omitempty"`
	ReviewNotes      string         `json:"review_notes,omitempty"`
	RejectionReason  string         `json:"rejection_reason,omitempty"`
	ActualCompletion *time.Time     `json:"actual_completion,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsTerminal reports whether the record has reached a final decision.
func (r *ApprovalWorkflowRecord) IsTerminal() bool {
	return r.Status == ApprovalStatusApproved || r.Status == ApprovalStatusRejected
}

// ContentSummary is the reduced content view joined to a pending workflow row.
type ContentSummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	ContentType string        `json:"content_type"`
	Status      ContentStatus `json:"status"`
	Author      string        `json:"author"`
	WordCount   int           `json:"word_count"`
	TargetNiche string        `json:"target_niche,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// WorkflowWithContent joins a pending workflow record with its content summary.
type WorkflowWithContent struct {
	Workflow ApprovalWorkflowRecord `json:"workflow"`
	Content  ContentSummary         `json:"content"`
}
