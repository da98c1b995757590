// Package approval implements the human gate that decides the fate of
// generated content. A pending workflow record is approved (publishing the
// linked content item) or rejected (marking it rejected); both outcomes are
// terminal.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// ErrInvalidTransition indicates a decision was applied to a workflow record
// that already reached a terminal state.
var ErrInvalidTransition = errors.New("invalid workflow state transition")

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// Decision identifies the workflow record and content item a decision touched.
type Decision struct {
	WorkflowID string `json:"workflow_id"`
	ContentID  string `json:"content_id"`
}

type Workflow struct {
	store  persistence.Store
	logger *slog.Logger
}

func NewWorkflow(store persistence.Store, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		logger: logger.With("module", "approval"),
	}
}

// ListPending returns every open workflow record joined with a summary of
// its content item.
func (w *Workflow) ListPending(ctx context.Context) ([]*models.WorkflowWithContent, error) {
	return w.store.Approvals().ListPending(ctx)
}

// Approve transitions a pending workflow record to approved and publishes
// the linked content item, stamping published_at.
func (w *Workflow) Approve(ctx context.Context, workflowID, reviewerID, notes string) (*Decision, error) {
	record, err := w.loadOpen(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	record.Status = models.ApprovalStatusApproved
	record.ApprovedBy = &reviewerID
	record.ApprovedAt = &now
	record.ReviewNotes = notes
	record.ActualCompletion = &now

	err = w.store.Approvals().ApplyTransition(ctx, record, models.ContentStatusPublished, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply approval: %w", err)
	}

	w.logger.InfoContext(ctx, "workflow approved",
		"workflow_id", record.ID, "content_id", record.ContentItemID, "reviewer", reviewerID)

	return &Decision{WorkflowID: record.ID, ContentID: record.ContentItemID}, nil
}

// Reject transitions a pending workflow record to rejected and marks the
// linked content item rejected.
func (w *Workflow) Reject(ctx context.Context, workflowID, reviewerID, reason string) (*Decision, error) {
	record, err := w.loadOpen(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	record.Status = models.ApprovalStatusRejected
	record.ApprovedBy = &reviewerID
	record.RejectionReason = reason
	record.ActualCompletion = &now

	err = w.store.Approvals().ApplyTransition(ctx, record, models.ContentStatusRejected, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to apply rejection: %w", err)
	}

	w.logger.InfoContext(ctx, "workflow rejected",
		"workflow_id", record.ID, "content_id", record.ContentItemID, "reviewer", reviewerID)

	return &Decision{WorkflowID: record.ID, ContentID: record.ContentItemID}, nil
}

func (w *Workflow) loadOpen(ctx context.Context, workflowID string) (*models.ApprovalWorkflowRecord, error) {
	record, err := w.store.Approvals().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if record.IsTerminal() {
		return nil, fmt.Errorf("%w: workflow %s is already %s", ErrInvalidTransition, record.ID, record.Status)
	}

	return record, nil
}
