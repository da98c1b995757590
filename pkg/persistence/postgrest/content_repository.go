package postgrest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// ContentRepository handles content items through the REST interface.
type ContentRepository struct {
	client *Client
	logger *slog.Logger
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	var rows []models.ContentItem

	err := r.client.Select(ctx, "content_items", map[string]string{"id": id}, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", "content_items", id, err)
	}

	if len(rows) == 0 {
		return nil, persistence.NewStoreError("GetByID", "content_items", id, persistence.ErrContentNotFound)
	}

	return &rows[0], nil
}

// CreateWithWorkflow inserts the content item first and the workflow record
// second. The REST interface has no transactions, so a failed workflow
// insert triggers a compensating delete of the content item.
func (r *ContentRepository) CreateWithWorkflow(ctx context.Context, item *models.ContentItem, record *models.ApprovalWorkflowRecord) error {
	now := time.Now().UTC()

	if item.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewStoreError("CreateWithWorkflow", "content_items", "", err)
		}

		item.ID = id.String()
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	err := r.client.Insert(ctx, "content_items", item, nil)
	if err != nil {
		return persistence.NewStoreError("CreateWithWorkflow", "content_items", item.ID, err)
	}

	if record == nil {
		return nil
	}

	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return persistence.NewStoreError("CreateWithWorkflow", "content_approval_workflow", "", err)
		}

		record.ID = id.String()
	}

	record.ContentItemID = item.ID

	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	err = r.client.Insert(ctx, "content_approval_workflow", record, nil)
	if err != nil {
		// Roll the content item back so no item requiring approval exists
		// without its workflow record.
		rollbackErr := r.client.Delete(ctx, "content_items", map[string]string{"id": item.ID})
		if rollbackErr != nil {
			r.logger.ErrorContext(ctx, "compensating content delete failed",
				"content_id", item.ID, "error", rollbackErr)
		}

		return persistence.NewStoreError("CreateWithWorkflow", "content_approval_workflow", record.ID, err)
	}

	return nil
}

func (r *ContentRepository) UpdateSeoData(ctx context.Context, id string, seo models.SeoData) error {
	var rows []models.ContentItem

	err := r.client.Patch(ctx, "content_items", map[string]string{"id": id}, map[string]any{"seo_data": seo}, &rows)
	if err != nil {
		return persistence.NewStoreError("UpdateSeoData", "content_items", id, err)
	}

	if len(rows) == 0 {
		return persistence.NewStoreError("UpdateSeoData", "content_items", id, persistence.ErrContentNotFound)
	}

	return nil
}

func (r *ContentRepository) SetStatus(ctx context.Context, id string, status models.ContentStatus, publishedAt *time.Time) error {
	patch := map[string]any{"status": string(status)}
	if publishedAt != nil {
		patch["published_at"] = publishedAt.UTC().Format(time.RFC3339)
	}

	var rows []models.ContentItem

	err := r.client.Patch(ctx, "content_items", map[string]string{"id": id}, patch, &rows)
	if err != nil {
		return persistence.NewStoreError("SetStatus", "content_items", id, err)
	}

	if len(rows) == 0 {
		return persistence.NewStoreError("SetStatus", "content_items", id, persistence.ErrContentNotFound)
	}

	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, "content_items", map[string]string{"id": id})
	if err != nil {
		return persistence.NewStoreError("Delete", "content_items", id, err)
	}

	return nil
}

// ApprovalRepository handles workflow records through the REST interface.
type ApprovalRepository struct {
	client *Client
	logger *slog.Logger
}

func (r *ApprovalRepository) GetByID(ctx context.Context, id string) (*models.ApprovalWorkflowRecord, error) {
	var rows []models.ApprovalWorkflowRecord

	err := r.client.Select(ctx, "content_approval_workflow", map[string]string{"id": id}, &rows)
	if err != nil {
		return nil, persistence.NewStoreError("GetByID", "content_approval_workflow", id, err)
	}

	if len(rows) == 0 {
		return nil, persistence.NewStoreError("GetByID", "content_approval_workflow", id, persistence.ErrWorkflowNotFound)
	}

	return &rows[0], nil
}

func (r *ApprovalRepository) ListPending(ctx context.Context) ([]*models.WorkflowWithContent, error) {
	var records []models.ApprovalWorkflowRecord

	err := r.client.Select(ctx, "content_approval_workflow",
		map[string]string{"status": string(models.ApprovalStatusPending)}, &records)
	if err != nil {
		return nil, persistence.NewStoreError("ListPending", "content_approval_workflow", "", err)
	}

	pending := make([]*models.WorkflowWithContent, 0, len(records))

	for _, record := range records {
		var items []models.ContentItem

		err := r.client.Select(ctx, "content_items", map[string]string{"id": record.ContentItemID}, &items)
		if err != nil {
			return nil, persistence.NewStoreError("ListPending", "content_items", record.ContentItemID, err)
		}

		if len(items) == 0 {
			// Orphaned workflow row; skip rather than fail the listing.
			r.logger.WarnContext(ctx, "workflow record references missing content item",
				"workflow_id", record.ID, "content_id", record.ContentItemID)

			continue
		}

		item := items[0]
		pending = append(pending, &models.WorkflowWithContent{
			Workflow: record,
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

	return pending, nil
}

// ApplyTransition patches the workflow record first and the content item
// second, reverting the workflow row when the content patch fails.
func (r *ApprovalRepository) ApplyTransition(ctx context.Context, record *models.ApprovalWorkflowRecord, contentStatus models.ContentStatus, publishedAt *time.Time) error {
	workflowPatch := map[string]any{
		"status":            string(record.Status),
		"approved_by":       record.ApprovedBy,
		"approved_at":       record.ApprovedAt,
		"review_notes":      record.ReviewNotes,
		"rejection_reason":  record.RejectionReason,
		"actual_completion": record.ActualCompletion,
	}

	err := r.client.Patch(ctx, "content_approval_workflow", map[string]string{"id": record.ID}, workflowPatch, nil)
	if err != nil {
		return persistence.NewStoreError("ApplyTransition", "content_approval_workflow", record.ID, err)
	}

	contentPatch := map[string]any{"status": string(contentStatus)}
	if publishedAt != nil {
		contentPatch["published_at"] = publishedAt.UTC().Format(time.RFC3339)
	}

	err = r.client.Patch(ctx, "content_items", map[string]string{"id": record.ContentItemID}, contentPatch, nil)
	if err != nil {
		// Best-effort revert so the workflow row does not claim a decision
		// the content item never received.
		revert := map[string]any{"status": string(models.ApprovalStatusPending)}

		revertErr := r.client.Patch(ctx, "content_approval_workflow", map[string]string{"id": record.ID}, revert, nil)
		if revertErr != nil {
			r.logger.ErrorContext(ctx, "compensating workflow revert failed",
				"workflow_id", record.ID, "error", revertErr)
		}

		return persistence.NewStoreError("ApplyTransition", "content_items", record.ContentItemID, err)
	}

	return nil
}
