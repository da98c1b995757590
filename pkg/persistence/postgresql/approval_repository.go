package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// ApprovalRepository handles approval workflow database operations.
type ApprovalRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewApprovalRepository creates a new approval repository.
func NewApprovalRepository(db *sql.DB, logger *slog.Logger) *ApprovalRepository {
	return &ApprovalRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , content_item_id
  , status
  , approved_by
  , approved_at
  , review_notes
  , rejection_reason
  , actual_completion
  , created_at
`

func (r *ApprovalRepository) GetByID(ctx context.Context, id string) (*models.ApprovalWorkflowRecord, error) {
	query := `SELECT ` + workflowColumns + ` FROM content_approval_workflow WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	record, err := scanWorkflowRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", "content_approval_workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to scan workflow record: %w", err)
	}

	return record, nil
}

// ListPending joins open workflow records with their content item summaries.
func (r *ApprovalRepository) ListPending(ctx context.Context) ([]*models.WorkflowWithContent, error) {
	query := `
		SELECT
			w.id
		  , w.content_item_id
		  , w.status
		  , w.approved_by
		  , w.approved_at
		  , w.review_notes
		  , w.rejection_reason
		  , w.actual_completion
		  , w.created_at
		  , c.title
		  , c.content_type
		  , c.status
		  , c.author
		  , c.content_body
		  , c.seo_data->>'target_niche'
		  , c.created_at
		FROM content_approval_workflow w
		JOIN content_items c ON c.id = w.content_item_id
		WHERE w.status = 'pending_approval'
		ORDER BY w.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	pending := make([]*models.WorkflowWithContent, 0)

	for rows.Next() {
		var (
			entry       models.WorkflowWithContent
			approvedBy  sql.NullString
			approvedAt  sql.NullTime
			notes       sql.NullString
			reason      sql.NullString
			completion  sql.NullTime
			body        string
			targetNiche sql.NullString
		)

		err := rows.Scan(
			&entry.Workflow.ID,
			&entry.Workflow.ContentItemID,
			&entry.Workflow.Status,
			&approvedBy,
			&approvedAt,
			&notes,
			&reason,
			&completion,
			&entry.Workflow.CreatedAt,
			&entry.Content.Title,
			&entry.Content.ContentType,
			&entry.Content.Status,
			&entry.Content.Author,
			&body,
			&targetNiche,
			&entry.Content.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending workflow: %w", err)
		}

		entry.Content.ID = entry.Workflow.ContentItemID
		entry.Content.WordCount = (&models.ContentItem{ContentBody: body}).WordCount()

		if approvedBy.Valid {
			entry.Workflow.ApprovedBy = &approvedBy.String
		}

		if approvedAt.Valid {
			t := approvedAt.Time
			entry.Workflow.ApprovedAt = &t
		}

		entry.Workflow.ReviewNotes = notes.String
		entry.Workflow.RejectionReason = reason.String

		if completion.Valid {
			t := completion.Time
			entry.Workflow.ActualCompletion = &t
		}

		entry.Content.TargetNiche = targetNiche.String

		pending = append(pending, &entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating pending workflows: %w", err)
	}

	return pending, nil
}

// ApplyTransition writes the decided workflow record and the linked content
// item status in one transaction.
func (r *ApprovalRepository) ApplyTransition(ctx context.Context, record *models.ApprovalWorkflowRecord, contentStatus models.ContentStatus, publishedAt *time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE content_approval_workflow
		SET status = $1, approved_by = $2, approved_at = $3, review_notes = $4, rejection_reason = $5, actual_completion = $6
		WHERE id = $7
	`, string(record.Status), record.ApprovedBy, record.ApprovedAt,
		record.ReviewNotes, record.RejectionReason, record.ActualCompletion, record.ID)
	if err != nil {
		_ = tx.Rollback()

		return persistence.NewStoreError("ApplyTransition", "content_approval_workflow", record.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE content_items SET status = $1, published_at = COALESCE($2, published_at) WHERE id = $3`,
		string(contentStatus), publishedAt, record.ContentItemID)
	if err != nil {
		_ = tx.Rollback()

		return persistence.NewStoreError("ApplyTransition", "content_items", record.ContentItemID, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit workflow transition: %w", err)
	}

	return nil
}

func scanWorkflowRecord(row rowScanner) (*models.ApprovalWorkflowRecord, error) {
	var (
		record     models.ApprovalWorkflowRecord
		approvedBy sql.NullString
		approvedAt sql.NullTime
		notes      sql.NullString
		reason     sql.NullString
		completion sql.NullTime
	)

	err := row.Scan(
		&record.ID,
		&record.ContentItemID,
		&record.Status,
		&approvedBy,
		&approvedAt,
		&notes,
		&reason,
		&completion,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		record.ApprovedBy = &approvedBy.String
	}

	if approvedAt.Valid {
		t := approvedAt.Time
		record.ApprovedAt = &t
	}

	record.ReviewNotes = notes.String
	record.RejectionReason = reason.String

	if completion.Valid {
		t := completion.Time
		record.ActualCompletion = &t
	}

	return &record, nil
}
