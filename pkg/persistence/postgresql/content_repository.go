package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
)

// ContentRepository handles content item database operations.
type ContentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *sql.DB, logger *slog.Logger) *ContentRepository {
	return &ContentRepository{db: db, logger: logger}
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	query := `
		SELECT
			id
		  , title
		  , content_body
		  , content_type
		  , author
		  , status
		  , seo_data
		  , engagement_metrics
		  , created_at
		  , published_at
		FROM content_items
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	item, err := scanContentItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoreError("GetByID", "content_items", id, persistence.ErrContentNotFound)
		}

		return nil, fmt.Errorf("failed to scan content item: %w", err)
	}

	return item, nil
}

// CreateWithWorkflow inserts the content item and, when record is not nil,
// its approval workflow record inside a single transaction.
func (r *ContentRepository) CreateWithWorkflow(ctx context.Context, item *models.ContentItem, record *models.ApprovalWorkflowRecord) error {
	now := time.Now().UTC()

	if item.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate content item ID: %w", err)
		}

		item.ID = id.String()
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	seoJSON, err := json.Marshal(item.SeoData)
	if err != nil {
		return fmt.Errorf("failed to marshal seo data: %w", err)
	}

	metricsJSON, err := json.Marshal(item.EngagementMetrics)
	if err != nil {
		return fmt.Errorf("failed to marshal engagement metrics: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content_items (id, title, content_body, content_type, author, status, seo_data, engagement_metrics, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, item.ID, item.Title, item.ContentBody, item.ContentType, item.Author,
		string(item.Status), seoJSON, metricsJSON, item.CreatedAt, item.PublishedAt)
	if err != nil {
		_ = tx.Rollback()

		return persistence.NewStoreError("CreateWithWorkflow", "content_items", item.ID, err)
	}

	if record != nil {
		if record.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				_ = tx.Rollback()

				return fmt.Errorf("failed to generate workflow record ID: %w", err)
			}

			record.ID = id.String()
		}

		record.ContentItemID = item.ID

		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO content_approval_workflow (id, content_item_id, status, review_notes, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, record.ID, record.ContentItemID, string(record.Status), record.ReviewNotes, record.CreatedAt)
		if err != nil {
			_ = tx.Rollback()

			return persistence.NewStoreError("CreateWithWorkflow", "content_approval_workflow", record.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit content creation: %w", err)
	}

	return nil
}

func (r *ContentRepository) UpdateSeoData(ctx context.Context, id string, seo models.SeoData) error {
	seoJSON, err := json.Marshal(seo)
	if err != nil {
		return fmt.Errorf("failed to marshal seo data: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `UPDATE content_items SET seo_data = $1 WHERE id = $2`, seoJSON, id)
	if err != nil {
		return persistence.NewStoreError("UpdateSeoData", "content_items", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewStoreError("UpdateSeoData", "content_items", id, persistence.ErrContentNotFound)
	}

	return nil
}

func (r *ContentRepository) SetStatus(ctx context.Context, id string, status models.ContentStatus, publishedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE content_items SET status = $1, published_at = COALESCE($2, published_at) WHERE id = $3`,
		string(status), publishedAt, id)
	if err != nil {
		return persistence.NewStoreError("SetStatus", "content_items", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewStoreError("SetStatus", "content_items", id, persistence.ErrContentNotFound)
	}

	return nil
}

// Delete removes a content item. The pipeline only uses this as the
// compensating write when a paired workflow insert fails on stores without
// transactions; the SQL adapter keeps it for interface completeness.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return persistence.NewStoreError("Delete", "content_items", id, err)
	}

	return nil
}

func scanContentItem(row rowScanner) (*models.ContentItem, error) {
	var (
		item        models.ContentItem
		seoJSON     []byte
		metricsJSON []byte
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.ContentBody,
		&item.ContentType,
		&item.Author,
		&item.Status,
		&seoJSON,
		&metricsJSON,
		&item.CreatedAt,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(seoJSON) > 0 {
		err = json.Unmarshal(seoJSON, &item.SeoData)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal seo data: %w", err)
		}
	}

	if len(metricsJSON) > 0 {
		err = json.Unmarshal(metricsJSON, &item.EngagementMetrics)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal engagement metrics: %w", err)
		}
	}

	if publishedAt.Valid {
		t := publishedAt.Time
		item.PublishedAt = &t
	}

	return &item, nil
}
