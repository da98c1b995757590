package approval

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedPending(t *testing.T, store *memory.Store) (contentID, workflowID string) {
	t.Helper()

	item := &models.ContentItem{
		Title:       "Composting for Beginners",
		ContentBody: "how to start a compost pile at home",
		ContentType: "article",
		Author:      "EcoReach Content Agent",
		Status:      models.ContentStatusPendingApproval,
		SeoData:     models.SeoData{TargetNiche: "Zero Waste Living"},
	}
	record := &models.ApprovalWorkflowRecord{Status: models.ApprovalStatusPending}

	err := store.Content().CreateWithWorkflow(t.Context(), item, record)
	require.NoError(t, err)

	return item.ID, record.ID
}

func TestApprovePublishesContent(t *testing.T) {
	store := memory.NewSeededStore()
	contentID, workflowID := seedPending(t, store)

	workflow := NewWorkflow(store, testLogger())

	decision, err := workflow.Approve(t.Context(), workflowID, "reviewer-1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, workflowID, decision.WorkflowID)
	assert.Equal(t, contentID, decision.ContentID)

	record := store.WorkflowForContent(contentID)
	require.NotNil(t, record)
	assert.Equal(t, models.ApprovalStatusApproved, record.Status)
	require.NotNil(t, record.ApprovedBy)
	assert.Equal(t, "reviewer-1", *record.ApprovedBy)
	assert.NotNil(t, record.ApprovedAt)
	assert.Equal(t, "looks good", record.ReviewNotes)

	item := store.ContentByID(contentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusPublished, item.Status)
	assert.NotNil(t, item.PublishedAt)
}

func TestRejectMarksContentRejected(t *testing.T) {
	store := memory.NewSeededStore()
	contentID, workflowID := seedPending(t, store)

	workflow := NewWorkflow(store, testLogger())

	_, err := workflow.Reject(t.Context(), workflowID, "reviewer-2", "off topic")
	require.NoError(t, err)

	record := store.WorkflowForContent(contentID)
	require.NotNil(t, record)
	assert.Equal(t, models.ApprovalStatusRejected, record.Status)
	assert.Equal(t, "off topic", record.RejectionReason)

	item := store.ContentByID(contentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusRejected, item.Status)
	assert.Nil(t, item.PublishedAt)
}

func TestDecisionOnTerminalRecordFails(t *testing.T) {
	store := memory.NewSeededStore()
	_, workflowID := seedPending(t, store)

	workflow := NewWorkflow(store, testLogger())

	_, err := workflow.Approve(t.Context(), workflowID, "reviewer-1", "")
	require.NoError(t, err)

	_, err = workflow.Reject(t.Context(), workflowID, "reviewer-2", "changed my mind")
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))

	_, err = workflow.Approve(t.Context(), workflowID, "reviewer-3", "again")
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))
}

func TestDecisionOnMissingWorkflow(t *testing.T) {
	store := memory.NewSeededStore()
	workflow := NewWorkflow(store, testLogger())

	_, err := workflow.Approve(t.Context(), "missing-id", "reviewer-1", "")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestListPendingJoinsContent(t *testing.T) {
	store := memory.NewSeededStore()
	contentID, workflowID := seedPending(t, store)

	workflow := NewWorkflow(store, testLogger())

	pending, err := workflow.ListPending(t.Context())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	assert.Equal(t, workflowID, pending[0].Workflow.ID)
	assert.Equal(t, contentID, pending[0].Content.ID)
	assert.Equal(t, "Composting for Beginners", pending[0].Content.Title)
	assert.Equal(t, "Zero Waste Living", pending[0].Content.TargetNiche)
	assert.Equal(t, 8, pending[0].Content.WordCount)

	_, err = workflow.Approve(t.Context(), workflowID, "reviewer-1", "")
	require.NoError(t, err)

	pending, err = workflow.ListPending(t.Context())
	require.NoError(t, err)
	assert.Empty(t, pending)
}