package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/models"
)

func TestGeneratedIDsAreUUIDv7(t *testing.T) {
	store := NewSeededStore()

	item := &models.ContentItem{Title: "Solar Basics", Status: models.ContentStatusPendingApproval}
	record := &models.ApprovalWorkflowRecord{Status: models.ApprovalStatusPending}

	err := store.Content().CreateWithWorkflow(t.Context(), item, record)
	require.NoError(t, err)

	for _, id := range []string{item.ID, record.ID} {
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}
}

func TestGeneratedIDsSortByCreationOrder(t *testing.T) {
	store := NewStore()

	first := &models.ContentItem{Title: "First"}
	second := &models.ContentItem{Title: "Second"}

	require.NoError(t, store.Content().CreateWithWorkflow(t.Context(), first, nil))
	require.NoError(t, store.Content().CreateWithWorkflow(t.Context(), second, nil))

	assert.Less(t, first.ID, second.ID)
}
