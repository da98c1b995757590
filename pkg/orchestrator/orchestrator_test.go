package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/mocks"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
	"github.com/ecoreach/contentflow/pkg/providers"
	"github.com/ecoreach/contentflow/pkg/sessions"
)

const seoJSON = `{
	"meta_title": "Renewable Energy Basics",
	"meta_description": "A primer on renewable energy at home.",
	"focus_keywords": ["renewable", "solar", "wind"],
	"seo_score": 82
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyText fails specific provider calls, counted across GenerateText and
// Complete.
type flakyText struct {
	failCalls map[int]bool
	calls     int
}

func (f *flakyText) Name() string {
	return "flaky"
}

func (f *flakyText) GenerateText(_ context.Context, _ providers.TextSpec) (*providers.Artifact, error) {
	f.calls++

	if f.failCalls[f.calls] {
		return nil, &providers.ProviderError{Provider: "flaky", Status: 500, Message: "synthetic failure"}
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Title:    "Generated Piece",
		Content:  strings.Repeat("renewable power ", 100),
		Provider: "flaky",
	}, nil
}

func (f *flakyText) Complete(_ context.Context, _ string) (*providers.Artifact, error) {
	f.calls++

	if f.failCalls[f.calls] {
		return nil, &providers.ProviderError{Provider: "flaky", Status: 500, Message: "synthetic failure"}
	}

	return &providers.Artifact{Kind: providers.KindText, Content: seoJSON, Provider: "flaky"}, nil
}

func newOrchestrator(store *memory.Store, text providers.TextGenerator, tracker sessions.Tracker) *Orchestrator {
	logger := testLogger()
	creator := agents.NewContentCreation(store, text, logger)
	optimizer := agents.NewSeoOptimization(store, text, logger)

	return NewOrchestrator(store, creator, optimizer, tracker, nil, logger)
}

func TestGenerateContentEndToEnd(t *testing.T) {
	store := memory.NewSeededStore()
	tracker := sessions.NewMemoryTracker(time.Hour)
	orch := newOrchestrator(store, &flakyText{}, tracker)

	result, err := orch.GenerateContent(t.Context(), "Renewable Energy", "article", true)
	require.NoError(t, err)
	require.NotEmpty(t, result.ContentID)
	assert.True(t, result.SeoOptimized)
	assert.Equal(t, 82, result.SeoScore)
	assert.Empty(t, result.SeoError)

	item := store.ContentByID(result.ContentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusPendingApproval, item.Status)
	assert.NotEmpty(t, item.SeoData.MetaTitle)

	entries := store.TaskEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.TaskStatusCompleted, entries[0].Status)
	assert.Equal(t, "generate_content", entries[0].TaskType)
	assert.Equal(t, result.ContentID, entries[0].TaskPayload["content_id"])

	count, err := tracker.RecentCount(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerateContentSeoFailureIsNonFatal(t *testing.T) {
	store := memory.NewSeededStore()
	// Call 1 is creation, call 2 the SEO analysis.
	orch := newOrchestrator(store, &flakyText{failCalls: map[int]bool{2: true}}, nil)

	result, err := orch.GenerateContent(t.Context(), "Renewable Energy", "article", true)
	require.NoError(t, err)
	assert.False(t, result.SeoOptimized)
	assert.NotEmpty(t, result.SeoError)

	entries := store.TaskEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.TaskStatusCompleted, entries[0].Status)
	assert.Equal(t, false, entries[0].TaskPayload["seo_optimized"])
}

func TestGenerateContentCreationFailure(t *testing.T) {
	store := memory.NewSeededStore()
	orch := newOrchestrator(store, &flakyText{failCalls: map[int]bool{1: true}}, nil)

	_, err := orch.GenerateContent(t.Context(), "Renewable Energy", "article", true)
	require.Error(t, err)
	assert.True(t, agents.IsContentGenerationFailed(err))
	assert.Empty(t, store.TaskEntries())
}

func TestGenerateContentLoadsAgentOnce(t *testing.T) {
	store := memory.NewSeededStore()
	orch := newOrchestrator(store, &flakyText{}, nil)

	_, err := orch.GenerateContent(t.Context(), "Renewable Energy", "article", true)
	require.NoError(t, err)
	assert.Equal(t, 1, store.AgentLookups())
}

func TestGenerateContentPublishesTaskCompleted(t *testing.T) {
	store := memory.NewSeededStore()
	logger := testLogger()

	text := &mocks.MockTextGenerator{}
	text.On("Name").Return("mocked")
	text.On("GenerateText", mock.Anything, mock.Anything).Return(&providers.Artifact{
		Kind:     providers.KindText,
		Title:    "Heat Pumps Explained",
		Content:  strings.Repeat("heat pump ", 120),
		Provider: "mocked",
	}, nil)
	text.On("Complete", mock.Anything, mock.Anything).Return(&providers.Artifact{
		Kind:     providers.KindText,
		Content:  seoJSON,
		Provider: "mocked",
	}, nil)

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(event events.Event) bool {
		return event.GetType() == events.TaskCompletedEvent
	})).Return(nil)

	creator := agents.NewContentCreation(store, text, logger)
	optimizer := agents.NewSeoOptimization(store, text, logger)
	orch := NewOrchestrator(store, creator, optimizer, nil, bus, logger)

	result, err := orch.GenerateContent(t.Context(), "Green Tech", "article", true)
	require.NoError(t, err)
	assert.Equal(t, "Heat Pumps Explained", result.Title)

	bus.AssertExpectations(t)
	text.AssertExpectations(t)
}

func TestStatusAggregatesCounts(t *testing.T) {
	store := memory.NewSeededStore()
	tracker := sessions.NewMemoryTracker(time.Hour)
	orch := newOrchestrator(store, &flakyText{}, tracker)

	_, err := orch.GenerateContent(t.Context(), "Renewable Energy", "article", false)
	require.NoError(t, err)

	status, err := orch.Status(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Agents)
	assert.Zero(t, status.PendingTasks) // completed entries are not pending
	assert.Equal(t, 1, status.RecentSessions)
	assert.False(t, status.Timestamp.IsZero())
}

func TestTriggerWeeklyPicksConfiguredNiche(t *testing.T) {
	store := memory.NewSeededStore()
	orch := newOrchestrator(store, &flakyText{}, nil)

	result, err := orch.TriggerWeekly(t.Context())
	require.NoError(t, err)
	assert.Contains(t, models.DefaultNiches, result.Niche)
}

func TestTriggerWeeklyWithoutNiches(t *testing.T) {
	store := memory.NewStore()
	store.AddAgent(&models.Agent{
		Name:   "Content Creation Agent",
		Role:   models.AgentRoleContentCreation,
		Status: models.AgentStatusActive,
	})

	orch := newOrchestrator(store, &flakyText{}, nil)

	_, err := orch.TriggerWeekly(t.Context())
	require.Error(t, err)
	assert.True(t, IsNoNichesConfigured(err))
}

func TestRunDailyBatchOutcomes(t *testing.T) {
	store := memory.NewSeededStore()
	logger := testLogger()

	// Six provider calls per clean batch of three (create + optimize each).
	// Failing call 2 sinks the first iteration's optimization only.
	text := &flakyText{failCalls: map[int]bool{2: true}}
	creator := agents.NewContentCreation(store, text, logger)
	optimizer := agents.NewSeoOptimization(store, text, logger)
	runner := NewDailyBatchRunner(store, creator, optimizer, nil, logger)

	report, err := runner.RunDaily(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Planned)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, OutcomeFailed, report.Outcomes[0].Status)
	assert.NotEmpty(t, report.Outcomes[0].Error)
	assert.Equal(t, OutcomeSuccess, report.Outcomes[1].Status)
	assert.Equal(t, OutcomeSuccess, report.Outcomes[2].Status)

	activities := store.Activities()
	require.Len(t, activities, 1)
	assert.Equal(t, "daily_batch", activities[0].ActivityType)
	assert.Equal(t, 2, activities[0].Metadata["succeeded"])
	assert.Equal(t, 1, activities[0].Metadata["failed"])

	agentRow, err := store.Agents().GetByRole(t.Context(), models.AgentRoleContentCreation)
	require.NoError(t, err)
	assert.NotNil(t, agentRow.LastRun)
}
