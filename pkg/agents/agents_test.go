package agents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
	"github.com/ecoreach/contentflow/pkg/providers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedText returns canned artifacts, optionally failing every call.
type scriptedText struct {
	title      string
	body       string
	completion string
	err        error
	calls      int
}

func (s *scriptedText) Name() string {
	return "scripted"
}

func (s *scriptedText) GenerateText(_ context.Context, spec providers.TextSpec) (*providers.Artifact, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Title:    s.title,
		Content:  s.body,
		Provider: "scripted",
	}, nil
}

func (s *scriptedText) Complete(_ context.Context, _ string) (*providers.Artifact, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Content:  s.completion,
		Provider: "scripted",
	}, nil
}

func TestCreateContentWithApproval(t *testing.T) {
	store := memory.NewSeededStore()
	generator := &scriptedText{title: "Solar Power at Home", body: strings.Repeat("solar energy saves money ", 60)}
	agent := NewContentCreation(store, generator, testLogger())

	result, err := agent.CreateContent(t.Context(), "Renewable Energy", "article", true)
	require.NoError(t, err)
	require.NotEmpty(t, result.ContentID)
	assert.Equal(t, "Solar Power at Home", result.Title)
	assert.Equal(t, 240, result.WordCount)

	item := store.ContentByID(result.ContentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusPendingApproval, item.Status)
	assert.Equal(t, "Renewable Energy", item.SeoData.TargetNiche)
	assert.Equal(t, 240, item.EngagementMetrics.WordCount)

	workflow := store.WorkflowForContent(result.ContentID)
	require.NotNil(t, workflow)
	assert.Equal(t, models.ApprovalStatusPending, workflow.Status)
	assert.Equal(t, result.ContentID, workflow.ContentItemID)
}

func TestCreateContentDraftSkipsWorkflow(t *testing.T) {
	store := memory.NewSeededStore()
	generator := &scriptedText{title: "Draft", body: "short body"}
	agent := NewContentCreation(store, generator, testLogger())

	result, err := agent.CreateContent(t.Context(), "Zero Waste Living", "", false)
	require.NoError(t, err)

	item := store.ContentByID(result.ContentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusDraft, item.Status)
	assert.Equal(t, "article", item.ContentType)
	assert.Nil(t, store.WorkflowForContent(result.ContentID))
}

func TestCreateContentProviderFailure(t *testing.T) {
	store := memory.NewSeededStore()
	generator := &scriptedText{err: &providers.ProviderError{Provider: "scripted", Status: 500, Message: "boom"}}
	agent := NewContentCreation(store, generator, testLogger())

	_, err := agent.CreateContent(t.Context(), "Renewable Energy", "article", true)
	require.Error(t, err)
	assert.True(t, IsContentGenerationFailed(err))
	assert.True(t, providers.IsProviderError(err))
}

func TestCreateForAgentSkipsRegistryLookup(t *testing.T) {
	store := memory.NewSeededStore()
	generator := &scriptedText{title: "Wind Power Basics", body: "wind body"}
	agent := NewContentCreation(store, generator, testLogger())

	config, err := agent.Config(t.Context())
	require.NoError(t, err)

	result, err := agent.CreateForAgent(t.Context(), config, "Renewable Energy", "article", true)
	require.NoError(t, err)
	assert.Equal(t, "Wind Power Basics", result.Title)

	// Only the explicit Config call above hit the registry.
	assert.Equal(t, 1, store.AgentLookups())
}

func TestCreateContentCompensatesOnWorkflowFailure(t *testing.T) {
	store := memory.NewSeededStore()
	store.FailWorkflowInsert = true

	generator := &scriptedText{title: "Solar Power at Home", body: "solar body"}
	agent := NewContentCreation(store, generator, testLogger())

	_, err := agent.CreateContent(t.Context(), "Renewable Energy", "article", true)
	require.Error(t, err)
	assert.True(t, persistence.IsStoreError(err))

	// The paired write failed, so no orphaned content row survives.
	items := store.ContentItems()
	assert.Empty(t, items)
}

func TestCreateContentAgentMissing(t *testing.T) {
	store := memory.NewStore() // no seeded agents
	agent := NewContentCreation(store, &scriptedText{}, testLogger())

	_, err := agent.CreateContent(t.Context(), "Renewable Energy", "article", true)
	require.Error(t, err)
	assert.True(t, IsAgentNotFound(err))
}

const validSeoJSON = `{
	"meta_title": "Solar Power at Home",
	"meta_description": "How residential solar cuts bills and emissions.",
	"focus_keywords": ["solar", "renewable energy", "home energy"],
	"headers": {"h2": ["Why solar", "Getting started"]},
	"seo_score": 88,
	"recommendations": ["Add internal links"]
}`

func seededContent(t *testing.T, store *memory.Store, body string) string {
	t.Helper()

	item := &models.ContentItem{
		Title:       "Solar Power at Home: The Complete Homeowner Guide to Panels and Savings",
		ContentBody: body,
		ContentType: "article",
		Status:      models.ContentStatusPendingApproval,
		SeoData:     models.SeoData{TargetNiche: "Renewable Energy"},
	}

	err := store.Content().CreateWithWorkflow(t.Context(), item, nil)
	require.NoError(t, err)

	return item.ID
}

func TestOptimizeMergesProviderResponse(t *testing.T) {
	store := memory.NewSeededStore()
	body := strings.Repeat("word ", 97) + "solar solar solar"
	contentID := seededContent(t, store, body)

	generator := &scriptedText{completion: "Here is the analysis:\n```json\n" + validSeoJSON + "\n```"}
	agent := NewSeoOptimization(store, generator, testLogger())

	result, err := agent.Optimize(t.Context(), contentID)
	require.NoError(t, err)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, "Solar Power at Home", result.MetaTitle)
	assert.Equal(t, 88, result.SeoScore)
	assert.Equal(t, []string{"solar", "renewable energy", "home energy"}, result.FocusKeywords)
	assert.InDelta(t, 0.03, result.KeywordDensity["solar"], 1e-12)

	item := store.ContentByID(contentID)
	require.NotNil(t, item)
	assert.Equal(t, "Renewable Energy", item.SeoData.TargetNiche)
	assert.Equal(t, 88, item.SeoData.SeoScore)
	require.NotNil(t, item.SeoData.OptimizedAt)
}

func TestOptimizeFallbackOnUnparsableResponse(t *testing.T) {
	store := memory.NewSeededStore()
	contentID := seededContent(t, store, "some body text")

	generator := &scriptedText{completion: "I cannot produce JSON today, sorry."}
	agent := NewSeoOptimization(store, generator, testLogger())

	result, err := agent.Optimize(t.Context(), contentID)
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, fallbackSeoScore, result.SeoScore)
	assert.Equal(t, []string{"Renewable Energy"}, result.FocusKeywords)
	assert.Len(t, result.MetaTitle, maxMetaTitleLength)
}

func TestOptimizeFallbackOnSchemaViolation(t *testing.T) {
	store := memory.NewSeededStore()
	contentID := seededContent(t, store, "some body text")

	// meta_title over 60 chars fails validation even though it parses.
	generator := &scriptedText{completion: `{"meta_title": "` + strings.Repeat("x", 80) +
		`", "meta_description": "d", "focus_keywords": ["a"], "seo_score": 90}`}
	agent := NewSeoOptimization(store, generator, testLogger())

	result, err := agent.Optimize(t.Context(), contentID)
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, fallbackSeoScore, result.SeoScore)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	store := memory.NewSeededStore()
	contentID := seededContent(t, store, strings.Repeat("solar power ", 50))

	generator := &scriptedText{completion: validSeoJSON}
	agent := NewSeoOptimization(store, generator, testLogger())

	first, err := agent.Optimize(t.Context(), contentID)
	require.NoError(t, err)

	second, err := agent.Optimize(t.Context(), contentID)
	require.NoError(t, err)

	assert.Equal(t, first.FocusKeywords, second.FocusKeywords)
	assert.Equal(t, first.SeoScore, second.SeoScore)

	item := store.ContentByID(contentID)
	require.NotNil(t, item)
	assert.Equal(t, "Renewable Energy", item.SeoData.TargetNiche)
}

func TestOptimizeUnknownContent(t *testing.T) {
	store := memory.NewSeededStore()
	agent := NewSeoOptimization(store, &scriptedText{}, testLogger())

	_, err := agent.Optimize(t.Context(), "missing-id")
	require.Error(t, err)
	assert.True(t, persistence.IsContentNotFound(err))
}

func TestOptimizePropagatesProviderError(t *testing.T) {
	store := memory.NewSeededStore()
	contentID := seededContent(t, store, "body")

	providerErr := errors.New("upstream down")
	agent := NewSeoOptimization(store, &scriptedText{err: providerErr}, testLogger())

	_, err := agent.Optimize(t.Context(), contentID)
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
}

func TestKeywordDensity(t *testing.T) {
	body := strings.Repeat("word ", 97) + "solar solar solar"

	density := keywordDensity(body, []string{"Solar", "missing"})
	assert.InDelta(t, 0.03, density["Solar"], 1e-12)
	assert.Zero(t, density["missing"])

	assert.Nil(t, keywordDensity("", []string{"solar"}))
	assert.Nil(t, keywordDensity(body, nil))
}
