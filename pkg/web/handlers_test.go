package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/approval"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/orchestrator"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
	"github.com/ecoreach/contentflow/pkg/programs"
	"github.com/ecoreach/contentflow/pkg/providers"
	"github.com/ecoreach/contentflow/pkg/sessions"
)

const testSeoJSON = `{
	"meta_title": "Testing Title",
	"meta_description": "Testing description.",
	"focus_keywords": ["testing"],
	"seo_score": 70
}`

type stubText struct{}

func (s *stubText) Name() string {
	return "stub"
}

func (s *stubText) GenerateText(_ context.Context, spec providers.TextSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Title:    "Generated Title",
		Content:  strings.Repeat("generated words ", 50),
		Provider: "stub",
	}, nil
}

func (s *stubText) Complete(_ context.Context, _ string) (*providers.Artifact, error) {
	return &providers.Artifact{Kind: providers.KindText, Content: testSeoJSON, Provider: "stub"}, nil
}

type stubImage struct{}

func (s *stubImage) Name() string {
	return "stub-image"
}

func (s *stubImage) GenerateImage(_ context.Context, spec providers.ImageSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	return &providers.Artifact{Kind: providers.KindImage, Content: "https://img.example/x.png", Provider: "stub-image"}, nil
}

type stubAudio struct{}

func (s *stubAudio) Name() string {
	return "stub-audio"
}

func (s *stubAudio) GenerateAudio(_ context.Context, spec providers.AudioSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	return &providers.Artifact{Kind: providers.KindAudio, Content: "base64-audio", Provider: "stub-audio"}, nil
}

func newTestApp(store *memory.Store) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	text := &stubText{}

	registry := providers.NewRegistry()
	registry.RegisterText(text)
	registry.RegisterImage(&stubImage{})
	registry.RegisterAudio(&stubAudio{})

	creator := agents.NewContentCreation(store, text, logger)
	optimizer := agents.NewSeoOptimization(store, text, logger)
	orch := orchestrator.NewOrchestrator(store, creator, optimizer, sessions.NewMemoryTracker(time.Hour), nil, logger)

	handlers := NewHandlers(
		store,
		orch,
		approval.NewWorkflow(store, logger),
		programs.NewService(store, logger),
		registry,
		nil,
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
	)

	app := fiber.New()
	handlers.Register(app)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer resp.Body.Close()

	var decoded map[string]any

	err := json.NewDecoder(resp.Body).Decode(&decoded)
	require.NoError(t, err)

	return decoded
}

func TestOrchestratorGenerateContent(t *testing.T) {
	store := memory.NewSeededStore()
	app := newTestApp(store)

	resp, body := postJSON(t, app, "/orchestrator", OrchestratorRequest{
		Action:      "generate_content",
		Niche:       "Renewable Energy",
		ContentType: "article",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	contentID := data["content_id"].(string)
	require.NotEmpty(t, contentID)
	assert.Equal(t, true, data["seo_optimized"])

	// The created item is fetchable and pending approval with merged SEO data.
	resp, body = getJSON(t, app, "/content/"+contentID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	item := body["data"].(map[string]any)
	assert.Equal(t, string(models.ContentStatusPendingApproval), item["status"])
	seo := item["seo_data"].(map[string]any)
	assert.Equal(t, "Testing Title", seo["meta_title"])
}

func TestOrchestratorRequiresNiche(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := postJSON(t, app, "/orchestrator", OrchestratorRequest{Action: "generate_content"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, "invalid_parameter", errBody["code"])
	assert.NotEmpty(t, errBody["timestamp"])
}

func TestOrchestratorUnknownAction(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, _ := postJSON(t, app, "/orchestrator", OrchestratorRequest{Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrchestratorStatusViaQuery(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := getJSON(t, app, "/orchestrator?action=status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["agents"])
}

func TestApprovalFlow(t *testing.T) {
	store := memory.NewSeededStore()
	app := newTestApp(store)

	_, body := postJSON(t, app, "/orchestrator", OrchestratorRequest{
		Action: "generate_content",
		Niche:  "Sustainable Fashion",
	})
	contentID := body["data"].(map[string]any)["content_id"].(string)

	_, body = postJSON(t, app, "/approval", ApprovalRequest{Action: "list"})
	pending := body["data"].(map[string]any)["pending"].([]any)
	require.Len(t, pending, 1)
	workflowID := pending[0].(map[string]any)["workflow"].(map[string]any)["id"].(string)

	resp, _ := postJSON(t, app, "/approval", ApprovalRequest{
		Action:     "approve",
		WorkflowID: workflowID,
		ReviewerID: "reviewer-1",
		Notes:      "ship it",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	item := store.ContentByID(contentID)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusPublished, item.Status)
	assert.NotNil(t, item.PublishedAt)

	// Deciding again conflicts.
	resp, body = postJSON(t, app, "/approval", ApprovalRequest{
		Action:     "reject",
		WorkflowID: workflowID,
		ReviewerID: "reviewer-2",
		Reason:     "never mind",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_state_transition", body["error"].(map[string]any)["code"])
}

func TestApprovalUnknownWorkflow(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := postJSON(t, app, "/approval", ApprovalRequest{
		Action:     "approve",
		WorkflowID: "missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"].(map[string]any)["code"])
}

func TestProgramActions(t *testing.T) {
	store := memory.NewSeededStore()
	program := store.AddProgram(&models.Program{
		Name:   "Green Energy Partners",
		Status: models.ProgramStatusNotApplied,
	})
	app := newTestApp(store)

	resp, body := postJSON(t, app, "/programs", ProgramRequest{Action: "get_programs"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["count"])

	resp, body = postJSON(t, app, "/programs", ProgramRequest{
		Action:    "apply_to_program",
		ProgramID: program.ID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.ProgramStatusPending), body["data"].(map[string]any)["status"])
}

func TestGenerateTextWordCountValidation(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	for _, wordCount := range []int{50, 20000} {
		resp, body := postJSON(t, app, "/generate/text", TextGenerationRequest{
			Topic:     "solar power",
			WordCount: wordCount,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_parameter", body["error"].(map[string]any)["code"])
	}

	resp, body := postJSON(t, app, "/generate/text", TextGenerationRequest{
		Topic:     "solar power",
		WordCount: 1000,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Legacy envelope: bare data, no success flag.
	_, hasSuccess := body["success"]
	assert.False(t, hasSuccess)
	assert.Equal(t, "Generated Title", body["data"].(map[string]any)["title"])
}

func TestGenerateImageAndAudio(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := postJSON(t, app, "/generate/image", ImageGenerationRequest{Prompt: "a wind farm"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(providers.KindImage), body["data"].(map[string]any)["kind"])

	resp, _ = postJSON(t, app, "/generate/audio", AudioGenerationRequest{Text: "hello world"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/generate/audio", AudioGenerationRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContentNotFound(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := getJSON(t, app, "/content/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"].(map[string]any)["code"])
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(memory.NewSeededStore())

	resp, body := getJSON(t, app, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}
