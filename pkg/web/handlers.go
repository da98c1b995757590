package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/ecoreach/contentflow/pkg/approval"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/orchestrator"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/programs"
	"github.com/ecoreach/contentflow/pkg/providers"
)

type Handlers struct {
	store        persistence.Store
	orchestrator *orchestrator.Orchestrator
	approval     *approval.Workflow
	programs     *programs.Service
	registry     *providers.Registry
	publisher    eventbus.EventPublisher
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewHandlers wires the HTTP handlers. publisher may be nil when no audit
// channel is configured.
func NewHandlers(
	store persistence.Store,
	orch *orchestrator.Orchestrator,
	approvalWorkflow *approval.Workflow,
	programService *programs.Service,
	registry *providers.Registry,
	publisher eventbus.EventPublisher,
	validate *validator.Validate,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		store:        store,
		orchestrator: orch,
		approval:     approvalWorkflow,
		programs:     programService,
		registry:     registry,
		publisher:    publisher,
		validator:    validate,
		logger:       logger.With("module", "web"),
	}
}

// Register mounts all routes on the app.
func (h *Handlers) Register(app *fiber.App) {
	app.All("/orchestrator", h.Orchestrate)
	app.All("/approval", h.Approval)
	app.All("/programs", h.Programs)

	app.Get("/content/:id", h.GetContent)

	app.Post("/generate/text", h.GenerateText)
	app.Post("/generate/image", h.GenerateImage)
	app.Post("/generate/audio", h.GenerateAudio)

	app.Get("/health", h.HealthCheck)
}

// Orchestrate dispatches the orchestrator actions: generate_content, status
// and trigger_weekly_content.
func (h *Handlers) Orchestrate(c fiber.Ctx) error {
	var req OrchestratorRequest

	if len(c.Body()) > 0 {
		err := c.Bind().Body(&req)
		if err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
	}

	action := req.Action
	if action == "" {
		action = c.Query("action")
	}

	switch action {
	case "generate_content":
		if req.Niche == "" {
			return badRequest(c, "niche is required")
		}

		result, err := h.orchestrator.GenerateContent(c.Context(), req.Niche, req.ContentType, req.RunSeo())
		if err != nil {
			return handleError(c, err)
		}

		return success(c, result)

	case "status":
		report, err := h.orchestrator.Status(c.Context())
		if err != nil {
			return handleError(c, err)
		}

		return success(c, report)

	case "trigger_weekly_content":
		result, err := h.orchestrator.TriggerWeekly(c.Context())
		if err != nil {
			return handleError(c, err)
		}

		return success(c, result)

	default:
		return badRequest(c, "unknown action: "+action)
	}
}

// Approval dispatches the approval actions: list, approve and reject.
func (h *Handlers) Approval(c fiber.Ctx) error {
	var req ApprovalRequest

	if len(c.Body()) > 0 {
		err := c.Bind().Body(&req)
		if err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
	}

	action := req.Action
	if action == "" {
		action = c.Query("action")
	}

	switch action {
	case "list":
		pending, err := h.approval.ListPending(c.Context())
		if err != nil {
			return handleError(c, err)
		}

		return success(c, fiber.Map{"pending": pending, "count": len(pending)})

	case "approve":
		if req.WorkflowID == "" {
			return badRequest(c, "workflow_id is required")
		}

		decision, err := h.approval.Approve(c.Context(), req.WorkflowID, req.ReviewerID, req.Notes)
		if err != nil {
			return handleError(c, err)
		}

		return success(c, decision)

	case "reject":
		if req.WorkflowID == "" {
			return badRequest(c, "workflow_id is required")
		}

		decision, err := h.approval.Reject(c.Context(), req.WorkflowID, req.ReviewerID, req.Reason)
		if err != nil {
			return handleError(c, err)
		}

		return success(c, decision)

	default:
		return badRequest(c, "unknown action: "+action)
	}
}

// Programs dispatches the program catalog actions: get_programs,
// apply_to_program and reject_program.
func (h *Handlers) Programs(c fiber.Ctx) error {
	var req ProgramRequest

	if len(c.Body()) > 0 {
		err := c.Bind().Body(&req)
		if err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
	}

	action := req.Action
	if action == "" {
		action = c.Query("action")
	}

	switch action {
	case "get_programs":
		listed, err := h.programs.List(c.Context())
		if err != nil {
			return handleError(c, err)
		}

		return success(c, fiber.Map{"programs": listed, "count": len(listed)})

	case "apply_to_program":
		if req.ProgramID == "" {
			return badRequest(c, "program_id is required")
		}

		program, err := h.programs.Apply(c.Context(), req.ProgramID)
		if err != nil {
			return handleError(c, err)
		}

		return success(c, program)

	case "reject_program":
		if req.ProgramID == "" {
			return badRequest(c, "program_id is required")
		}

		program, err := h.programs.Reject(c.Context(), req.ProgramID)
		if err != nil {
			return handleError(c, err)
		}

		return success(c, program)

	default:
		return badRequest(c, "unknown action: "+action)
	}
}

// GetContent returns one content item by id.
func (h *Handlers) GetContent(c fiber.Ctx) error {
	item, err := h.store.Content().GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return success(c, item)
}

// GenerateText proxies a single text generation call. Responses use the
// legacy bare data envelope.
func (h *Handlers) GenerateText(c fiber.Ctx) error {
	var req TextGenerationRequest

	err := c.Bind().Body(&req)
	if err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	generator, err := h.registry.Text(req.Provider)
	if err != nil {
		return badRequest(c, err.Error())
	}

	spec := providers.TextSpec{
		Topic:               req.Topic,
		ContentType:         req.ContentType,
		TargetAudience:      req.TargetAudience,
		Tone:                req.Tone,
		TargetWordCount:     req.WordCount,
		SeoKeywords:         req.SeoKeywords,
		SustainabilityFocus: req.SustainabilityFocus,
	}

	artifact, err := generator.GenerateText(c.Context(), spec)
	if err != nil {
		return handleError(c, err)
	}

	h.logGeneration(c, "text", spec.Prompt(), req.Tone, map[string]any{
		"provider":   generator.Name(),
		"word_count": req.WordCount,
	})

	return legacyData(c, artifact)
}

// GenerateImage proxies a single image generation call.
func (h *Handlers) GenerateImage(c fiber.Ctx) error {
	var req ImageGenerationRequest

	err := c.Bind().Body(&req)
	if err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	generator, err := h.registry.Image("")
	if err != nil {
		return badRequest(c, err.Error())
	}

	artifact, err := generator.GenerateImage(c.Context(), providers.ImageSpec{
		Prompt: req.Prompt,
		Style:  req.Style,
		Size:   req.Size,
	})
	if err != nil {
		return handleError(c, err)
	}

	h.logGeneration(c, "image", req.Prompt, req.Style, map[string]any{"size": req.Size})

	return legacyData(c, artifact)
}

// GenerateAudio proxies a single audio generation call.
func (h *Handlers) GenerateAudio(c fiber.Ctx) error {
	var req AudioGenerationRequest

	err := c.Bind().Body(&req)
	if err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	generator, err := h.registry.Audio("")
	if err != nil {
		return badRequest(c, err.Error())
	}

	artifact, err := generator.GenerateAudio(c.Context(), providers.AudioSpec{
		Text:  req.Text,
		Voice: req.Voice,
	})
	if err != nil {
		return handleError(c, err)
	}

	h.logGeneration(c, "audio", req.Text, req.Voice, nil)

	return legacyData(c, artifact)
}

// HealthCheck reports store reachability.
func (h *Handlers) HealthCheck(c fiber.Ctx) error {
	err := h.store.HealthCheck(c.Context())
	if err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

// logGeneration publishes a generation log event fire-and-forget.
func (h *Handlers) logGeneration(c fiber.Ctx, contentType, prompt, style string, parameters map[string]any) {
	if h.publisher == nil {
		return
	}

	now := time.Now().UTC()

	err := h.publisher.Publish(c.Context(), events.GenerationLogged{
		BaseEvent: events.BaseEvent{Type: events.GenerationLoggedEvent, Timestamp: now},
		Log: models.GenerationLog{
			ContentType: contentType,
			Prompt:      prompt,
			Style:       style,
			Parameters:  parameters,
			CreatedAt:   now,
		},
	})
	if err != nil {
		h.logger.Warn("failed to publish generation log", "error", err)
	}
}
