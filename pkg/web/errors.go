package web

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/approval"
	"github.com/ecoreach/contentflow/pkg/orchestrator"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/providers"
)

// success wraps data in the standard success envelope.
func success(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// legacyData is the bare envelope kept for the generator proxy endpoints.
func legacyData(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func errorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":      code,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return errorResponse(c, fiber.StatusBadRequest, "invalid_parameter", message)
}

// handleError maps the pipeline's error taxonomy onto HTTP statuses and
// envelope codes.
func handleError(c fiber.Ctx, err error) error {
	switch {
	case providers.IsInvalidParameter(err):
		return errorResponse(c, fiber.StatusBadRequest, "invalid_parameter", err.Error())

	case orchestrator.IsNoNichesConfigured(err):
		return errorResponse(c, fiber.StatusBadRequest, "no_niches_configured", err.Error())

	case approval.IsInvalidTransition(err):
		return errorResponse(c, fiber.StatusConflict, "invalid_state_transition", err.Error())

	case agents.IsAgentNotFound(err),
		persistence.IsAgentNotFound(err),
		persistence.IsContentNotFound(err),
		persistence.IsWorkflowNotFound(err),
		persistence.IsProgramNotFound(err):
		return errorResponse(c, fiber.StatusNotFound, "not_found", err.Error())

	case providers.IsMissingCredentials(err):
		return errorResponse(c, fiber.StatusInternalServerError, "configuration_error", err.Error())

	case providers.IsTimeout(err):
		return errorResponse(c, fiber.StatusGatewayTimeout, "provider_timeout", err.Error())

	case providers.IsProviderError(err):
		return errorResponse(c, fiber.StatusBadGateway, "provider_error", err.Error())

	default:
		return errorResponse(c, fiber.StatusInternalServerError, "internal_error", err.Error())
	}
}
