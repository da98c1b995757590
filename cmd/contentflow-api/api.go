// Package main provides the contentflow API server.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/approval"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/orchestrator"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/programs"
	"github.com/ecoreach/contentflow/pkg/providers"
	"github.com/ecoreach/contentflow/pkg/sessions"
	"github.com/ecoreach/contentflow/pkg/web"
)

type API struct {
	logger   *slog.Logger
	store    persistence.Store
	registry *providers.Registry
	eventBus eventbus.EventBus
	tracker  sessions.Tracker
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Store,
	registry *providers.Registry,
	eventBus eventbus.EventBus,
	tracker sessions.Tracker,
) *API {
	return &API{
		logger:   logger,
		store:    store,
		registry: registry,
		eventBus: eventBus,
		tracker:  tracker,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App(ctx context.Context) (*fiber.App, error) {
	text, err := a.registry.Text("")
	if err != nil {
		return nil, err
	}

	creator := agents.NewContentCreation(a.store, text, a.logger)
	optimizer := agents.NewSeoOptimization(a.store, text, a.logger)

	var publisher eventbus.EventPublisher
	if a.eventBus != nil {
		publisher = a.eventBus
	}

	orch := orchestrator.NewOrchestrator(a.store, creator, optimizer, a.tracker, publisher, a.logger)
	handlers := web.NewHandlers(
		a.store,
		orch,
		approval.NewWorkflow(a.store, a.logger),
		programs.NewService(a.store, a.logger),
		a.registry,
		publisher,
		a.validate,
		a.logger,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Contentflow API")
	})

	handlers.Register(app)

	return app, nil
}

func (a *API) Start(ctx context.Context, port int) error {
	app, err := a.App(ctx)
	if err != nil {
		return err
	}

	return app.Listen(":" + strconv.Itoa(port))
}
