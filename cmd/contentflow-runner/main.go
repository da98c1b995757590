// Package main provides the contentflow scheduler: the daily batch and the
// weekly content trigger.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecoreach/contentflow/pkg/agents"
	"github.com/ecoreach/contentflow/pkg/audit"
	"github.com/ecoreach/contentflow/pkg/cmd"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/log"
	"github.com/ecoreach/contentflow/pkg/orchestrator"
	"github.com/ecoreach/contentflow/pkg/otelhelper"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/providers"
)

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("runner")

	command := &cli.Command{
		Name:                  "contentflow-runner",
		Usage:                 "Run the scheduled daily batch and weekly content trigger",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database URL (postgres://, postgrest+https:// or memory://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Audit event bus provider (gochannel, kafka, none)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker list",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "text-provider",
				Usage:   "Default text provider (openai, anthropic, mistral)",
				Sources: cli.EnvVars("TEXT_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "daily-schedule",
				Usage:   "Cron expression for the daily batch",
				Value:   "0 6 * * *",
				Sources: cli.EnvVars("DAILY_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "weekly-schedule",
				Usage:   "Cron expression for the weekly content trigger",
				Value:   "0 8 * * 1",
				Sources: cli.EnvVars("WEEKLY_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:  "once",
				Usage: "Run a single job (daily or weekly) and exit instead of scheduling",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("contentflow-runner exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("runner")

	logger.InfoContext(ctx, "Initializing Contentflow runner")

	store, err := cmd.NewStore(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		err := store.Close(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close store", "error", err)
		}
	}()

	registry, err := cmd.NewProviderRegistry(command.String("text-provider"), logger)
	if err != nil {
		return err
	}

	text, err := registry.Text("")
	if err != nil {
		return err
	}

	eventBus, err := cmd.NewEventBus(
		command.String("event-bus"),
		command.String("kafka-brokers"),
		"contentflow-runner",
		logger,
	)
	if err != nil {
		return err
	}

	if eventBus != nil {
		defer func() {
			err := eventBus.Close()
			if err != nil {
				logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
			}
		}()

		subscriber := audit.NewSubscriber(store, logger)

		err = subscriber.Start(ctx, eventBus)
		if err != nil {
			return err
		}
	}

	tracer, err := otelhelper.NewTracer(ctx, "contentflow-runner")
	if err != nil {
		logger.WarnContext(ctx, "tracing disabled", "error", err)

		tracer = nil
	}

	jobs := newJobs(store, text, eventBus, tracer, logger)

	switch command.String("once") {
	case "daily":
		return jobs.runDaily(ctx)
	case "weekly":
		return jobs.runWeekly(ctx)
	case "":
		return schedule(ctx, command, jobs, logger)
	default:
		return fmt.Errorf("unknown job %q, expected daily or weekly", command.String("once"))
	}
}

func schedule(ctx context.Context, command *cli.Command, jobs *jobs, logger *slog.Logger) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(command.String("daily-schedule"), func() {
		err := jobs.runDaily(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "daily batch failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid daily schedule: %w", err)
	}

	_, err = scheduler.AddFunc(command.String("weekly-schedule"), func() {
		err := jobs.runWeekly(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "weekly trigger failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid weekly schedule: %w", err)
	}

	scheduler.Start()

	logger.InfoContext(ctx, "scheduler started",
		"daily", command.String("daily-schedule"),
		"weekly", command.String("weekly-schedule"))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-signals:
	}

	stopped := scheduler.Stop()
	<-stopped.Done()

	return nil
}

type jobs struct {
	runner       *orchestrator.DailyBatchRunner
	orchestrator *orchestrator.Orchestrator
	tracer       trace.Tracer
	logger       *slog.Logger
}

func newJobs(
	store persistence.Store,
	text providers.TextGenerator,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	logger *slog.Logger,
) *jobs {
	creator := agents.NewContentCreation(store, text, logger)
	optimizer := agents.NewSeoOptimization(store, text, logger)

	var publisher eventbus.EventPublisher
	if eventBus != nil {
		publisher = eventBus
	}

	return &jobs{
		runner:       orchestrator.NewDailyBatchRunner(store, creator, optimizer, publisher, logger),
		orchestrator: orchestrator.NewOrchestrator(store, creator, optimizer, nil, publisher, logger),
		tracer:       tracer,
		logger:       logger,
	}
}

func (j *jobs) runDaily(ctx context.Context) error {
	if j.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, j.tracer, "daily_batch")
		defer span.End()
	}

	report, err := j.runner.RunDaily(ctx)
	if err != nil {
		if j.tracer != nil {
			otelhelper.SetError(trace.SpanFromContext(ctx), err,
				attribute.String(otelhelper.TaskTypeKey, "daily_batch"))
		}

		return err
	}

	if j.tracer != nil {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int(otelhelper.BatchPlannedKey, report.Planned))
	}

	j.logger.InfoContext(ctx, "daily batch report",
		"planned", report.Planned, "succeeded", report.Succeeded, "failed", report.Failed)

	return nil
}

func (j *jobs) runWeekly(ctx context.Context) error {
	if j.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, j.tracer, "weekly_trigger")
		defer span.End()
	}

	result, err := j.orchestrator.TriggerWeekly(ctx)
	if err != nil {
		if j.tracer != nil {
			otelhelper.SetError(trace.SpanFromContext(ctx), err,
				attribute.String(otelhelper.TaskTypeKey, "weekly_trigger"))
		}

		return err
	}

	j.logger.InfoContext(ctx, "weekly content generated",
		"content_id", result.ContentID, "niche", result.Niche)

	if j.tracer != nil {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String(otelhelper.ContentIDKey, result.ContentID),
			attribute.String(otelhelper.NicheKey, result.Niche),
		)
	}

	return nil
}
