package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/ecoreach/contentflow/pkg/audit"
	"github.com/ecoreach/contentflow/pkg/cmd"
	"github.com/ecoreach/contentflow/pkg/log"
	"github.com/ecoreach/contentflow/pkg/sessions"
)

const defaultPort = 9090

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "contentflow-api",
		Usage:                 "Serve the content generation and approval API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database URL (postgres://, postgrest+https:// or memory://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Audit event bus provider (gochannel, kafka, none)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker list",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for recent-session tracking (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "text-provider",
				Usage:   "Default text provider (openai, anthropic, mistral)",
				Sources: cli.EnvVars("TEXT_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Contentflow API")

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

			eventBus, err := cmd.NewEventBus(
				command.String("event-bus"),
				command.String("kafka-brokers"),
				"contentflow-api",
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

			tracker := newTracker(command.String("redis-url"), logger)
			defer func() {
				err := tracker.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close session tracker", "error", err)
				}
			}()

			api := NewAPI(logger, store, registry, eventBus, tracker)

			return api.Start(ctx, command.Int("port"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("contentflow-api exited", "error", err)
		os.Exit(1)
	}
}

func newTracker(redisURL string, logger *slog.Logger) sessions.Tracker {
	if redisURL == "" {
		return sessions.NewMemoryTracker(sessions.DefaultWindow)
	}

	tracker, err := sessions.NewRedisTracker(redisURL, sessions.DefaultWindow)
	if err != nil {
		logger.Warn("invalid redis url, falling back to in-memory session tracking", "error", err)

		return sessions.NewMemoryTracker(sessions.DefaultWindow)
	}

	return tracker
}
