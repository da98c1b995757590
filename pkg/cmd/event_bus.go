package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/ecoreach/contentflow/pkg/channels/gochannel"
	"github.com/ecoreach/contentflow/pkg/channels/kafka"
	"github.com/ecoreach/contentflow/pkg/eventbus"
)

// NewEventBus builds the audit side channel. provider "none" disables it;
// callers treat a nil bus as fire-and-forget into the void.
func NewEventBus(provider, brokers, serviceName string, logger *slog.Logger) (eventbus.EventBus, error) {
	adapter := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(adapter, serviceName, strings.Split(brokers, ","))
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil

	case "gochannel", "":
		pub, sub, err := gochannel.CreateChannel(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create gochannel channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil

	case "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported event bus provider %q", provider)
	}
}
