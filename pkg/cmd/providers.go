package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v9"

	"github.com/ecoreach/contentflow/pkg/providers"
	"github.com/ecoreach/contentflow/pkg/providers/anthropic"
	"github.com/ecoreach/contentflow/pkg/providers/elevenlabs"
	"github.com/ecoreach/contentflow/pkg/providers/mistral"
	"github.com/ecoreach/contentflow/pkg/providers/openai"
	"github.com/ecoreach/contentflow/pkg/providers/stability"
)

// NewProviderRegistry constructs every backend whose credentials are present
// in the environment. defaultText, when non-empty, must name a configured
// text backend and is registered first so it becomes the default.
func NewProviderRegistry(defaultText string, logger *slog.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry()

	texts, err := buildTextBackends(logger)
	if err != nil {
		return nil, err
	}

	if len(texts) == 0 {
		return nil, errors.New("no text provider credentials configured")
	}

	if defaultText != "" {
		preferred, ok := texts[defaultText]
		if !ok {
			return nil, fmt.Errorf("default text provider %q is not configured", defaultText)
		}

		registry.RegisterText(preferred)
	}

	for name, generator := range texts {
		if name == defaultText {
			continue
		}

		registry.RegisterText(generator)
	}

	registerImage(registry, logger)
	registerAudio(registry, logger)

	return registry, nil
}

func buildTextBackends(logger *slog.Logger) (map[string]providers.TextGenerator, error) {
	texts := make(map[string]providers.TextGenerator)

	var openaiCfg openai.Config
	if err := env.Parse(&openaiCfg); err != nil {
		return nil, fmt.Errorf("failed to parse openai config: %w", err)
	}

	if backend, err := openai.New(openaiCfg); err == nil {
		texts[backend.Name()] = backend
	} else if !providers.IsMissingCredentials(err) {
		return nil, err
	}

	var anthropicCfg anthropic.Config
	if err := env.Parse(&anthropicCfg); err != nil {
		return nil, fmt.Errorf("failed to parse anthropic config: %w", err)
	}

	if backend, err := anthropic.New(anthropicCfg); err == nil {
		texts[backend.Name()] = backend
	} else if !providers.IsMissingCredentials(err) {
		return nil, err
	}

	var mistralCfg mistral.Config
	if err := env.Parse(&mistralCfg); err != nil {
		return nil, fmt.Errorf("failed to parse mistral config: %w", err)
	}

	if backend, err := mistral.New(mistralCfg); err == nil {
		texts[backend.Name()] = backend
	} else if !providers.IsMissingCredentials(err) {
		return nil, err
	}

	logger.Info("text backends configured", "count", len(texts))

	return texts, nil
}

func registerImage(registry *providers.Registry, logger *slog.Logger) {
	var cfg stability.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Warn("failed to parse stability config", "error", err)

		return
	}

	backend, err := stability.New(cfg)
	if err != nil {
		if !providers.IsMissingCredentials(err) {
			logger.Warn("failed to build image backend", "error", err)
		}

		return
	}

	registry.RegisterImage(backend)
}

func registerAudio(registry *providers.Registry, logger *slog.Logger) {
	var cfg elevenlabs.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Warn("failed to parse elevenlabs config", "error", err)

		return
	}

	backend, err := elevenlabs.New(cfg)
	if err != nil {
		if !providers.IsMissingCredentials(err) {
			logger.Warn("failed to build audio backend", "error", err)
		}

		return
	}

	registry.RegisterAudio(backend)
}
