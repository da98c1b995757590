// Package stability provides the Stability AI text-to-image backend.
package stability

import (
	"context"
	"net/http"
	"time"

	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	Name           = "stability"
	defaultBaseURL = "https://api.stability.ai/v1"
	defaultEngine  = "stable-diffusion-xl-1024-v1-0"
)

type Config struct {
	APIKey  string        `env:"STABILITY_API_KEY"`
	BaseURL string        `env:"STABILITY_BASE_URL"`
	Engine  string        `env:"STABILITY_ENGINE"`
	Timeout time.Duration `env:"STABILITY_TIMEOUT"`
}

// Provider implements providers.ImageGenerator against the Stability API.
type Provider struct {
	apiKey     string
	baseURL    string
	engine     string
	httpClient *http.Client
}

// New constructs the backend, failing fast when no API key is configured.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, providers.ErrMissingCredentials
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	engine := cfg.Engine
	if engine == "" {
		engine = defaultEngine
	}

	return &Provider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		engine:     engine,
		httpClient: providers.HTTPClient(cfg.Timeout),
	}, nil
}

func (p *Provider) Name() string {
	return Name
}

type generationRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	StylePreset string       `json:"style_preset,omitempty"`
}

type textPrompt struct {
	Text string `json:"text"`
}

type generationResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

func (p *Provider) GenerateImage(ctx context.Context, spec providers.ImageSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	request := generationRequest{
		TextPrompts: []textPrompt{{Text: spec.Prompt}},
		StylePreset: spec.Style,
	}

	var response generationResponse

	err = providers.DoJSON(ctx, p.httpClient, Name, http.MethodPost,
		p.baseURL+"/generation/"+p.engine+"/text-to-image",
		map[string]string{
			"Authorization": "Bearer " + p.apiKey,
			"Accept":        "application/json",
		},
		request, &response)
	if err != nil {
		return nil, err
	}

	if len(response.Artifacts) == 0 {
		return nil, &providers.ProviderError{Provider: Name, Message: "response contained no artifacts"}
	}

	return &providers.Artifact{
		Kind:     providers.KindImage,
		Content:  response.Artifacts[0].Base64,
		Provider: Name,
		Model:    p.engine,
		Metadata: map[string]any{"finish_reason": response.Artifacts[0].FinishReason},
	}, nil
}
