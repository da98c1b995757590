// Package anthropic provides the Anthropic messages text backend.
package anthropic

import (
	"context"
	"net/http"
	"time"

	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	Name           = "anthropic"
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-3-5-haiku-latest"
	apiVersion     = "2023-06-01"
)

type Config struct {
	APIKey  string        `env:"ANTHROPIC_API_KEY"`
	BaseURL string        `env:"ANTHROPIC_BASE_URL"`
	Model   string        `env:"ANTHROPIC_MODEL"`
	Timeout time.Duration `env:"ANTHROPIC_TIMEOUT"`
}

// Provider implements providers.TextGenerator against the Anthropic API.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
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

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: providers.HTTPClient(cfg.Timeout),
	}, nil
}

func (p *Provider) Name() string {
	return Name
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *Provider) GenerateText(ctx context.Context, spec providers.TextSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	artifact, err := p.Complete(ctx, spec.Prompt())
	if err != nil {
		return nil, err
	}

	artifact.Title, artifact.Content = providers.SplitTitle(artifact.Content)

	return artifact, nil
}

func (p *Provider) Complete(ctx context.Context, prompt string) (*providers.Artifact, error) {
	request := messagesRequest{
		Model:     p.model,
		MaxTokens: 8192,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	var response messagesResponse

	err := providers.DoJSON(ctx, p.httpClient, Name, http.MethodPost,
		p.baseURL+"/messages",
		map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": apiVersion,
		},
		request, &response)
	if err != nil {
		return nil, err
	}

	if len(response.Content) == 0 || response.Content[0].Text == "" {
		return nil, &providers.ProviderError{Provider: Name, Message: "response contained no text content"}
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Content:  response.Content[0].Text,
		Provider: Name,
		Model:    p.model,
		Metadata: map[string]any{"output_tokens": response.Usage.OutputTokens},
	}, nil
}
