// Package mistral provides the Mistral chat-completions text backend.
package mistral

import (
	"context"
	"net/http"
	"time"

	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	Name           = "mistral"
	defaultBaseURL = "https://api.mistral.ai/v1"
	defaultModel   = "mistral-small-latest"
)

type Config struct {
	APIKey  string        `env:"MISTRAL_API_KEY"`
	BaseURL string        `env:"MISTRAL_BASE_URL"`
	Model   string        `env:"MISTRAL_MODEL"`
	Timeout time.Duration `env:"MISTRAL_TIMEOUT"`
}

// Provider implements providers.TextGenerator against the Mistral API.
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

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
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
	request := chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var response chatResponse

	err := providers.DoJSON(ctx, p.httpClient, Name, http.MethodPost,
		p.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		request, &response)
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, &providers.ProviderError{Provider: Name, Message: "response contained no choices"}
	}

	return &providers.Artifact{
		Kind:     providers.KindText,
		Content:  response.Choices[0].Message.Content,
		Provider: Name,
		Model:    p.model,
	}, nil
}
