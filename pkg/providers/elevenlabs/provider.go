// Package elevenlabs provides the ElevenLabs text-to-speech backend.
package elevenlabs

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	Name           = "elevenlabs"
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoice   = "21m00Tcm4TlvDq8ikWAM"
)

type Config struct {
	APIKey  string        `env:"ELEVENLABS_API_KEY"`
	BaseURL string        `env:"ELEVENLABS_BASE_URL"`
	Voice   string        `env:"ELEVENLABS_VOICE"`
	Timeout time.Duration `env:"ELEVENLABS_TIMEOUT"`
}

// Provider implements providers.AudioGenerator against the ElevenLabs API.
type Provider struct {
	apiKey     string
	baseURL    string
	voice      string
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

	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}

	return &Provider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		voice:      voice,
		httpClient: providers.HTTPClient(cfg.Timeout),
	}, nil
}

func (p *Provider) Name() string {
	return Name
}

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (p *Provider) GenerateAudio(ctx context.Context, spec providers.AudioSpec) (*providers.Artifact, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	voice := spec.Voice
	if voice == "" {
		voice = p.voice
	}

	request := speechRequest{
		Text:    spec.Text,
		ModelID: "eleven_multilingual_v2",
	}

	// The speech endpoint returns raw audio bytes, not JSON.
	raw, err := providers.DoRaw(ctx, p.httpClient, Name, http.MethodPost,
		p.baseURL+"/text-to-speech/"+voice,
		map[string]string{
			"xi-api-key": p.apiKey,
			"Accept":     "audio/mpeg",
		},
		request)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, &providers.ProviderError{Provider: Name, Message: "response contained no audio"}
	}

	return &providers.Artifact{
		Kind:     providers.KindAudio,
		Content:  base64.StdEncoding.EncodeToString(raw),
		Provider: Name,
		Metadata: map[string]any{"voice": voice, "format": "audio/mpeg"},
	}, nil
}
