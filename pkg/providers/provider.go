// Package providers defines the generative provider contract and the shared
// plumbing for the concrete text, image and audio backends. Callers select a
// backend by name through the Registry and must treat all backends of one
// kind as behaviorally equivalent aside from stylistic output differences.
package providers

import (
	"context"
	"fmt"
	"strings"
)

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

const (
	MinWordCount = 100
	MaxWordCount = 15000
)

// TextSpec is the structured prompt specification for text generation.
type TextSpec struct {
	Topic               string   `json:"topic"`
	ContentType         string   `json:"content_type"`
	TargetAudience      string   `json:"target_audience,omitempty"`
	Tone                string   `json:"tone,omitempty"`
	TargetWordCount     int      `json:"target_word_count"`
	SeoKeywords         []string `json:"seo_keywords,omitempty"`
	SustainabilityFocus bool     `json:"sustainability_focus,omitempty"`
}

// Validate checks the spec before any network call is made.
func (s TextSpec) Validate() error {
	if s.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidParameter)
	}

	if s.TargetWordCount < MinWordCount || s.TargetWordCount > MaxWordCount {
		return fmt.Errorf("%w: target word count %d outside %d-%d",
			ErrInvalidParameter, s.TargetWordCount, MinWordCount, MaxWordCount)
	}

	return nil
}

// Prompt renders the spec into the instruction text sent to a backend. All
// text backends share this rendering so output differs only in model style.
func (s TextSpec) Prompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a %s about %q.", orDefault(s.ContentType, "article"), s.Topic)
	fmt.Fprintf(&b, " Target length: %d words.", s.TargetWordCount)

	if s.TargetAudience != "" {
		fmt.Fprintf(&b, " Audience: %s.", s.TargetAudience)
	}

	if s.Tone != "" {
		fmt.Fprintf(&b, " Tone: %s.", s.Tone)
	}

	if len(s.SeoKeywords) > 0 {
		fmt.Fprintf(&b, " Naturally include these keywords: %s.", strings.Join(s.SeoKeywords, ", "))
	}

	if s.SustainabilityFocus {
		b.WriteString(" Emphasize practical sustainability and environmental impact.")
	}

	b.WriteString(" Start with a single-line title, then the body.")

	return b.String()
}

// ImageSpec is the prompt specification for image generation.
type ImageSpec struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Size   string `json:"size,omitempty"`
}

func (s ImageSpec) Validate() error {
	if s.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidParameter)
	}

	return nil
}

// AudioSpec is the prompt specification for audio generation.
type AudioSpec struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func (s AudioSpec) Validate() error {
	if s.Text == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidParameter)
	}

	return nil
}

// Artifact is the provider-independent result of one generation call.
type Artifact struct {
	Kind     Kind           `json:"kind"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content"`
	Provider string         `json:"provider"`
	Model    string         `json:"model,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TextGenerator produces text artifacts. GenerateText renders a structured
// content spec; Complete sends a caller-built instruction verbatim, used for
// analysis prompts that expect structured output back.
type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, spec TextSpec) (*Artifact, error)
	Complete(ctx context.Context, prompt string) (*Artifact, error)
}

// ImageGenerator produces image artifacts.
type ImageGenerator interface {
	Name() string
	GenerateImage(ctx context.Context, spec ImageSpec) (*Artifact, error)
}

// AudioGenerator produces audio artifacts.
type AudioGenerator interface {
	Name() string
	GenerateAudio(ctx context.Context, spec AudioSpec) (*Artifact, error)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// SplitTitle separates the first line of generated text from the body,
// trimming markdown heading markers and surrounding quotes.
func SplitTitle(generated string) (string, string) {
	trimmed := strings.TrimSpace(generated)

	title, body, found := strings.Cut(trimmed, "\n")
	if !found {
		return "", trimmed
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), "#*\""))

	return title, strings.TrimSpace(body)
}
