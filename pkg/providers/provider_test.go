package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSpecValidate(t *testing.T) {
	spec := TextSpec{Topic: "Solar Panels", TargetWordCount: 1000}
	assert.NoError(t, spec.Validate())

	spec.TargetWordCount = 50
	assert.ErrorIs(t, spec.Validate(), ErrInvalidParameter)

	spec.TargetWordCount = 20000
	assert.ErrorIs(t, spec.Validate(), ErrInvalidParameter)

	spec = TextSpec{TargetWordCount: 1000}
	assert.ErrorIs(t, spec.Validate(), ErrInvalidParameter)
}

func TestTextSpecPrompt(t *testing.T) {
	spec := TextSpec{
		Topic:               "Heat Pumps",
		ContentType:         "guide",
		TargetAudience:      "homeowners",
		Tone:                "practical",
		TargetWordCount:     1200,
		SeoKeywords:         []string{"heat pump", "efficiency"},
		SustainabilityFocus: true,
	}

	prompt := spec.Prompt()

	assert.Contains(t, prompt, `Write a guide about "Heat Pumps".`)
	assert.Contains(t, prompt, "Target length: 1200 words.")
	assert.Contains(t, prompt, "Audience: homeowners.")
	assert.Contains(t, prompt, "heat pump, efficiency")
	assert.Contains(t, prompt, "sustainability")
}

func TestSplitTitle(t *testing.T) {
	title, body := SplitTitle("# The Future of Solar\n\nSolar power is growing.")
	assert.Equal(t, "The Future of Solar", title)
	assert.Equal(t, "Solar power is growing.", body)

	title, body = SplitTitle("just a body with no newline")
	assert.Empty(t, title)
	assert.Equal(t, "just a body with no newline", body)
}

func TestRegistrySelection(t *testing.T) {
	registry := NewRegistry()
	first := &stubText{name: "first"}
	second := &stubText{name: "second"}

	registry.RegisterText(first)
	registry.RegisterText(second)

	generator, err := registry.Text("")
	require.NoError(t, err)
	assert.Equal(t, "first", generator.Name())

	generator, err = registry.Text("second")
	require.NoError(t, err)
	assert.Equal(t, "second", generator.Name())

	_, err = registry.Text("missing")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []string{"first", "second"}, registry.TextBackends())
}

type stubText struct {
	name string
}

func (s *stubText) Name() string {
	return s.name
}

func (s *stubText) GenerateText(_ context.Context, _ TextSpec) (*Artifact, error) {
	return &Artifact{Kind: KindText, Provider: s.name}, nil
}

func (s *stubText) Complete(_ context.Context, _ string) (*Artifact, error) {
	return &Artifact{Kind: KindText, Provider: s.name}, nil
}
