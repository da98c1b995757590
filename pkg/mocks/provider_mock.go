package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ecoreach/contentflow/pkg/providers"
)

// MockTextGenerator is a mock implementation of providers.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Name() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, spec providers.TextSpec) (*providers.Artifact, error) {
	args := m.Called(ctx, spec)

	artifact, _ := args.Get(0).(*providers.Artifact)

	return artifact, args.Error(1)
}

func (m *MockTextGenerator) Complete(ctx context.Context, prompt string) (*providers.Artifact, error) {
	args := m.Called(ctx, prompt)

	artifact, _ := args.Get(0).(*providers.Artifact)

	return artifact, args.Error(1)
}
