package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
)

// MockEventBus is a mock implementation of eventbus.EventBus interface.
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, handler eventbus.EventHandler) error {
	args := m.Called(ctx, handler)

	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()

	return args.Error(0)
}

func (m *MockEventBus) GenerateID() string {
	args := m.Called()

	return args.String(0)
}
