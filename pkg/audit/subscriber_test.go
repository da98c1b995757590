package audit

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoreach/contentflow/pkg/channels/gochannel"
	"github.com/ecoreach/contentflow/pkg/eventbus"
	"github.com/ecoreach/contentflow/pkg/events"
	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence/memory"
)

func TestSubscriberPersistsGenerationLog(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	store := memory.NewSeededStore()
	subscriber := NewSubscriber(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := t.Context()
	require.NoError(t, subscriber.Start(ctx, bus))

	err = bus.Publish(ctx, events.GenerationLogged{
		BaseEvent: events.BaseEvent{
			ID:        bus.GenerateID(),
			Type:      events.GenerationLoggedEvent,
			Timestamp: time.Now().UTC(),
		},
		Log: models.GenerationLog{
			ContentType: "text",
			Prompt:      "write about solar",
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(store.GenerationLogs()) == 1
	}, time.Second, 10*time.Millisecond)

	logs := store.GenerationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "write about solar", logs[0].Prompt)
}

func TestSubscriberPersistsActivity(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	store := memory.NewSeededStore()
	subscriber := NewSubscriber(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := t.Context()
	require.NoError(t, subscriber.Start(ctx, bus))

	err = bus.Publish(ctx, events.ActivityRecorded{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.ActivityRecordedEvent, Timestamp: time.Now().UTC()},
		Activity: models.AgentActivity{
			ActivityType: "daily_batch",
			Description:  "3 generated, 0 failed",
		},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(store.Activities()) == 1
	}, time.Second, 10*time.Millisecond)
}
