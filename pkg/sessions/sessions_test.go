package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTrackerCountsWithinWindow(t *testing.T) {
	tracker := NewMemoryTracker(time.Hour)

	require.NoError(t, tracker.Record(t.Context(), "a"))
	require.NoError(t, tracker.Record(t.Context(), "b"))
	require.NoError(t, tracker.Record(t.Context(), "a")) // re-record keeps one entry

	count, err := tracker.RecentCount(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryTrackerExpiresOldSessions(t *testing.T) {
	tracker := NewMemoryTracker(10 * time.Millisecond)

	require.NoError(t, tracker.Record(t.Context(), "old"))
	time.Sleep(20 * time.Millisecond)

	count, err := tracker.RecentCount(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewRedisTrackerRejectsBadURL(t *testing.T) {
	_, err := NewRedisTracker("not-a-url", 0)
	require.Error(t, err)
}
