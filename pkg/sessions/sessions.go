// Package sessions tracks recent generation sessions for status reporting.
// The redis tracker is used in deployments; the memory tracker backs tests
// and setups without redis.
package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultWindow bounds how far back a session still counts as recent.
const DefaultWindow = 24 * time.Hour

const redisKey = "contentflow:sessions:recent"

type Tracker interface {
	Record(ctx context.Context, sessionID string) error
	RecentCount(ctx context.Context) (int, error)
	Close() error
}

// RedisTracker keeps session ids in a sorted set scored by unix time, so
// counting recent sessions is a range query and old entries can be trimmed
// on every write.
type RedisTracker struct {
	client *redis.Client
	window time.Duration
}

func NewRedisTracker(url string, window time.Duration) (*RedisTracker, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if window <= 0 {
		window = DefaultWindow
	}

	return &RedisTracker{
		client: redis.NewClient(options),
		window: window,
	}, nil
}

func (t *RedisTracker) Record(ctx context.Context, sessionID string) error {
	now := time.Now()

	pipe := t.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.Unix()), Member: sessionID})
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%d", now.Add(-t.window).Unix()))
	pipe.Expire(ctx, redisKey, t.window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	return nil
}

func (t *RedisTracker) RecentCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-t.window).Unix()

	count, err := t.client.ZCount(ctx, redisKey, fmt.Sprintf("%d", cutoff), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return int(count), nil
}

func (t *RedisTracker) Close() error {
	return t.client.Close()
}

// MemoryTracker is the in-process fallback.
type MemoryTracker struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

func NewMemoryTracker(window time.Duration) *MemoryTracker {
	if window <= 0 {
		window = DefaultWindow
	}

	return &MemoryTracker{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

func (t *MemoryTracker) Record(_ context.Context, sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.seen[sessionID] = now

	for id, at := range t.seen {
		if now.Sub(at) > t.window {
			delete(t.seen, id)
		}
	}

	return nil
}

func (t *MemoryTracker) RecentCount(_ context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	count := 0

	for _, at := range t.seen {
		if now.Sub(at) <= t.window {
			count++
		}
	}

	return count, nil
}

func (t *MemoryTracker) Close() error {
	return nil
}
