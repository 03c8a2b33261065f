//go:build integration

package stats_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortly/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	s := stats.NewRedisStore(client)
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Increment(ctx, stats.Home, at))
	require.NoError(t, s.Increment(ctx, stats.Home, at))
	require.NoError(t, s.Increment(ctx, stats.Sig, at.AddDate(0, 0, -1)))

	t.Run("keys expire after the retention period", func(t *testing.T) {
		ttl, err := client.TTL(ctx, "shortly:hits:home:2024-03-09").Result()

		require.NoError(t, err)
		assert.Greater(t, ttl, stats.Retention-time.Minute)
	})

	t.Run("daily reads missing keys as zero", func(t *testing.T) {
		days, err := s.Daily(ctx, 2, at)

		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, int64(2), days[0].Counts[stats.Home])
		assert.Equal(t, int64(0), days[0].Counts[stats.Sig])
		assert.Equal(t, int64(1), days[1].Counts[stats.Sig])
	})
}
