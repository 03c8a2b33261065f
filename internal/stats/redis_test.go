package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortly/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Retention(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	s := stats.NewRedisStore(client)
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	require.NoError(t, s.Increment(ctx, stats.Shorten, at))

	t.Run("buckets by UTC day", func(t *testing.T) {
		assert.True(t, mr.Exists("shortly:hits:shorten:2024-03-10"))
	})

	t.Run("bucket expires after retention", func(t *testing.T) {
		mr.FastForward(stats.Retention + time.Second)

		days, err := s.Daily(ctx, 1, at)

		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, int64(0), days[0].Counts[stats.Shorten])
	})

	t.Run("unreachable redis is an error", func(t *testing.T) {
		mr.Close()

		assert.Error(t, s.Increment(ctx, stats.Home, at))
	})
}
