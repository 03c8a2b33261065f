package stats_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortly/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Daily(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	t.Run("buckets hits per UTC day, newest first", func(t *testing.T) {
		s := stats.NewMemoryStore()

		require.NoError(t, s.Increment(ctx, stats.Home, today))
		require.NoError(t, s.Increment(ctx, stats.Home, today))
		require.NoError(t, s.Increment(ctx, stats.Shorten, yesterday))

		days, err := s.Daily(ctx, 3, today)

		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.Equal(t, "2024-03-09", days[0].Date)
		assert.Equal(t, "2024-03-08", days[1].Date)
		assert.Equal(t, "2024-03-07", days[2].Date)
		assert.Equal(t, int64(2), days[0].Counts[stats.Home])
		assert.Equal(t, int64(1), days[1].Counts[stats.Shorten])
		assert.Equal(t, int64(0), days[2].Counts[stats.Home])
	})

	t.Run("non-UTC times land in their UTC day", func(t *testing.T) {
		s := stats.NewMemoryStore()
		tokyo := time.FixedZone("JST", 9*3600)

		// 2024-03-10 08:00 JST is 2024-03-09 23:00 UTC
		require.NoError(t, s.Increment(ctx, stats.View, time.Date(2024, 3, 10, 8, 0, 0, 0, tokyo)))

		days, err := s.Daily(ctx, 1, today)

		require.NoError(t, err)
		assert.Equal(t, int64(1), days[0].Counts[stats.View])
	})

	t.Run("every counter is present", func(t *testing.T) {
		days, err := stats.NewMemoryStore().Daily(ctx, 1, today)

		require.NoError(t, err)
		assert.Len(t, days[0].Counts, len(stats.All))
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := stats.NewMemoryStore()

		var wg sync.WaitGroup

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_ = s.Increment(ctx, stats.Expand, today)
			}()
		}

		wg.Wait()

		days, err := s.Daily(ctx, 1, today)

		require.NoError(t, err)
		assert.Equal(t, int64(50), days[0].Counts[stats.Expand])
	})
}
