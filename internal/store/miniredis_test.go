package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

type countingRepository struct {
	*store.MemoryStore
	gets int
}

func (c *countingRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	c.gets++

	return c.MemoryStore.GetByCode(ctx, code)
}

func TestRedisStore_Miniredis(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniRedis(t)
	s := store.NewRedisStore(client)

	link := &shortener.ShortLink{Code: "abc123", URL: "https://example.com/a", CreatedAt: time.Now().UTC()}

	t.Run("create then find", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, link))

		got, err := s.GetByCode(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, link.URL, got.URL)
	})

	t.Run("existing code is taken", func(t *testing.T) {
		err := s.Create(ctx, &shortener.ShortLink{Code: link.Code, URL: "https://other.example/"})

		assert.ErrorIs(t, err, shortener.ErrCodeTaken)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := s.GetByCode(ctx, "nothere")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("banned domains are case insensitive", func(t *testing.T) {
		require.NoError(t, s.BanDomain(ctx, "Spam.Example"))

		banned, err := s.IsBannedDomain(ctx, "spam.example")
		require.NoError(t, err)
		assert.True(t, banned)

		banned, err = s.IsBannedDomain(ctx, "example.com")
		require.NoError(t, err)
		assert.False(t, banned)
	})
}

func TestRateLimitRedisStore_Miniredis(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniRedis(t)
	s := store.NewRateLimitRedisStore(client)

	for want := int64(1); want <= 3; want++ {
		count, err := s.Record(ctx, "client", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	count, err := s.Record(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.True(t, mr.Exists("ratelimit:client"))
	assert.Positive(t, mr.TTL("ratelimit:client"))
}

func TestRedisCacheRepository_Miniredis(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniRedis(t)

	backing := &countingRepository{MemoryStore: store.NewMemoryStore()}
	cached := store.NewRedisCacheRepository(backing, client, time.Hour, zap.NewNop())

	link := &shortener.ShortLink{Code: "cache1", URL: "https://example.com/c", CreatedAt: time.Now().UTC()}
	require.NoError(t, cached.Create(ctx, link))

	t.Run("reads are served from the cache after create", func(t *testing.T) {
		got, err := cached.GetByCode(ctx, link.Code)

		require.NoError(t, err)
		assert.Equal(t, link.URL, got.URL)
		assert.Zero(t, backing.gets)
	})

	t.Run("falls back to the store when redis is down", func(t *testing.T) {
		mr.Close()

		got, err := cached.GetByCode(ctx, link.Code)

		require.NoError(t, err)
		assert.Equal(t, link.URL, got.URL)
		assert.Equal(t, 1, backing.gets)
	})

	t.Run("store misses are not found", func(t *testing.T) {
		_, err := cached.GetByCode(ctx, "nothere")

		assert.True(t, errors.Is(err, shortener.ErrNotFound))
	})
}
