package redirect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shortly/internal/redirect"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type finderFunc func(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error)

func (f finderFunc) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	return f(ctx, code)
}

func setup(t *testing.T) (*redirect.Resolver, *stats.MemoryStore) {
	t.Helper()

	repo := store.NewMemoryStore()
	require.NoError(t, repo.Create(context.Background(), &shortener.ShortLink{
		Code:      "abc123",
		URL:       "https://example.com/page",
		CreatedAt: time.Now(),
	}))

	gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
	require.NoError(t, err)

	counters := stats.NewMemoryStore()

	return redirect.NewResolver(
		shortener.NewAllocator(repo, gen),
		stats.NewStoreRecorder(counters, zap.NewNop()),
		zap.NewNop(),
	), counters
}

func today(t *testing.T, s *stats.MemoryStore) map[stats.Counter]int64 {
	t.Helper()

	days, err := s.Daily(context.Background(), 1, time.Now())
	require.NoError(t, err)

	return days[0].Counts
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("redirect intent", func(t *testing.T) {
		r, counters := setup(t)

		action := r.Resolve(ctx, "abc123")

		assert.Equal(t, redirect.Redirect, action.Kind)
		require.NotNil(t, action.Link)
		assert.Equal(t, "https://example.com/page", action.Link.URL)
		assert.Equal(t, int64(1), today(t, counters)[stats.Expand])
	})

	t.Run("view intent strips the marker", func(t *testing.T) {
		r, counters := setup(t)

		action := r.Resolve(ctx, "abc123+")

		assert.Equal(t, redirect.InfoPage, action.Kind)
		require.NotNil(t, action.Link)
		assert.Equal(t, shortener.Code("abc123"), action.Link.Code)
		assert.Equal(t, int64(1), today(t, counters)[stats.View])
		assert.Zero(t, today(t, counters)[stats.Expand])
	})

	t.Run("unknown code", func(t *testing.T) {
		r, counters := setup(t)

		action := r.Resolve(ctx, "unknown")

		assert.Equal(t, redirect.NotFound, action.Kind)
		assert.Nil(t, action.Link)
		assert.Equal(t, int64(1), today(t, counters)[stats.NotFound])
	})

	t.Run("unknown code with view marker", func(t *testing.T) {
		r, _ := setup(t)

		assert.Equal(t, redirect.NotFound, r.Resolve(ctx, "unknown+").Kind)
	})

	t.Run("only one marker is stripped", func(t *testing.T) {
		r, _ := setup(t)

		assert.Equal(t, redirect.NotFound, r.Resolve(ctx, "abc123++").Kind)
	})

	t.Run("storage failure", func(t *testing.T) {
		errDown := errors.New("database down")
		counters := stats.NewMemoryStore()
		r := redirect.NewResolver(
			finderFunc(func(context.Context, shortener.Code) (*shortener.ShortLink, error) {
				return nil, errDown
			}),
			stats.NewStoreRecorder(counters, zap.NewNop()),
			zap.NewNop(),
		)

		action := r.Resolve(ctx, "abc123")

		assert.Equal(t, redirect.InternalError, action.Kind)
		require.ErrorIs(t, action.Err, errDown)
		assert.Equal(t, int64(1), today(t, counters)[stats.Error])
		assert.Zero(t, today(t, counters)[stats.NotFound])
	})
}
