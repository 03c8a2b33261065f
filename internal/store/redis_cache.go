package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortly/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Short links are immutable, so cached entries never need invalidation.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:link:",
		ttl:    ttl,
		logger: logger,
	}
}

// Create stores a short link in the underlying store and updates the cache.
func (r *RedisCacheRepository) Create(ctx context.Context, link *shortener.ShortLink) error {
	if err := r.store.Create(ctx, link); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cacheLink(ctx, link)

	return nil
}

// GetByCode retrieves a short link by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	link, err := r.getFromCache(ctx, code)
	if err == nil {
		return link, nil
	}

	if !isMiss(err) {
		r.logger.Warn("link cache read failed", zap.String("code", string(code)), zap.Error(err))
	}

	// Cache miss - fetch from store
	link, err = r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return linkFromHash(result), nil
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	pipe := r.client.Pipeline()
	key := r.prefix + string(link.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       string(link.Code),
		"url":        link.URL,
		"created_at": link.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("link cache write failed", zap.String("code", string(link.Code)), zap.Error(err))
	}
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
