package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortly/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository and denylist.Lookup.
// Each link is a hash under "link:<code>"; banned domains live in a set.
type RedisStore struct {
	client    *redis.Client
	prefix    string // "link:" for code->link (hash keys)
	bannedKey string // "banned_domains" (set)
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    "link:",
		bannedKey: "banned_domains",
	}
}

// createScript writes the link hash only when the key does not exist yet.
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "code", ARGV[1], "url", ARGV[2], "created_at", ARGV[3])
return 1
`)

func (r *RedisStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	created, err := createScript.Run(ctx, r.client,
		[]string{r.prefix + string(link.Code)},
		string(link.Code), link.URL, link.CreatedAt.UnixNano(),
	).Int()
	if err != nil {
		return err
	}

	if created == 0 {
		return shortener.ErrCodeTaken
	}

	return nil
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	return linkFromHash(result), nil
}

func (r *RedisStore) IsBannedDomain(ctx context.Context, host string) (bool, error) {
	return r.client.SIsMember(ctx, r.bannedKey, strings.ToLower(host)).Result()
}

// BanDomain adds a host to the denylist.
func (r *RedisStore) BanDomain(ctx context.Context, domain string) error {
	return r.client.SAdd(ctx, r.bannedKey, strings.ToLower(domain)).Err()
}

func linkFromHash(fields map[string]string) *shortener.ShortLink {
	var createdAt time.Time

	if ts, ok := fields["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortLink{
		Code:      shortener.Code(fields["code"]),
		URL:       fields["url"],
		CreatedAt: createdAt,
	}
}

// isMiss reports whether err is a plain cache miss rather than a failure.
func isMiss(err error) bool {
	return errors.Is(err, redis.Nil) || errors.Is(err, shortener.ErrNotFound)
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
