package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Retention is how long a daily bucket is kept.
const Retention = 90 * 24 * time.Hour

const keyPrefix = "shortly:hits:"

// RedisStore keeps one key per counter per day.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed counter store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(counter Counter, day string) string {
	return keyPrefix + string(counter) + ":" + day
}

func (s *RedisStore) Increment(ctx context.Context, counter Counter, at time.Time) error {
	k := key(counter, at.UTC().Format(DayLayout))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, Retention)

		return nil
	})
	if err != nil {
		return fmt.Errorf("increment %s: %w", k, err)
	}

	return nil
}

func (s *RedisStore) Daily(ctx context.Context, days int, until time.Time) ([]Day, error) {
	dayKeys := dates(days, until)
	pipe := s.client.Pipeline()
	cmds := make(map[string]map[Counter]*redis.StringCmd, len(dayKeys))

	for _, day := range dayKeys {
		cmds[day] = make(map[Counter]*redis.StringCmd, len(All))
		for _, c := range All {
			cmds[day][c] = pipe.Get(ctx, key(c, day))
		}
	}

	// missing keys surface as redis.Nil on the individual commands
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read daily stats: %w", err)
	}

	out := make([]Day, 0, len(dayKeys))

	for _, day := range dayKeys {
		counts := make(map[Counter]int64, len(All))

		for c, cmd := range cmds[day] {
			n, err := cmd.Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				return nil, fmt.Errorf("read %s: %w", key(c, day), err)
			}

			counts[c] = n
		}

		out = append(out, Day{Date: day, Counts: counts})
	}

	return out, nil
}
