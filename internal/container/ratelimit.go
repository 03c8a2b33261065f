package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/ratelimit"
	"github.com/serroba/shortly/internal/store"
)

// RateLimitPackage provides the policy limiter. Counts are kept in redis
// whenever a redis client is configured so every instance shares them.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		if !do.MustInvoke[*Options](i).UsesRedis() {
			return store.NewRateLimitMemoryStore(), nil
		}

		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewPolicyLimiter(
			do.MustInvoke[ratelimit.Store](i),
			ratelimit.DefaultPolicy(opts.Production()),
		), nil
	})
}
