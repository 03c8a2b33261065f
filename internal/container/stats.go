package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/messaging"
	"github.com/serroba/shortly/internal/stats"
	"go.uber.org/zap"
)

// StatsPackage provides the counter store and the recorder for the
// configured stats mode. Without redis, counters live in memory.
func StatsPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (stats.Store, error) {
		if !do.MustInvoke[*Options](i).UsesRedis() {
			return stats.NewMemoryStore(), nil
		}

		return stats.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (stats.Recorder, error) {
		logger := do.MustInvoke[*zap.Logger](i).Named("stats")

		if do.MustInvoke[*Options](i).StatsMode == StatsStream {
			group := do.MustInvoke[*messaging.PublisherGroup](i)
			publish := messaging.NewPublishFunc[stats.HitEvent](group.Publisher(), stats.TopicHit)

			return stats.NewPublishingRecorder(publish, logger), nil
		}

		return stats.NewStoreRecorder(do.MustInvoke[stats.Store](i), logger), nil
	})
}
