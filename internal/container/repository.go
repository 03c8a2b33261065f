package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/denylist"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/store"
	"go.uber.org/zap"
)

// DomainBanner inserts hosts into the denylist.
type DomainBanner interface {
	BanDomain(ctx context.Context, domain string) error
}

// linkStore is what every storage mode implements.
type linkStore interface {
	shortener.Repository
	denylist.Lookup
	DomainBanner
}

// RepositoryPackage selects the short link store for the configured storage
// mode and builds the allocator on top of it.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (linkStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StoragePostgres:
			return do.MustInvoke[*store.PostgresStore](i), nil
		case StorageRedis:
			return store.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(i, func(i *do.Injector) (denylist.Lookup, error) {
		return do.MustInvoke[linkStore](i), nil
	})

	do.Provide(i, func(i *do.Injector) (DomainBanner, error) {
		return do.MustInvoke[linkStore](i), nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		links := do.MustInvoke[linkStore](i)

		ttl, err := opts.CacheDuration()
		if err != nil {
			return nil, err
		}

		if opts.Storage != StoragePostgres || ttl <= 0 {
			return links, nil
		}

		return store.NewRedisCacheRepository(
			links,
			do.MustInvoke[*redis.Client](i),
			ttl,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Allocator, error) {
		opts := do.MustInvoke[*Options](i)

		gen, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewAllocator(do.MustInvoke[shortener.Repository](i), gen), nil
	})
}
