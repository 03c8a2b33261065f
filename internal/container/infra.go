package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/store"
	"go.uber.org/zap"
)

// redisConn owns the shared redis client.
type redisConn struct {
	*redis.Client
}

func (c *redisConn) Shutdown() error {
	return c.Close()
}

// RedisPackage provides the shared redis client, closed on shutdown.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*redisConn, error) {
		opts := do.MustInvoke[*Options](i)

		return &redisConn{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})

	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		return do.MustInvoke[*redisConn](i).Client, nil
	})
}

// PostgresPackage provides the pool and the store that owns it.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}

		logger.Info("postgres pool created")

		return pool, nil
	})

	do.Provide(i, func(i *do.Injector) (*store.PostgresStore, error) {
		return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}
