package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/handlers"
	"github.com/serroba/shortly/internal/health"
	"github.com/serroba/shortly/internal/middleware"
	"github.com/serroba/shortly/internal/ratelimit"
	"github.com/serroba/shortly/internal/redirect"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/submission"
	"github.com/serroba/shortly/internal/token"
	"github.com/serroba/shortly/internal/web"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route
// registered. Middlewares are added before the routes.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (*web.Renderer, error) {
		return web.NewRenderer(do.MustInvoke[*Options](i).PublicBaseURL())
	})

	do.Provide(i, func(i *do.Injector) (*handlers.SiteHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewSiteHandler(
			do.MustInvoke[*token.Signer](i),
			do.MustInvoke[*submission.Pipeline](i),
			do.MustInvoke[*redirect.Resolver](i),
			do.MustInvoke[stats.Store](i),
			do.MustInvoke[stats.Recorder](i),
			do.MustInvoke[*web.Renderer](i),
			opts.PublicBaseURL(),
			do.MustInvoke[*zap.Logger](i).Named("site"),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)
		checkers := make(map[string]health.Checker)

		if opts.UsesRedis() {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
		}

		if opts.Storage == StoragePostgres {
			checkers["postgres"] = do.MustInvoke[*pgxpool.Pool](i)
		}

		return health.NewHandler(checkers), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		site, err := do.Invoke[*handlers.SiteHandler](i)
		if err != nil {
			return nil, fmt.Errorf("build site handler: %w", err)
		}

		api := humachi.New(do.MustInvoke[*chi.Mux](i), huma.DefaultConfig("shortly", "1.0.0"))

		clientIP := middleware.NewClientIP(opts.TrustProxy)

		api.UseMiddleware(middleware.RequestLogger(logger.Named("http"), clientIP))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			ratelimit.NewOperationScopeResolver(),
			clientIP,
			logger.Named("ratelimit"),
		))

		handlers.RegisterRoutes(api, site, ratelimit.SubmissionLimit(opts.Production()))
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})
}
