package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/container"
	"github.com/serroba/shortly/internal/denylist"
	"github.com/serroba/shortly/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.StatsPackage(injector)
	container.SubmissionPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		var server *http.Server

		hooks.OnStart(func() {
			if err := options.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			logger := do.MustInvoke[*zap.Logger](injector)
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("storage", options.Storage),
				zap.String("stats", options.StatsMode),
				zap.String("base_url", options.PublicBaseURL()),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger := do.MustInvoke[*zap.Logger](injector)
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().AddCommand(migrateCommand(), banCommand())

	cli.Run()
}

// migrateCommand applies the embedded schema migrations to DATABASE_URL.
func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the database to the latest version",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			injector := do.New()
			registerPackages(injector, options)

			defer func() { _ = injector.Shutdown() }()

			logger := do.MustInvoke[*zap.Logger](injector)
			pool := do.MustInvoke[*pgxpool.Pool](injector)

			if err := store.Migrate(cmd.Context(), pool); err != nil {
				logger.Fatal("could not migrate database", zap.Error(err))
			}

			logger.Info("database migrated")
		}),
	}
}

// banCommand adds domains to the denylist of the configured storage.
func banCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ban <domain>...",
		Short: "Adds domains to the denylist",
		Args:  cobra.MinimumNArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			injector := do.New()
			registerPackages(injector, options)

			defer func() { _ = injector.Shutdown() }()

			logger := do.MustInvoke[*zap.Logger](injector)

			if options.Storage == container.StorageMemory {
				logger.Fatal("ban needs persistent storage, set --storage postgres or redis")
			}

			banner := do.MustInvoke[container.DomainBanner](injector)

			for _, arg := range args {
				domain, err := normalizeDomain(arg)
				if err != nil {
					logger.Fatal("invalid domain", zap.String("domain", arg), zap.Error(err))
				}

				if err := banner.BanDomain(cmd.Context(), domain); err != nil {
					logger.Fatal("could not ban domain", zap.String("domain", domain), zap.Error(err))
				}

				logger.Info("domain banned", zap.String("domain", domain))
			}
		}),
	}
}

// normalizeDomain accepts a bare host or a full URL and returns the host the
// way the denylist compares it.
func normalizeDomain(arg string) (string, error) {
	if !strings.Contains(arg, "://") {
		arg = "http://" + arg
	}

	return denylist.Host(arg)
}
