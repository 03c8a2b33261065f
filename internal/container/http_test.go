package container_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryInjector(t *testing.T) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, validOptions())
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.StatsPackage(injector)
	container.SubmissionPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func TestHTTPPackage_MemoryMode(t *testing.T) {
	injector := newMemoryInjector(t)

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	t.Run("form", func(t *testing.T) {
		rec := serve("/")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="sig"`)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})

	t.Run("sitemap", func(t *testing.T) {
		rec := serve("/sitemap.txt")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:8888/\n", rec.Body.String())
	})

	t.Run("health without external dependencies", func(t *testing.T) {
		rec := serve("/health")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("unknown code", func(t *testing.T) {
		rec := serve("/nothere")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
