package container_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortly/internal/container"
	"github.com/serroba/shortly/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hiddenField = regexp.MustCompile(`name="(ts|sig)" value="([^"]+)"`)

func TestRedisMode_SubmitAndFollow(t *testing.T) {
	mr := miniredis.RunT(t)

	opts := validOptions()
	opts.Storage = container.StorageRedis
	opts.RedisAddr = mr.Addr()

	injector := do.New()
	do.ProvideValue(injector, opts)
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

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	home := httptest.NewRecorder()
	router.ServeHTTP(home, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, home.Code)

	form := url.Values{
		"url":      {"https://example.com/some/long/path"},
		"name":     {""},
		"email":    {"me@example.com"},
		"location": {"https://example.com/some/long/path"},
	}

	for _, m := range hiddenField.FindAllStringSubmatch(home.Body.String(), -1) {
		form.Set(m[1], m[2])
	}

	require.NotEmpty(t, form.Get("ts"))
	require.NotEmpty(t, form.Get("sig"))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	submit := httptest.NewRecorder()
	router.ServeHTTP(submit, req)

	require.Equal(t, http.StatusFound, submit.Code, submit.Body.String())

	location := submit.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "http://localhost:8888/"))
	require.True(t, strings.HasSuffix(location, "+"))

	code := strings.TrimSuffix(strings.TrimPrefix(location, "http://localhost:8888/"), "+")

	t.Run("code redirects permanently", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+code, nil))

		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "https://example.com/some/long/path", rec.Header().Get("Location"))
	})

	t.Run("view shows the link", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+code+"+", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "https://example.com/some/long/path")
	})

	t.Run("counters land in redis", func(t *testing.T) {
		keys := mr.Keys()

		assert.Contains(t, strings.Join(keys, " "), "shortly:hits:"+string(stats.Shorten)+":")
		assert.Contains(t, strings.Join(keys, " "), "shortly:hits:"+string(stats.Expand)+":")
	})
}
