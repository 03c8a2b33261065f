package ratelimit_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// humaContext aliases huma.Context so the embedded field name does not
// collide with the interface's Context method.
type humaContext = huma.Context

// opContext answers only what scope resolution reads; any other call panics.
type opContext struct {
	humaContext
	method string
	op     *huma.Operation
}

func (c *opContext) Method() string             { return c.method }
func (c *opContext) Operation() *huma.Operation { return c.op }

func withConfig(method string, cfg any) *opContext {
	return &opContext{
		method: method,
		op:     &huma.Operation{Method: method, Metadata: map[string]any{ratelimit.MetadataKey: cfg}},
	}
}

func TestMethodScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := ratelimit.NewMethodScopeResolver()

	for method, want := range map[string]ratelimit.Scope{
		http.MethodGet:     ratelimit.ScopeRead,
		http.MethodHead:    ratelimit.ScopeRead,
		http.MethodOptions: ratelimit.ScopeRead,
		http.MethodPost:    ratelimit.ScopeWrite,
		http.MethodDelete:  ratelimit.ScopeWrite,
	} {
		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeGlobal, want}, resolver.Resolve(&opContext{method: method}), method)
	}
}

func TestOperationScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := ratelimit.NewOperationScopeResolver()
	submitLimits := []ratelimit.LimitConfig{ratelimit.SubmissionLimit(false)}

	tests := []struct {
		name string
		ctx  *opContext
		want []ratelimit.Scope
	}{
		{
			name: "no operation uses the method",
			ctx:  &opContext{method: http.MethodPost},
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
		{
			name: "configured scope overrides the method",
			ctx:  withConfig(http.MethodGet, ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite}),
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
		{
			name: "route scope is passed through",
			ctx:  withConfig(http.MethodPost, ratelimit.EndpointConfig{Scope: ratelimit.ScopeRoute}),
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRoute},
		},
		{
			name: "limits without a scope fall back to the method",
			ctx:  withConfig(http.MethodPost, ratelimit.EndpointConfig{Limits: submitLimits}),
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite},
		},
		{
			name: "foreign metadata is ignored",
			ctx:  withConfig(http.MethodGet, "not a config"),
			want: []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, resolver.Resolve(tt.ctx))
		})
	}
}

func TestGetEndpointConfig(t *testing.T) {
	t.Parallel()

	t.Run("absent config", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ratelimit.GetEndpointConfig(&opContext{method: http.MethodGet}))
		assert.Nil(t, ratelimit.GetEndpointConfig(&opContext{op: &huma.Operation{}}))
		assert.Nil(t, ratelimit.GetEndpointConfig(withConfig(http.MethodGet, "not a config")))
	})

	t.Run("limits are carried alongside a scope", func(t *testing.T) {
		t.Parallel()

		limits := []ratelimit.LimitConfig{{Window: time.Hour, Max: 10}}
		cfg := ratelimit.GetEndpointConfig(withConfig(http.MethodPost, ratelimit.EndpointConfig{
			Scope:  ratelimit.ScopeWrite,
			Limits: limits,
		}))

		require.NotNil(t, cfg)
		assert.Equal(t, limits, cfg.Limits)
		assert.False(t, cfg.Disabled)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		cfg := ratelimit.GetEndpointConfig(withConfig(http.MethodGet, ratelimit.EndpointConfig{Disabled: true}))

		require.NotNil(t, cfg)
		assert.True(t, cfg.Disabled)
	})
}
