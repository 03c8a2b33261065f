package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly/internal/ratelimit"
)

// RegisterRoutes registers the site operations. Submissions carry their own
// per-client limit; every other route uses the default policy.
func RegisterRoutes(api huma.API, h *SiteHandler, submitLimit ratelimit.LimitConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "home",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Submission form",
		Tags:        []string{"Site"},
	}, h.Home)

	huma.Register(api, huma.Operation{
		OperationID: "submit",
		Method:      http.MethodPost,
		Path:        "/",
		Summary:     "Submit a URL to shorten",
		Tags:        []string{"Site"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{submitLimit},
			},
		},
	}, h.Submit)

	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Daily hit counters",
		Tags:        []string{"Site"},
	}, h.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "sitemap",
		Method:      http.MethodGet,
		Path:        "/sitemap.txt",
		Summary:     "Sitemap",
		Tags:        []string{"Site"},
	}, h.Sitemap)

	huma.Register(api, huma.Operation{
		OperationID: "resolve",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Follow or describe a short link",
		Description: "Redirects permanently to the stored URL. A trailing + shows the link info page instead.",
		Tags:        []string{"Links"},
	}, h.Resolve)
}
