package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly/internal/logging"
	"github.com/serroba/shortly/internal/redirect"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/submission"
	"github.com/serroba/shortly/internal/token"
	"github.com/serroba/shortly/internal/web"
	"go.uber.org/zap"
)

// StatsDays is how many days the stats page shows.
const StatsDays = 30

// NotFoundBody is the plain body of every 404.
const NotFoundBody = "404 - Not Found"

// Issuer hands out fresh form tokens.
type Issuer interface {
	Issue() token.Token
}

// Submitter runs a posted form to an outcome.
type Submitter interface {
	Submit(ctx context.Context, sub submission.Submission) submission.Result
}

// Resolver decides what a short code request gets.
type Resolver interface {
	Resolve(ctx context.Context, raw string) redirect.Action
}

// DailyReader reads the per-day counters for the stats page.
type DailyReader interface {
	Daily(ctx context.Context, days int, until time.Time) ([]stats.Day, error)
}

// SiteHandler serves the form, the short links and the stats pages.
type SiteHandler struct {
	tokens    Issuer
	submitter Submitter
	resolver  Resolver
	counters  DailyReader
	recorder  stats.Recorder
	renderer  *web.Renderer
	baseURL   string
	logger    *zap.Logger
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(
	tokens Issuer,
	submitter Submitter,
	resolver Resolver,
	counters DailyReader,
	recorder stats.Recorder,
	renderer *web.Renderer,
	baseURL string,
	logger *zap.Logger,
) *SiteHandler {
	return &SiteHandler{
		tokens:    tokens,
		submitter: submitter,
		resolver:  resolver,
		counters:  counters,
		recorder:  recorder,
		renderer:  renderer,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func html(status int, body []byte) *PageResponse {
	return &PageResponse{Status: status, ContentType: contentTypeHTML, Body: body}
}

func (h *SiteHandler) renderFailed(ctx context.Context, page string, err error) error {
	logging.FromContext(ctx, h.logger).Error("render page", zap.String("page", page), zap.Error(err))

	return huma.Error500InternalServerError("internal server error")
}

// Home renders an empty form with a fresh token.
func (h *SiteHandler) Home(ctx context.Context, _ *struct{}) (*PageResponse, error) {
	h.recorder.Record(ctx, stats.Home)

	body, err := h.renderer.Form(h.tokens.Issue(), "", "")
	if err != nil {
		return nil, h.renderFailed(ctx, web.PageIndex, err)
	}

	return html(http.StatusOK, body), nil
}

// Submit runs the posted form through the submission pipeline.
func (h *SiteHandler) Submit(ctx context.Context, req *SubmitRequest) (*PageResponse, error) {
	form, err := url.ParseQuery(string(req.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("malformed form body")
	}

	res := h.submitter.Submit(ctx, submission.Submission{
		URL:       form.Get("url"),
		Name:      form.Get("name"),
		Email:     form.Get("email"),
		Location:  form.Get("location"),
		Timestamp: form.Get("ts"),
		Signature: form.Get("sig"),
	})

	switch res.Outcome {
	case submission.Accepted:
		return &PageResponse{
			Status:   http.StatusFound,
			Location: fmt.Sprintf("%s/%s%s", h.baseURL, res.Link.Code, redirect.ViewMarker),
		}, nil

	case submission.RejectedSilently:
		body, err := h.renderer.Thanks()
		if err != nil {
			return nil, h.renderFailed(ctx, web.PageThanks, err)
		}

		return html(http.StatusOK, body), nil

	default:
		body, err := h.renderer.Form(h.tokens.Issue(), form.Get("url"), res.Message)
		if err != nil {
			return nil, h.renderFailed(ctx, web.PageIndex, err)
		}

		return html(http.StatusOK, body), nil
	}
}

// Resolve redirects to, or describes, the link behind a code.
func (h *SiteHandler) Resolve(ctx context.Context, req *ResolveRequest) (*PageResponse, error) {
	action := h.resolver.Resolve(ctx, req.Code)

	switch action.Kind {
	case redirect.Redirect:
		return &PageResponse{Status: http.StatusMovedPermanently, Location: action.Link.URL}, nil

	case redirect.InfoPage:
		body, err := h.renderer.View(action.Link)
		if err != nil {
			return nil, h.renderFailed(ctx, web.PageView, err)
		}

		return html(http.StatusOK, body), nil

	case redirect.NotFound:
		return &PageResponse{
			Status:      http.StatusNotFound,
			ContentType: contentTypeText,
			Body:        []byte(NotFoundBody),
		}, nil

	default:
		return nil, huma.Error500InternalServerError("internal server error")
	}
}

// Stats renders the daily counters of the last StatsDays days.
func (h *SiteHandler) Stats(ctx context.Context, _ *struct{}) (*PageResponse, error) {
	days, err := h.counters.Daily(ctx, StatsDays, time.Now())
	if err != nil {
		logging.FromContext(ctx, h.logger).Error("read stats", zap.Error(err))

		return nil, huma.Error500InternalServerError("internal server error")
	}

	body, err := h.renderer.Stats(days)
	if err != nil {
		return nil, h.renderFailed(ctx, web.PageStats, err)
	}

	return html(http.StatusOK, body), nil
}

// Sitemap lists the public pages, one per line.
func (h *SiteHandler) Sitemap(_ context.Context, _ *struct{}) (*PageResponse, error) {
	return &PageResponse{
		Status:      http.StatusOK,
		ContentType: contentTypeText,
		Body:        []byte(h.baseURL + "/\n"),
	}, nil
}
