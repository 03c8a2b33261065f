// Package redirect turns a public short code into the action the HTTP layer
// should take.
package redirect

import (
	"context"
	"errors"
	"strings"

	"github.com/serroba/shortly/internal/logging"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/stats"
	"go.uber.org/zap"
)

// ViewMarker suffixes a code to ask for the info page instead of a redirect.
const ViewMarker = "+"

// Kind is what the handler should do with a resolved code.
type Kind int

const (
	Redirect Kind = iota
	InfoPage
	NotFound
	InternalError
)

// Action is the resolved outcome. Link is set for Redirect and InfoPage,
// Err for InternalError.
type Action struct {
	Kind Kind
	Link *shortener.ShortLink
	Err  error
}

// Finder looks up short links by code.
type Finder interface {
	FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error)
}

// Resolver turns a requested code into an Action.
type Resolver struct {
	finder   Finder
	recorder stats.Recorder
	logger   *zap.Logger
}

// NewResolver creates a new redirect resolver.
func NewResolver(finder Finder, recorder stats.Recorder, logger *zap.Logger) *Resolver {
	return &Resolver{finder: finder, recorder: recorder, logger: logger}
}

// Resolve looks up raw with the view marker stripped and records one counter.
func (r *Resolver) Resolve(ctx context.Context, raw string) Action {
	code, view := strings.CutSuffix(raw, ViewMarker)

	link, err := r.finder.FindByCode(ctx, shortener.Code(code))
	if errors.Is(err, shortener.ErrNotFound) {
		r.recorder.Record(ctx, stats.NotFound)

		return Action{Kind: NotFound}
	}

	if err != nil {
		r.recorder.Record(ctx, stats.Error)
		logging.FromContext(ctx, r.logger).Error("resolve short link", zap.String("code", code), zap.Error(err))

		return Action{Kind: InternalError, Err: err}
	}

	if view {
		r.recorder.Record(ctx, stats.View)

		return Action{Kind: InfoPage, Link: link}
	}

	r.recorder.Record(ctx, stats.Expand)

	return Action{Kind: Redirect, Link: link}
}
