// Package submission runs the ordered validation gates a form submission
// passes through before a short link is created.
package submission

import (
	"context"
	"errors"

	"github.com/serroba/shortly/internal/logging"
	"github.com/serroba/shortly/internal/shortener"
	"github.com/serroba/shortly/internal/stats"
	"github.com/serroba/shortly/internal/token"
	"github.com/serroba/shortly/internal/urlcheck"
	"go.uber.org/zap"
)

// EmailSentinel is the value the hidden email field must carry. Bots that
// fill every field overwrite it.
const EmailSentinel = "me@example.com"

// Messages shown to the submitter on visible rejections.
const (
	MsgBlank    = "Provide a URL"
	MsgInvalid  = "Invalid URL"
	MsgBanned   = "Banned domain"
	MsgInternal = "Internal Server Error"
)

// Outcome classifies how a submission ended.
type Outcome int

const (
	Accepted Outcome = iota
	// RejectedSilently answers like a success without creating anything.
	RejectedSilently
	RejectedVisibly
	InternalError
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedSilently:
		return "rejected_silently"
	case RejectedVisibly:
		return "rejected_visibly"
	case InternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Submission is the raw form input.
type Submission struct {
	URL       string
	Name      string
	Email     string
	Location  string
	Timestamp string
	Signature string
}

// Result is the outcome of one submission. Link is set only when Accepted;
// Message only for visible rejections and internal errors; Err only for
// internal errors and is never shown to the submitter.
type Result struct {
	Outcome Outcome
	Reason  stats.Counter
	Link    *shortener.ShortLink
	Message string
	Err     error
}

// Creator persists a new short link for a URL.
type Creator interface {
	Create(ctx context.Context, url string) (*shortener.ShortLink, error)
}

// TokenChecker validates the signed timestamp carried by the form.
type TokenChecker interface {
	Check(timestamp, signature string) error
}

// BanChecker reports whether a URL's host is denylisted.
type BanChecker interface {
	IsBanned(ctx context.Context, rawURL string) (bool, error)
}

// Pipeline runs submissions through the abuse gates and the allocator.
type Pipeline struct {
	creator  Creator
	tokens   TokenChecker
	denylist BanChecker
	recorder stats.Recorder
	logger   *zap.Logger
}

// NewPipeline creates a new submission pipeline.
func NewPipeline(
	creator Creator,
	tokens TokenChecker,
	denylist BanChecker,
	recorder stats.Recorder,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		creator:  creator,
		tokens:   tokens,
		denylist: denylist,
		recorder: recorder,
		logger:   logger,
	}
}

// Submit runs the gates in order and stops at the first failure. Exactly one
// counter is recorded per call.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) Result {
	if sub.URL == "" {
		return p.visible(ctx, stats.Blank, MsgBlank)
	}

	if !urlcheck.Valid(sub.URL) {
		return p.visible(ctx, stats.Invalid, MsgInvalid)
	}

	if sub.Name != "" {
		return p.silent(ctx, stats.Name)
	}

	if sub.Email != EmailSentinel {
		return p.silent(ctx, stats.Email)
	}

	if sub.Location != sub.URL {
		return p.silent(ctx, stats.Location)
	}

	if err := p.tokens.Check(sub.Timestamp, sub.Signature); err != nil {
		return p.silent(ctx, tokenReason(err))
	}

	banned, err := p.denylist.IsBanned(ctx, sub.URL)
	if err != nil {
		return p.internal(ctx, err)
	}

	if banned {
		return p.visible(ctx, stats.Banned, MsgBanned)
	}

	link, err := p.creator.Create(ctx, sub.URL)
	if err != nil {
		return p.internal(ctx, err)
	}

	p.recorder.Record(ctx, stats.Shorten)
	logging.FromContext(ctx, p.logger).Info("short link created",
		zap.String("code", string(link.Code)),
		zap.String("url", link.URL),
	)

	return Result{Outcome: Accepted, Reason: stats.Shorten, Link: link}
}

func tokenReason(err error) stats.Counter {
	switch {
	case errors.Is(err, token.ErrMalformed):
		return stats.TSInvalid
	case errors.Is(err, token.ErrExpired):
		return stats.TSOld
	default:
		return stats.Sig
	}
}

func (p *Pipeline) visible(ctx context.Context, reason stats.Counter, msg string) Result {
	p.recorder.Record(ctx, reason)
	logging.FromContext(ctx, p.logger).Info("submission rejected", zap.String("reason", string(reason)))

	return Result{Outcome: RejectedVisibly, Reason: reason, Message: msg}
}

func (p *Pipeline) silent(ctx context.Context, reason stats.Counter) Result {
	p.recorder.Record(ctx, reason)
	logging.FromContext(ctx, p.logger).Info("submission rejected silently", zap.String("reason", string(reason)))

	return Result{Outcome: RejectedSilently, Reason: reason}
}

func (p *Pipeline) internal(ctx context.Context, err error) Result {
	p.recorder.Record(ctx, stats.Error)
	logging.FromContext(ctx, p.logger).Error("submission failed", zap.Error(err))

	return Result{Outcome: InternalError, Reason: stats.Error, Message: MsgInternal, Err: err}
}
