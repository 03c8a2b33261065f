package middleware

import (
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly/internal/logging"
	"github.com/serroba/shortly/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter limits requests per client. Operations may carry a
// ratelimit.EndpointConfig under ratelimit.MetadataKey to disable limiting,
// change their scope or declare their own limits.
//
// Scope limits key clients by IP and User-Agent. Endpoint limits key them by
// IP alone so a rotating User-Agent does not open a fresh bucket.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	clientIP ClientIPFunc,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		var (
			allowed  bool
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		ip := clientIP(ctx)
		route := operationPath(ctx)

		if cfg != nil && len(cfg.Limits) > 0 {
			allowed, exceeded, err = limiter.AllowRoute(ctx.Context(), hashKey(ip), route, cfg.Limits)
		} else {
			key := hashKey(ip, ctx.Header("User-Agent"))
			allowed, exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		log := logging.FromContext(ctx.Context(), logger).With(
			zap.String("route", route),
			zap.String("method", ctx.Method()),
			zap.String("client_ip", ip),
		)

		if err != nil {
			log.Error("rate limit check failed", zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			writeTooManyRequests(api, ctx, exceeded, log)

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

func writeTooManyRequests(api huma.API, ctx huma.Context, exceeded *ratelimit.LimitExceeded, log *zap.Logger) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		msg = fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
			exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)

		log.Warn("rate limit exceeded",
			zap.String("scope", string(exceeded.Scope)),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
		)
	}

	ctx.SetHeader("Retry-After", retryAfter(exceeded))
	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}

func retryAfter(exceeded *ratelimit.LimitExceeded) string {
	if exceeded == nil {
		return "60"
	}

	return fmt.Sprintf("%d", int64(exceeded.Config.Window.Seconds()))
}
