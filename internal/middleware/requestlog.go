// Package middleware holds the huma middlewares shared by every operation.
package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/shortly/internal/logging"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger tags each request with an id, stores a logger carrying it in
// the request context and writes an access log line once the handler returns.
// It also sets Vary: Accept-Encoding on every response.
func RequestLogger(logger *zap.Logger, clientIP ClientIPFunc) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := ctx.Header(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		reqLogger := logger.With(zap.String("request_id", requestID))

		ctx.SetHeader(RequestIDHeader, requestID)
		ctx.SetHeader("Vary", "Accept-Encoding")

		start := time.Now()
		ctx = huma.WithContext(ctx, logging.WithLogger(ctx.Context(), reqLogger))

		next(ctx)

		u := ctx.URL()

		reqLogger.Info("request",
			zap.String("method", ctx.Method()),
			zap.String("path", u.Path),
			zap.Int("status", ctx.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", clientIP(ctx)),
			zap.String("user_agent", ctx.Header("User-Agent")),
			zap.String("referer", ctx.Header("Referer")),
		)
	}
}
