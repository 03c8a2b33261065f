package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ClientIPFunc extracts the address a request is attributed to.
type ClientIPFunc func(ctx huma.Context) string

// NewClientIP returns the client address extractor for the deployment.
// Forwarded headers are only honored behind a trusted proxy; any client can
// set them otherwise.
func NewClientIP(trustProxy bool) ClientIPFunc {
	if trustProxy {
		return ForwardedIP
	}

	return RemoteIP
}

// RemoteIP returns the address of the connected socket.
func RemoteIP(ctx huma.Context) string {
	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}

// ForwardedIP trusts the first X-Forwarded-For entry, then X-Real-IP, both set
// by the fronting proxy, and falls back to the socket address.
func ForwardedIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return RemoteIP(ctx)
}

func hashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))

	return hex.EncodeToString(sum[:])
}
