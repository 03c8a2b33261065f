// Package denylist blocks submissions whose host is on the banned domain list.
package denylist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoHost is returned when a URL carries no host to check.
var ErrNoHost = errors.New("url has no host")

// Lookup checks a normalized host against the persisted denylist.
type Lookup interface {
	IsBannedDomain(ctx context.Context, host string) (bool, error)
}

// Gate answers whether a submitted URL points at a banned domain.
type Gate struct {
	lookup Lookup
}

// NewGate creates a new denylist gate.
func NewGate(lookup Lookup) *Gate {
	return &Gate{lookup: lookup}
}

// Host extracts the host of rawURL the same way the denylist stores it:
// lowercased, without port and without a trailing dot.
func Host(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", ErrNoHost
	}

	return host, nil
}

// IsBanned reports whether the host of rawURL is denylisted. Lookup failures
// are returned as errors and must never be read as "not banned".
func (g *Gate) IsBanned(ctx context.Context, rawURL string) (bool, error) {
	host, err := Host(rawURL)
	if err != nil {
		return false, err
	}

	banned, err := g.lookup.IsBannedDomain(ctx, host)
	if err != nil {
		return false, fmt.Errorf("denylist lookup for %q: %w", host, err)
	}

	return banned, nil
}
