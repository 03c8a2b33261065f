package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the limit a request ran into.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces the limits of a Policy per client.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every limit of every scope and reports
// the first limit that is exceeded, if any.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			exceeded, err := l.check(ctx, fmt.Sprintf("%s:%s", clientKey, scope), scope, limit)
			if err != nil || exceeded != nil {
				return false, exceeded, err
			}
		}
	}

	return true, nil, nil
}

// AllowRoute applies endpoint-specific limits, tracked per route template
// rather than per concrete path.
func (l *PolicyLimiter) AllowRoute(
	ctx context.Context,
	clientKey, route string,
	limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		exceeded, err := l.check(ctx, fmt.Sprintf("%s:route:%s", clientKey, route), ScopeRoute, limit)
		if err != nil || exceeded != nil {
			return false, exceeded, err
		}
	}

	return true, nil, nil
}

func (l *PolicyLimiter) check(ctx context.Context, prefix string, scope Scope, limit LimitConfig) (*LimitExceeded, error) {
	key := fmt.Sprintf("%s:%d", prefix, limit.Window.Milliseconds())

	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}

	if count > limit.Max {
		return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
	}

	return nil, nil
}
