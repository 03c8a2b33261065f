package ratelimit

import "time"

// LimitConfig allows at most Max requests per sliding Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits that apply to them. A scope may carry
// several limits, e.g. a burst limit and an hourly limit.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy returns the scope limits for the whole API. Production is
// stricter on writes.
func DefaultPolicy(production bool) *Policy {
	writes := []LimitConfig{{Window: time.Minute, Max: 30}}
	if production {
		writes = []LimitConfig{{Window: time.Minute, Max: 10}, {Window: time.Hour, Max: 60}}
	}

	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {{Window: time.Minute, Max: 600}},
			ScopeRead:   {{Window: time.Minute, Max: 300}},
			ScopeWrite:  writes,
		},
	}
}

// SubmissionLimit is the per-client limit on link submissions: 10 an hour in
// production, 3 a minute elsewhere.
func SubmissionLimit(production bool) LimitConfig {
	if production {
		return LimitConfig{Window: time.Hour, Max: 10}
	}

	return LimitConfig{Window: time.Minute, Max: 3}
}
