// Package ratelimit limits requests per client key over a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Rule is "Limit requests per Window".
type Rule struct {
	Limit  int
	Window time.Duration
}

// PerMinute is shorthand for a one-minute Rule.
func PerMinute(n int) Rule {
	return Rule{Limit: n, Window: time.Minute}
}

// Result describes a single Allow decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (*Result, error)
}
