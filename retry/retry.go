// Package retry wraps remote writes in bounded retry with exponential
// backoff. Transient failures (network, rate limit) are retried;
// permanent ones (auth, not found) fail fast. After exhaustion the last
// error is returned, never a default value.
package retry

import (
	"context"
	"time"

	"github.com/totizi/Mogiten-system/rowstore"
)

// Runner executes operations with bounded retry. The zero value is not
// usable; construct with New.
type Runner struct {
	Attempts  int
	BaseDelay time.Duration

	sleep func(time.Duration)
}

// New creates a runner with the standard policy: 3 attempts, backoff of
// base × 2^attempt between them.
func New(baseDelay time.Duration) *Runner {
	return &Runner{Attempts: 3, BaseDelay: baseDelay, sleep: time.Sleep}
}

// SetSleep replaces the backoff sleeper, for tests.
func (r *Runner) SetSleep(sleep func(time.Duration)) { r.sleep = sleep }

// Do runs op until it succeeds, fails permanently, or attempts run out.
// Once dispatched an operation is never cancelled mid-attempt; ctx is
// only consulted between attempts.
func (r *Runner) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 0; attempt < r.Attempts; attempt++ {
		if attempt > 0 {
			r.sleep(r.BaseDelay * (1 << uint(attempt-1)))
			if err := ctx.Err(); err != nil {
				return last
			}
		}
		last = op(ctx)
		if last == nil {
			return nil
		}
		if !rowstore.IsTransient(last) {
			return last
		}
	}
	return last
}
