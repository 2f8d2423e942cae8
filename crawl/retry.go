package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/guidecrawl"
)

// Retry defaults for rendering.
const (
	DefaultMaxRetries  = 2
	DefaultBackoffStep = 2 * time.Second
)

// RetryPolicy decides whether and when a failed operation is attempted again.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries int

	// Backoff returns the delay before retry number attempt (1-based).
	Backoff func(attempt int) time.Duration

	// Retryable reports whether err is worth another attempt.
	// A nil Retryable retries nothing.
	Retryable func(err error) bool

	// BeforeRetry runs before the backoff delay of each retry.
	// An error from it ends the operation.
	BeforeRetry func(ctx context.Context, attempt int) error
}

// SessionRetryPolicy retries ESESSION failures up to twice, resetting
// session before each retry and waiting 2s, then 4s.
func SessionRetryPolicy(session guidecrawl.Session) RetryPolicy {
	return RetryPolicy{
		MaxRetries:  DefaultMaxRetries,
		Backoff:     LinearBackoff(DefaultBackoffStep),
		Retryable:   IsSessionError,
		BeforeRetry: func(ctx context.Context, _ int) error {
			return session.Reset(ctx)
		},
	}
}

// LinearBackoff returns a backoff of step times the attempt number.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// IsSessionError reports whether err is a browser session failure.
func IsSessionError(err error) bool {
	return guidecrawl.ErrorCode(err) == guidecrawl.ESESSION
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// retries are exhausted. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		// Don't retry after the last attempt
		if attempt >= p.MaxRetries || p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if p.BeforeRetry != nil {
			if resetErr := p.BeforeRetry(ctx, attempt+1); resetErr != nil {
				return fmt.Errorf("preparing retry after %v: %w", err, resetErr)
			}
		}

		if p.Backoff != nil {
			if err := wait(ctx, p.Backoff(attempt+1)); err != nil {
				return err
			}
		}
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
