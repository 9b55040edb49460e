package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

// Policy is an explicit retry value object passed into each adapter call.
// Delay for retry n is min(BaseDelay * 2^(n-1), MaxDelay) plus a jitter of up
// to 30% of the delay, clamped so consecutive delays are non-decreasing and
// never exceed MaxDelay. Each attempt runs under its own Timeout.
type Policy struct {
	MaxRetries int           // additional attempts after the first failure
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // cap on any computed delay
	Timeout    time.Duration // per-attempt deadline; zero disables
}

// Delay returns the backoff before retry attempt n (1-based), without jitter.
func (p Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// delayFor adds positive jitter (up to 30%) and honors a server-provided
// Retry-After when the failure was a rate limit.
func (p Policy) delayFor(attempt int, err error) time.Duration {
	var rl *model.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	delay := p.Delay(attempt)
	jitter := time.Duration(rand.Float64() * 0.3 * float64(delay))
	if delay+jitter > p.MaxDelay {
		return p.MaxDelay
	}
	return delay + jitter
}

// Do runs fn, retrying transient failures per the policy. A per-attempt
// timeout that fires while the parent context is still live is reported as a
// retriable network error. Terminal failures are returned unchanged so the
// fallback chain can inspect their classification.
func (p Policy) Do(ctx context.Context, logger *slog.Logger, op string, fn func(ctx context.Context) error) error {
	lastErr := p.attempt(ctx, op, fn)
	if lastErr == nil || !model.Retryable(lastErr) {
		return lastErr
	}

	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		delay := p.delayFor(attempt, lastErr)

		logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", p.MaxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		err := p.attempt(ctx, op, fn)
		if err == nil {
			return nil
		}
		if !model.Retryable(err) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

// attempt runs fn once under the per-attempt timeout. An attempt-level
// deadline (parent still live) is reclassified as a network error so the
// caller retries it; parent cancellation passes through untouched.
func (p Policy) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if p.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
	}
	defer cancel()

	err := fn(attemptCtx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("attempt timed out after %s", p.Timeout)}
	}

	return err
}
