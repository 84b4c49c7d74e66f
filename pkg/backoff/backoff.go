// Package backoff wraps upstream API calls with jittered exponential retry
// on rate-limit errors. It knows nothing about the semantics of the calls it
// wraps; callers supply the error classifier.
package backoff

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrRateLimitExceeded is returned after the retry budget is exhausted.
// It is distinct from the upstream's own errors so callers can tell a
// terminal rate-limit apart from other failures.
var ErrRateLimitExceeded = errors.New("rate limit exceeded: max retries reached")

// Policy describes the retry behavior for rate-limited operations.
// The zero value is not usable; construct with New.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the first retry delay; each subsequent retry doubles it.
	BaseDelay time.Duration

	// MaxJitter bounds the uniform random addition to each delay.
	MaxJitter time.Duration

	// Retryable classifies errors worth retrying. Any other error
	// propagates unchanged after the first attempt.
	Retryable func(error) bool

	// sleep and jitter are injectable for tests.
	sleep  func(context.Context, time.Duration) error
	jitter func(time.Duration) time.Duration
}

// New builds a Policy with the given attempt budget and base delay.
// The classifier decides which errors are rate-limit signals.
func New(maxAttempts int, base, maxJitter time.Duration, retryable func(error) bool) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   base,
		MaxJitter:   maxJitter,
		Retryable:   retryable,
		sleep:       sleepCtx,
		jitter:      randomJitter,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

// Do runs op, retrying rate-limited failures with exponential backoff:
// delay = BaseDelay * 2^(attempt-1) + uniform jitter. Non-retryable errors
// propagate immediately. Exhausting MaxAttempts yields ErrRateLimitExceeded.
func (p *Policy) Do(ctx context.Context, op func() error) error {
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			return ErrRateLimitExceeded
		}

		delay := p.BaseDelay<<(attempt-1) + p.jitter(p.MaxJitter)
		if serr := p.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
	return ErrRateLimitExceeded
}

// Retry runs op under the policy and returns its value on success.
func Retry[T any](ctx context.Context, p *Policy, op func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
