// Package retry runs an operation until it succeeds, backing off
// exponentially with jitter between attempts. cmd/tracker uses it to dial
// postgres and redis at startup.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// PermanentError stops the retry loop immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as not worth retrying. Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// RetryAll retries every error except permanent ones and context cancellation.
func RetryAll(err error) bool {
	return !IsPermanent(err) && !errors.Is(err, context.Canceled)
}

// Policy describes how often and how long to retry.
type Policy struct {
	// Attempts is the total number of tries, the first one included.
	Attempts int

	// BaseDelay is the wait after the first failure; it grows by Factor
	// per attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Factor    float64

	// Jitter randomizes this fraction (0..1) of every wait.
	Jitter float64

	// PerAttempt bounds each try when > 0.
	PerAttempt time.Duration

	ShouldRetry func(error) bool
	BeforeRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy tries three times, starting at 100ms.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:    3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Factor:      2,
		Jitter:      0.1,
		ShouldRetry: RetryAll,
	}
}

// Option adjusts a Policy.
type Option func(*Policy)

// WithMaxAttempts sets the total number of tries. Values < 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.Attempts = n
		}
	}
}

// WithInitialDelay sets the wait after the first failure.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.BaseDelay = d
		}
	}
}

// WithMaxDelay caps the wait between tries.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.MaxDelay = d
		}
	}
}

// WithMultiplier sets the growth factor; values below 1 are ignored.
func WithMultiplier(f float64) Option {
	return func(p *Policy) {
		if f >= 1 {
			p.Factor = f
		}
	}
}

// WithJitter sets the randomized fraction of each wait.
func WithJitter(j float64) Option {
	return func(p *Policy) {
		if j >= 0 && j <= 1 {
			p.Jitter = j
		}
	}
}

// WithAttemptTimeout bounds every single try.
func WithAttemptTimeout(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.PerAttempt = d
		}
	}
}

// WithRetryIf replaces the retry predicate.
func WithRetryIf(fn func(error) bool) Option {
	return func(p *Policy) {
		if fn != nil {
			p.ShouldRetry = fn
		}
	}
}

// WithOnRetry registers a hook called before each wait.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(p *Policy) {
		p.BeforeRetry = fn
	}
}

// Retrier executes operations under a Policy.
type Retrier struct {
	policy Policy
}

// New builds a Retrier from DefaultPolicy and opts.
func New(opts ...Option) *Retrier {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	return &Retrier{policy: p}
}

// Do calls op until it succeeds, the policy gives up, or ctx ends.
// The last error of op is returned with any Permanent wrapper removed.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			if last != nil {
				return strip(last)
			}
			return ctx.Err()
		}

		last = r.try(ctx, op)
		if last == nil {
			return nil
		}
		if attempt >= r.policy.Attempts || IsPermanent(last) || !r.policy.ShouldRetry(last) {
			return strip(last)
		}

		wait := r.backoff(attempt)
		if r.policy.BeforeRetry != nil {
			r.policy.BeforeRetry(attempt, last, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return strip(last)
		case <-timer.C:
		}
	}
}

func (r *Retrier) try(ctx context.Context, op func(ctx context.Context) error) error {
	if r.policy.PerAttempt <= 0 {
		return op(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, r.policy.PerAttempt)
	defer cancel()
	return op(tctx)
}

// backoff returns BaseDelay * Factor^(attempt-1), capped and jittered.
func (r *Retrier) backoff(attempt int) time.Duration {
	d := float64(r.policy.BaseDelay) * math.Pow(r.policy.Factor, float64(attempt-1))
	d = math.Min(d, float64(r.policy.MaxDelay))
	if r.policy.Jitter > 0 {
		d += d * r.policy.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(math.Max(d, 0))
}

func strip(err error) error {
	if pe, ok := err.(*PermanentError); ok {
		return pe.Err
	}
	return err
}

// Do is New(opts...).Do(ctx, op).
func Do(ctx context.Context, op func(ctx context.Context) error, opts ...Option) error {
	return New(opts...).Do(ctx, op)
}

// DoWithData is Do for operations that produce a value.
func DoWithData[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	var out T
	err := New(opts...).Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err == nil {
			out = v
		}
		return err
	})
	return out, err
}

// StartupOptions is the policy for dialing a backing service at startup:
// attempts tries, each bounded by timeout, every non-permanent error retried.
func StartupOptions(attempts int, timeout time.Duration, onRetry func(attempt int, err error, wait time.Duration)) []Option {
	return []Option{
		WithMaxAttempts(attempts),
		WithInitialDelay(250 * time.Millisecond),
		WithMaxDelay(5 * time.Second),
		WithMultiplier(2),
		WithJitter(0.2),
		WithAttemptTimeout(timeout),
		WithRetryIf(RetryAll),
		WithOnRetry(onRetry),
	}
}
