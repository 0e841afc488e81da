package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/pkg/circuitbreaker"
)

// Key prefixes for namespacing feedback keys.
const (
	PrefixMessage    = "feedback:msg:"
	PrefixStatistics = "feedback:stats:"
)

// MessageKey returns the key holding a student's personalized message.
func MessageKey(username string) string {
	return PrefixMessage + username
}

// StatisticsKey returns the key holding a student's statistics snapshot.
func StatisticsKey(username string) string {
	return PrefixStatistics + username
}

// FeedbackCache implements feedback.Cache on top of Cache.
//
// Reads and writes go through a circuit breaker: while it is open they
// behave as misses and no-ops. Invalidate always reaches Redis so a
// recovered server never serves an entry older than the last append.
type FeedbackCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

var _ feedback.Cache = (*FeedbackCache)(nil)

// NewFeedbackCache creates a FeedbackCache whose entries expire after ttl.
// breaker may be nil.
func NewFeedbackCache(cache *Cache, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *FeedbackCache {
	return &FeedbackCache{cache: cache, ttl: ttl, breaker: breaker}
}

// GetMessage returns the cached message, or ok=false on a miss.
func (f *FeedbackCache) GetMessage(ctx context.Context, username string) (string, bool, error) {
	var msg string
	if err := f.guard(ctx, func(ctx context.Context) error {
		return f.cache.Get(ctx, MessageKey(username), &msg)
	}); err != nil {
		return "", false, missIsNotError(err)
	}
	return msg, true, nil
}

// SetMessage caches a personalized message.
func (f *FeedbackCache) SetMessage(ctx context.Context, username, message string) error {
	return skipRejected(f.guard(ctx, func(ctx context.Context) error {
		return f.cache.Set(ctx, MessageKey(username), message, f.ttl)
	}))
}

// GetStatistics returns cached statistics, or ok=false on a miss.
func (f *FeedbackCache) GetStatistics(ctx context.Context, username string) (*feedback.Statistics, bool, error) {
	var stats feedback.Statistics
	if err := f.guard(ctx, func(ctx context.Context) error {
		return f.cache.Get(ctx, StatisticsKey(username), &stats)
	}); err != nil {
		return nil, false, missIsNotError(err)
	}
	return &stats, true, nil
}

// SetStatistics caches a statistics snapshot.
func (f *FeedbackCache) SetStatistics(ctx context.Context, username string, stats *feedback.Statistics) error {
	if stats == nil {
		return ErrCacheNilValue
	}
	return skipRejected(f.guard(ctx, func(ctx context.Context) error {
		return f.cache.Set(ctx, StatisticsKey(username), stats, f.ttl)
	}))
}

// Invalidate drops both entries for the student.
func (f *FeedbackCache) Invalidate(ctx context.Context, username string) error {
	err := f.cache.Delete(ctx, MessageKey(username), StatisticsKey(username))
	if f.breaker != nil {
		f.breaker.Record(err)
	}
	return err
}

// guard runs fn through the breaker. A cache miss is a healthy answer.
func (f *FeedbackCache) guard(ctx context.Context, fn func(context.Context) error) error {
	if f.breaker == nil {
		return fn(ctx)
	}
	var raw error
	if err := f.breaker.Execute(ctx, func(ctx context.Context) error {
		raw = fn(ctx)
		if errors.Is(raw, ErrCacheMiss) {
			return nil
		}
		return raw
	}); err != nil {
		return err
	}
	return raw
}

// missIsNotError maps a miss or a rejected call to nil.
func missIsNotError(err error) error {
	if errors.Is(err, ErrCacheMiss) || circuitbreaker.IsRejected(err) {
		return nil
	}
	return err
}

func skipRejected(err error) error {
	if circuitbreaker.IsRejected(err) {
		return nil
	}
	return err
}
