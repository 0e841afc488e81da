package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/progress-tracker/pkg/circuitbreaker"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "feedback:msg:faiza", MessageKey("faiza"))
	assert.Equal(t, "feedback:stats:faiza", StatisticsKey("faiza"))
	assert.NotEqual(t, MessageKey("ratul"), StatisticsKey("ratul"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Positive(t, cfg.PoolSize)
	assert.Positive(t, cfg.DialTimeout)
}

func TestNewCache_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	c, err := NewCache(ctx, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheConnection)
	assert.Nil(t, c)
}

func TestCache_ArgumentChecks(t *testing.T) {
	// argument checks run before any network call
	c := &Cache{}
	ctx := context.Background()

	assert.ErrorIs(t, c.Set(ctx, "", "v", time.Minute), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, time.Minute), ErrCacheNilValue)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", -time.Second), ErrCacheInvalidTTL)
	assert.ErrorIs(t, c.Get(ctx, "", new(string)), ErrCacheKeyEmpty)
	assert.NoError(t, c.Delete(ctx))
}

func TestFeedbackCache_RejectsNilStatistics(t *testing.T) {
	f := NewFeedbackCache(&Cache{}, time.Minute, nil)
	assert.ErrorIs(t, f.SetStatistics(context.Background(), "faiza", nil), ErrCacheNilValue)
}

func TestMissIsNotError(t *testing.T) {
	assert.NoError(t, missIsNotError(ErrCacheMiss))
	assert.ErrorIs(t, missIsNotError(ErrCacheConnection), ErrCacheConnection)
}

func TestFeedbackCache_OpenBreakerIsMiss(t *testing.T) {
	cb := circuitbreaker.New("test", circuitbreaker.WithFailureThreshold(1), circuitbreaker.WithTimeout(time.Hour))
	cb.Record(ErrCacheConnection)
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	// the zero Cache has no client; an open breaker must keep it from being used
	f := NewFeedbackCache(&Cache{}, time.Minute, cb)
	ctx := context.Background()

	msg, ok, err := f.GetMessage(ctx, "faiza")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, msg)

	stats, ok, err := f.GetStatistics(ctx, "faiza")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, stats)

	assert.NoError(t, f.SetMessage(ctx, "faiza", "hi"))
}
