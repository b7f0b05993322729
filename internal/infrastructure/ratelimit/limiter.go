package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	redispkg "cardano-explorer.backend/pkg/redis"
)

// Decision is the verdict for one inbound request
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects requests per client key
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// LocalLimiter keeps one token bucket per client in process memory.
// Idle buckets expire after two windows.
type LocalLimiter struct {
	limit   rate.Limit
	burst   int
	window  time.Duration
	buckets *gocache.Cache
	mu      sync.Mutex
}

// NewLocalLimiter allows max requests per window for each key
func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		window:  window,
		buckets: gocache.New(2*window, 4*window),
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	bucket := l.bucket(key)
	now := time.Now()
	reservation := bucket.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, Limit: l.burst, RetryAfter: delay}, nil
	}
	remaining := int(bucket.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: l.burst, Remaining: remaining}, nil
}

func (l *LocalLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	b := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, b)
	return b
}

// RedisLimiter shares a fixed window counter across instances
type RedisLimiter struct {
	max    int
	window time.Duration
	prefix string
}

// NewRedisLimiter allows max requests per window for each key using the shared Redis client
func NewRedisLimiter(max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{max: max, window: window, prefix: "ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, ttl, err := redispkg.IncrWindow(ctx, l.prefix+key, l.window)
	if err != nil {
		return Decision{}, err
	}
	if count > int64(l.max) {
		return Decision{Allowed: false, Limit: l.max, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Limit: l.max, Remaining: l.max - int(count)}, nil
}

// New picks the Redis limiter when Redis is configured, otherwise the in-process one
func New(max int, window time.Duration) Limiter {
	if redispkg.Enabled() {
		return NewRedisLimiter(max, window)
	}
	return NewLocalLimiter(max, window)
}
