package access

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitKey derives the lockout key from the raw route parameter.
// Deliberately NOT the URL-decoded name: this matches the product's current
// behavior, where a name that URL-encodes differently across calls fragments
// its own lockout counter. Pinned by test; change here once product decides.
func RateLimitKey(rawProjectName string) string {
	return "project:" + rawProjectName
}

// LimitStatus is the limiter's answer for one key.
type LimitStatus struct {
	Locked    bool
	Remaining int
}

// RateLimiter counts failed verification attempts per key. The verification
// flow depends only on this interface so single-instance deployments can run
// the in-memory limiter and multi-instance ones the redis-backed limiter.
type RateLimiter interface {
	// Check reports the current status without recording anything.
	Check(ctx context.Context, key string) (LimitStatus, error)
	// Fail records a failed attempt and returns the resulting status.
	Fail(ctx context.Context, key string) (LimitStatus, error)
	// Clear forgets the key entirely (successful verification).
	Clear(ctx context.Context, key string) error
}

type attemptRecord struct {
	count       int
	lastAttempt time.Time
}

// MemoryLimiter is the process-local limiter. Stale records are reaped
// lazily on the next touch of the same key, not by a background sweep.
// Unlike the single-threaded host this design came from, Go serves requests
// in parallel, so the check-then-increment sequence holds a real lock.
type MemoryLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	max    int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(maxAttempts int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		attempts: map[string]*attemptRecord{},
		max:      maxAttempts,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key string) (LimitStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := l.fresh(key)
	if rec == nil {
		return LimitStatus{Remaining: l.max}, nil
	}
	return l.status(rec), nil
}

func (l *MemoryLimiter) Fail(_ context.Context, key string) (LimitStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := l.fresh(key)
	if rec == nil {
		rec = &attemptRecord{}
		l.attempts[key] = rec
	}
	rec.count++
	rec.lastAttempt = l.now()
	return l.status(rec), nil
}

func (l *MemoryLimiter) Clear(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}

// fresh returns the live record for key, deleting it first if the lockout
// window has elapsed since the last attempt. Callers hold l.mu.
func (l *MemoryLimiter) fresh(key string) *attemptRecord {
	rec, ok := l.attempts[key]
	if !ok {
		return nil
	}
	if l.now().Sub(rec.lastAttempt) >= l.window {
		delete(l.attempts, key)
		return nil
	}
	return rec
}

func (l *MemoryLimiter) status(rec *attemptRecord) LimitStatus {
	remaining := l.max - rec.count
	if remaining < 0 {
		remaining = 0
	}
	return LimitStatus{Locked: rec.count >= l.max, Remaining: remaining}
}

// failScript bumps the counter and restarts its expiry window atomically,
// so concurrent failures across instances cannot lose increments.
var failScript = redis.NewScript(`
-- KEYS[1] = attempt counter key
-- ARGV[1] = window_ms (int)
local count = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return count
`)

// RedisLimiter shares attempt counters across instances. Expiry is handled
// by redis key TTL instead of lazy reaping.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: maxAttempts, window: window}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (LimitStatus, error) {
	count, err := l.rdb.Get(ctx, l.redisKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return LimitStatus{Remaining: l.max}, nil
		}
		return LimitStatus{}, err
	}
	return l.status(count), nil
}

func (l *RedisLimiter) Fail(ctx context.Context, key string) (LimitStatus, error) {
	count, err := failScript.Run(ctx, l.rdb, []string{l.redisKey(key)}, l.window.Milliseconds()).Int()
	if err != nil {
		return LimitStatus{}, err
	}
	return l.status(count), nil
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.redisKey(key)).Err()
}

func (l *RedisLimiter) redisKey(key string) string {
	return "access:attempts:" + key
}

func (l *RedisLimiter) status(count int) LimitStatus {
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return LimitStatus{Locked: count >= l.max, Remaining: remaining}
}
