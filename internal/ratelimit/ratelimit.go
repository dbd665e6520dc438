package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter paces outbound requests. Wait blocks for the limiter's current
// delay or until the context is done.
type Limiter interface {
	Wait(ctx context.Context) error
	SetDelay(min, max time.Duration)
}

// JitterLimiter sleeps a random duration inside [min, max] on every Wait.
// Unlike a throughput limiter it never skips the pause: the randomized gap
// itself is the evasion measure against rate-limit triggered blocking, so
// even the first request of a burst pays it.
type JitterLimiter struct {
	mu       sync.Mutex
	minDelay time.Duration
	maxDelay time.Duration
}

func NewJitterLimiter(minDelay, maxDelay time.Duration) *JitterLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &JitterLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (l *JitterLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.delay()):
		return nil
	}
}

func (l *JitterLimiter) SetDelay(min, max time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.minDelay = min
	l.maxDelay = max
	if l.maxDelay < l.minDelay {
		l.maxDelay = l.minDelay
	}
}

func (l *JitterLimiter) delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxDelay == l.minDelay {
		return l.minDelay
	}
	return l.minDelay + time.Duration(rand.Int63n(int64(l.maxDelay-l.minDelay)))
}
