package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter paces crawl actions so that consecutive requests to the
// storefront keep a randomized minimum spacing.
type Limiter interface {
	Wait(ctx context.Context) error
	SetDelay(min, max time.Duration)
}

// JitterLimiter enforces a randomized delay in [minDelay, maxDelay)
// between actions, measured from the end of the previous wait.
type JitterLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewJitterLimiter(minDelay, maxDelay time.Duration) *JitterLimiter {
	return &JitterLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (r *JitterLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastAction)
	delay := r.nextDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	r.lastAction = time.Now()
	return nil
}

func (r *JitterLimiter) SetDelay(min, max time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.minDelay = min
	r.maxDelay = max
}

func (r *JitterLimiter) nextDelay() time.Duration {
	return Jitter(r.minDelay, r.maxDelay)
}

// Jitter returns a random duration in [min, max); max <= min yields min.
func Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// BackoffLimiter stretches the delay window after repeated extraction
// failures and slowly relaxes it again after a run of successes.
type BackoffLimiter struct {
	*JitterLimiter
	errorCount    int
	successCount  int
	maxErrorCount int
	backoffFactor float64
}

func NewBackoffLimiter(minDelay, maxDelay time.Duration) *BackoffLimiter {
	return &BackoffLimiter{
		JitterLimiter: NewJitterLimiter(minDelay, maxDelay),
		maxErrorCount: 3,
		backoffFactor: 1.5,
	}
}

func (b *BackoffLimiter) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successCount++
	b.errorCount = 0

	if b.successCount > 5 {
		newMin := time.Duration(float64(b.minDelay) * 0.9)
		if newMin < time.Second {
			newMin = time.Second
		}
		b.minDelay = newMin
		b.successCount = 0
	}
}

func (b *BackoffLimiter) RecordError() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errorCount++
	b.successCount = 0

	if b.errorCount >= b.maxErrorCount {
		newMin := time.Duration(float64(b.minDelay) * b.backoffFactor)
		newMax := time.Duration(float64(b.maxDelay) * b.backoffFactor)

		if newMin > 60*time.Second {
			newMin = 60 * time.Second
		}
		if newMax > 120*time.Second {
			newMax = 120 * time.Second
		}

		b.minDelay = newMin
		b.maxDelay = newMax
		b.errorCount = 0
	}
}
