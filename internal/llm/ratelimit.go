package llm

import (
	"context"
	"sync"
	"time"
)

// rpsLimiter is a token bucket refilled lazily on acquisition: tokens
// accrue at rps up to burst, and Acquire sleeps until one is owed. No
// background goroutine is involved, so an idle limiter costs nothing.
type rpsLimiter struct {
	mu     sync.Mutex
	rps    float64
	burst  float64
	tokens float64
	last   time.Time
	closed chan struct{}
}

// newRPSLimiter returns nil when rps <= 0; a nil limiter admits everything.
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &rpsLimiter{
		rps:    rps,
		burst:  float64(burst),
		tokens: float64(burst),
		last:   time.Now(),
		closed: make(chan struct{}),
	}
}

// Acquire takes one token, waiting for the refill if the bucket is dry.
// It returns early when ctx is canceled or the limiter is stopped.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		l.mu.Lock()
		now := time.Now()
		l.tokens += now.Sub(l.last).Seconds() * l.rps
		if l.tokens > l.burst {
			l.tokens = l.burst
		}
		l.last = now
		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - l.tokens) / l.rps * float64(time.Second))
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-l.closed:
			timer.Stop()
			return context.Canceled
		case <-timer.C:
		}
	}
}

// Stop releases any waiters.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	select {
	case <-l.closed:
	default:
		close(l.closed)
	}
}
