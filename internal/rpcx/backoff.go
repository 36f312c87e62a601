package rpcx

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff produces the delay before each retry attempt: exponential growth
// from BaseDelay capped at MaxDelay, spread by a jitter factor so callers
// recovering from the same outage do not re-hit the gateway in lockstep.
// Only the retrying read path consults it; CallOnce never waits.
type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64

	mu   sync.Mutex
	rand *rand.Rand
}

// NewBackoff returns a Backoff with the supplied parameters, substituting
// small defaults for non-positive delays.
func NewBackoff(base, max time.Duration, jitter float64) Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return Backoff{
		BaseDelay: base,
		MaxDelay:  max,
		Jitter:    jitter,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ForAttempt returns the delay for the given attempt, starting at 0 for the
// first retry. Doubling stops at MaxDelay; overflow collapses to MaxDelay too.
func (b *Backoff) ForAttempt(attempt int) time.Duration {
	delay := b.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= b.MaxDelay || delay <= 0 {
			delay = b.MaxDelay
			break
		}
	}
	return b.addJitter(delay)
}

// addJitter scales the delay by a random factor in [1-Jitter, 1+Jitter].
func (b *Backoff) addJitter(delay time.Duration) time.Duration {
	if b.Jitter <= 0 || delay <= 0 {
		return delay
	}
	spread := b.Jitter
	if spread > 1 {
		spread = 1
	}

	b.mu.Lock()
	factor := 1 + (b.rand.Float64()*2-1)*spread
	b.mu.Unlock()
	return time.Duration(float64(delay) * factor)
}
