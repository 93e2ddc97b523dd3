package resilience

import (
	"sync"
	"time"
)

// Limiter is a token bucket refilled at Rate tokens per second up to Burst.
// Safe for concurrent use.
type Limiter struct {
	rate  float64
	burst float64
	now   func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

func newLimiter(rate float64, burst int, now func() time.Time) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = max(int(rate), 1)
	}
	return &Limiter{rate: rate, burst: float64(burst), now: now, tokens: float64(burst), last: now()}
}

// Allow takes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Tokens returns the tokens currently available.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

func (l *Limiter) refill() {
	now := l.now()
	l.tokens = min(l.burst, l.tokens+now.Sub(l.last).Seconds()*l.rate)
	l.last = now
}

// full reports whether the bucket has refilled completely.
func (l *Limiter) full() bool {
	return l.Tokens() >= l.burst
}

// KeyedLimiter keeps one Limiter per key, for example per client address.
// Buckets that have refilled completely are dropped by Sweep.
type KeyedLimiter struct {
	rate  float64
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*Limiter
}

// NewKeyedLimiter creates an empty keyed limiter.
func NewKeyedLimiter(rate float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{rate: rate, burst: burst, now: time.Now, buckets: make(map[string]*Limiter)}
}

// Allow takes one token from key's bucket.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	l, ok := k.buckets[key]
	if !ok {
		l = newLimiter(k.rate, k.burst, k.now)
		k.buckets[key] = l
	}
	k.mu.Unlock()
	return l.Allow()
}

// Sweep drops idle buckets and returns how many remain.
func (k *KeyedLimiter) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, l := range k.buckets {
		if l.full() {
			delete(k.buckets, key)
		}
	}
	return len(k.buckets)
}
