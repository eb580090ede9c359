package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter
type RateLimiter struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	subject    string             // Reference to subject for cleanup
	parent     *SubjectRateLimiter // Reference to parent for cleanup
}

// SubjectRateLimiter manages one token bucket per subject (an email, an IP,
// a push topic). Idle buckets expire to keep the map bounded.
type SubjectRateLimiter struct {
	limiters       map[string]*RateLimiter
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// NewSubjectRateLimiter creates a new SubjectRateLimiter instance
func NewSubjectRateLimiter(rate float64, capacity float64, expirationTime time.Duration) *SubjectRateLimiter {
	return &SubjectRateLimiter{
		limiters:       make(map[string]*RateLimiter),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// cleanup removes a specific limiter
func (srl *SubjectRateLimiter) cleanup(subject string) {
	srl.mu.Lock()
	delete(srl.limiters, subject)
	srl.mu.Unlock()
}

// resetTimer resets the expiration timer for a limiter
func (rl *RateLimiter) resetTimer() {
	if rl.timer != nil {
		rl.timer.Stop()
	}

	rl.timer = time.AfterFunc(rl.parent.expirationTime, func() {
		rl.parent.cleanup(rl.subject)
	})
}

// getLimiter gets or creates a rate limiter for a subject
func (srl *SubjectRateLimiter) getLimiter(subject string) *RateLimiter {
	// First try read-only lookup
	srl.mu.RLock()
	limiter, exists := srl.limiters[subject]
	srl.mu.RUnlock()

	if exists {
		limiter.resetTimer()
		return limiter
	}

	srl.mu.Lock()
	defer srl.mu.Unlock()

	// Double-check after acquiring write lock
	limiter, exists = srl.limiters[subject]
	if exists {
		limiter.resetTimer()
		return limiter
	}

	limiter = &RateLimiter{
		tokens:     srl.capacity,
		capacity:   srl.capacity,
		rate:       srl.rate,
		lastRefill: time.Now(),
		subject:    subject,
		parent:     srl,
	}
	srl.limiters[subject] = limiter
	limiter.resetTimer()

	return limiter
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}

	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}

	return false
}

// Allow checks if a request should be allowed for a given subject
func (srl *SubjectRateLimiter) Allow(subject string) bool {
	return srl.getLimiter(subject).Allow()
}

// Stop cleans up all timers
func (srl *SubjectRateLimiter) Stop() {
	srl.mu.Lock()
	defer srl.mu.Unlock()

	for _, limiter := range srl.limiters {
		if limiter.timer != nil {
			limiter.timer.Stop()
		}
	}
}
