package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when the rate limiter rejects a request.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a token bucket rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for logging.
	Name string
	// MaxRequests is the bucket capacity: the maximum burst and the number
	// of requests allowed per Window on average.
	MaxRequests int
	// Window is the time window over which MaxRequests tokens are refilled.
	Window time.Duration
	// OnLimit is called when a request is rejected.
	OnLimit func(name string)
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:        name,
		MaxRequests: 10,
		Window:      time.Second,
	}
}

// RateLimiter is a continuously refilling token bucket. Bursts up to
// MaxRequests are allowed at any instant; the average admission rate is
// bounded to MaxRequests per Window. Rejected callers are not queued.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxRequests <= 0 {
		config.MaxRequests = 10
	}
	if config.Window <= 0 {
		config.Window = time.Second
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.MaxRequests),
		lastRefill: time.Now(),
	}
}

// TryAcquire consumes one token if available. It never blocks; a false
// return means the caller must handle the rejection itself. OnLimit
// runs after the lock is released, so the hook may call back into the
// limiter.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		rl.mu.Unlock()
		return true
	}
	onLimit := rl.config.OnLimit
	rl.mu.Unlock()

	if onLimit != nil {
		onLimit(rl.config.Name)
	}
	return false
}

// Execute runs fn if a token is available, otherwise returns ErrRateLimited.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.TryAcquire() {
		return ErrRateLimited
	}
	return fn()
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// MaxRequests returns the bucket capacity.
func (rl *RateLimiter) MaxRequests() int {
	return rl.config.MaxRequests
}

// Window returns the refill window.
func (rl *RateLimiter) Window() time.Duration {
	return rl.config.Window
}

// refill adds tokens for the elapsed time, capped at capacity. Callers must
// hold rl.mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	rl.lastRefill = now

	rl.tokens += elapsed.Seconds() * float64(rl.config.MaxRequests) / rl.config.Window.Seconds()

	if rl.tokens > float64(rl.config.MaxRequests) {
		rl.tokens = float64(rl.config.MaxRequests)
	}
}
