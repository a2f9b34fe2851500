package httpclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attempt records one failed delivery of a request.
type Attempt struct {
	Time    time.Time
	Err     error
	Elapsed time.Duration
}

// RetryContext tracks the retry state of one logical request. A
// context is created on the first attempt, updated on every failure
// and removed on success, terminal failure, eviction or expiry. A
// request whose context was evicted simply starts over at zero
// retries.
//
// Identical requests issued concurrently resolve to the same context.
// The client serializes their attempt chains on mu, so retry counts
// and attempt history stay consistent.
type RetryContext struct {
	mu sync.Mutex

	// Key is the request identity this state is stored under.
	Key string
	// ID correlates every attempt of this logical request in logs.
	ID string

	RetryCount int
	StartTime  time.Time
	Attempts   []Attempt

	// Request is the request as last issued. Retries re-send this
	// value, so interceptor mutations persist across attempts.
	Request Request

	// Timeout is the deadline budget for the next attempt. The
	// decay timeout strategy grows it between attempts.
	Timeout time.Duration

	// Category names the retry category the request matched, empty
	// when none did.
	Category string
}

func newRetryContext(key string, req Request, timeout time.Duration, category string) *RetryContext {
	return &RetryContext{
		Key:       key,
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Request:   req,
		Timeout:   timeout,
		Category:  category,
	}
}

// recordAttempt appends a failed attempt.
func (rc *RetryContext) recordAttempt(err error, elapsed time.Duration) {
	rc.Attempts = append(rc.Attempts, Attempt{Time: time.Now(), Err: err, Elapsed: elapsed})
}

// Age returns how long ago the first attempt started.
func (rc *RetryContext) Age() time.Duration {
	return time.Since(rc.StartTime)
}
