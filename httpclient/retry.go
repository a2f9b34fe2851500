package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/robusthttp/logger"
	"github.com/kbukum/robusthttp/resilience"
)

// retryPolicy is the effective policy for one request after category
// overrides are merged over the base retry config.
type retryPolicy struct {
	maxRetries int
	retryIf    func(error) bool
	backoff    resilience.Backoff
}

// policyFor merges the request's category, if any, over the base
// retry config.
func (c *Client) policyFor(rc *RetryContext) retryPolicy {
	base := c.config.Retry
	p := retryPolicy{
		maxRetries: base.MaxRetries,
		retryIf:    base.RetryIf,
		backoff:    base.backoff(),
	}
	if rc.Category == "" {
		return p
	}
	for _, cat := range base.Categories {
		if cat.Name != rc.Category {
			continue
		}
		if cat.MaxRetries != nil {
			p.maxRetries = *cat.MaxRetries
		}
		if cat.RetryIf != nil {
			p.retryIf = cat.RetryIf
		}
		if cat.Strategy != nil {
			p.backoff.Strategy = *cat.Strategy
		}
		if cat.CustomBackoff != nil {
			p.backoff.Custom = cat.CustomBackoff
			if cat.Strategy == nil {
				p.backoff.Strategy = resilience.BackoffCustom
			}
		}
		break
	}
	return p
}

// categoryFor returns the name of the first category whose matcher
// accepts req, or empty. Matching is decided once per logical request.
func (c *Client) categoryFor(req *Request) string {
	if c.config.Retry == nil {
		return ""
	}
	for _, cat := range c.config.Retry.Categories {
		if cat.Matcher != nil && cat.Matcher(req) {
			return cat.Name
		}
	}
	return ""
}

// shouldRetry decides whether another attempt is warranted for err.
// Cancellations and exhausted budgets never retry.
func (c *Client) shouldRetry(rc *RetryContext, err error) bool {
	if c.config.Retry == nil {
		return false
	}
	if IsCancellationError(err) {
		return false
	}
	p := c.policyFor(rc)
	if rc.RetryCount >= p.maxRetries {
		return false
	}
	return c.evalRetryIf(p.retryIf, err)
}

// evalRetryIf runs the user predicate, treating a panic as "do not
// retry" so a broken predicate cannot take down the client.
func (c *Client) evalRetryIf(fn func(error) bool, err error) (retry bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("retry predicate panicked", logger.Fields("panic", fmt.Sprint(r)))
			retry = false
		}
	}()
	if fn == nil {
		return DefaultRetryIf(err)
	}
	return fn(err)
}

// prepareRetry bumps the retry count, applies the timeout strategy,
// fires the retry hook and waits out the backoff delay. A non-nil
// return means the wait was cancelled and the request must fail.
func (c *Client) prepareRetry(ctx context.Context, rc *RetryContext, err error) error {
	if ctx.Err() != nil {
		return NewCancellationError(ctx.Err())
	}

	rc.RetryCount++

	p := c.policyFor(rc)
	delay := p.backoff.Delay(rc.RetryCount, err)

	// A server supplied Retry-After wins over the computed backoff.
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		delay = e.RetryAfter
	}

	if c.config.Retry.TimeoutStrategy == TimeoutDecay {
		rc.Timeout = time.Duration(float64(rc.Timeout) * c.config.Retry.TimeoutMultiplier)
	}

	c.log.Warn("retrying request", logger.Fields(
		logger.FieldMethod, rc.Request.Method,
		logger.FieldURL, rc.Request.Path,
		logger.FieldRequestID, rc.ID,
		logger.FieldAttempt, rc.RetryCount,
		logger.FieldCategory, rc.Category,
		logger.FieldDelay, delay.Milliseconds()))

	if c.config.Retry.OnRetry != nil {
		c.config.Retry.OnRetry(ctx, rc, err, delay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return NewCancellationError(ctx.Err())
	case <-timer.C:
	}
	if ctx.Err() != nil {
		return NewCancellationError(ctx.Err())
	}
	return nil
}
