package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/robusthttp/resilience"
	"github.com/kbukum/robusthttp/validation"
)

// TimeoutStrategy controls how the per-attempt timeout evolves across
// retries of the same request.
type TimeoutStrategy int

const (
	// TimeoutReset gives every attempt the same full timeout.
	TimeoutReset TimeoutStrategy = iota
	// TimeoutDecay multiplies the timeout by TimeoutMultiplier
	// before each retry, giving later attempts more room.
	TimeoutDecay
)

// String returns the strategy name.
func (s TimeoutStrategy) String() string {
	switch s {
	case TimeoutReset:
		return "reset"
	case TimeoutDecay:
		return "decay"
	default:
		return "unknown"
	}
}

// Category overrides parts of the retry policy for requests matched by
// Matcher. The first matching category wins and the match is decided
// once, when the request's retry state is created.
type Category struct {
	Name    string
	Matcher func(*Request) bool

	// Override fields. Nil pointers inherit the base retry config.
	MaxRetries    *int
	RetryIf       func(error) bool
	Strategy      *resilience.BackoffStrategy
	CustomBackoff resilience.BackoffFunc
}

// RetryConfig controls the retry orchestrator.
type RetryConfig struct {
	// MaxRetries bounds retries per logical request, not counting
	// the initial attempt.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// Strategy selects the backoff curve.
	Strategy resilience.BackoffStrategy `mapstructure:"-" yaml:"-"`

	// CustomBackoff is consulted when Strategy is BackoffCustom.
	CustomBackoff resilience.BackoffFunc `mapstructure:"-" yaml:"-"`

	// RetryIf decides whether a classified error is worth another
	// attempt. Defaults to DefaultRetryIf.
	RetryIf func(error) bool `mapstructure:"-" yaml:"-"`

	// TimeoutStrategy and TimeoutMultiplier control the attempt
	// deadline across retries.
	TimeoutStrategy   TimeoutStrategy `mapstructure:"timeout_strategy" yaml:"timeout_strategy"`
	TimeoutMultiplier float64         `mapstructure:"timeout_multiplier" yaml:"timeout_multiplier"`

	// OnRetry fires after a retry is scheduled, before the backoff
	// delay elapses.
	OnRetry func(ctx context.Context, rc *RetryContext, err error, delay time.Duration) `mapstructure:"-" yaml:"-"`

	// OnSuccess fires when a request that had at least one failed
	// attempt finally succeeds.
	OnSuccess func(rc *RetryContext, resp *Response) `mapstructure:"-" yaml:"-"`

	// OnFailed fires when a request fails terminally.
	OnFailed func(rc *RetryContext, err error) `mapstructure:"-" yaml:"-"`

	Categories []Category `mapstructure:"-" yaml:"-"`
}

// DefaultRetryIf is the stock retry predicate: retry network errors,
// timeouts, rate limits and server errors, nothing else.
func DefaultRetryIf(err error) bool {
	return IsNetworkError(err) || IsTimeoutError(err) || IsRateLimitError(err) || IsServerError(err)
}

// ApplyDefaults fills zero values with sensible defaults.
func (c *RetryConfig) ApplyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryIf == nil {
		c.RetryIf = DefaultRetryIf
	}
	if c.TimeoutMultiplier == 0 {
		c.TimeoutMultiplier = 1.5
	}
}

// Validate checks the retry configuration.
func (c *RetryConfig) Validate() error {
	v := validation.New()
	v.Min("max_retries", int64(c.MaxRetries), 0)
	if c.TimeoutStrategy == TimeoutDecay {
		v.Check(c.TimeoutMultiplier >= 1, "timeout_multiplier", "must be at least 1 for the decay strategy")
	}
	if c.Strategy == resilience.BackoffCustom {
		v.Check(c.CustomBackoff != nil, "custom_backoff", "is required for the custom strategy")
	}
	for i, cat := range c.Categories {
		v.Check(cat.Name != "", fmt.Sprintf("categories[%d].name", i), "is required")
		v.Check(cat.Matcher != nil, fmt.Sprintf("categories[%d].matcher", i), "is required")
	}
	return v.Validate()
}

// backoff returns the backoff used by the base policy.
func (c *RetryConfig) backoff() resilience.Backoff {
	return resilience.Backoff{Strategy: c.Strategy, Custom: c.CustomBackoff}
}

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs and metrics.
	Name string `mapstructure:"name" yaml:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Timeout is the default per-attempt deadline.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Headers are applied to every request unless the request sets
	// the same header itself.
	Headers map[string]string `mapstructure:"headers" yaml:"headers"`

	// Debug enables request and response detail logging with
	// sensitive headers redacted.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// DryRun short-circuits the transport: requests flow through
	// the full pipeline but are answered locally with an empty 200.
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`

	// ContextThreshold bounds how many in-flight retry states are
	// tracked. Beyond it the least recently used state is evicted.
	ContextThreshold int `mapstructure:"context_threshold" yaml:"context_threshold"`

	// ContextMaxAge expires retry state older than this on the next
	// request, regardless of recency.
	ContextMaxAge time.Duration `mapstructure:"context_max_age" yaml:"context_max_age"`

	Retry          *RetryConfig                     `mapstructure:"retry" yaml:"retry"`
	RateLimit      *resilience.RateLimiterConfig    `mapstructure:"rate_limit" yaml:"rate_limit"`
	CircuitBreaker *resilience.CircuitBreakerConfig `mapstructure:"circuit_breaker" yaml:"circuit_breaker"`
}

// ApplyDefaults fills zero values with sensible defaults. Nil Retry,
// RateLimit and CircuitBreaker sections stay nil and disable the
// corresponding stage.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "httpclient"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.ContextThreshold == 0 {
		c.ContextThreshold = 100
	}
	if c.ContextMaxAge == 0 {
		c.ContextMaxAge = time.Hour
	}
	if c.Retry != nil {
		c.Retry.ApplyDefaults()
	}
	// Constructors normalize the nested resilience configs; only the
	// names need filling here so logs tie back to this client.
	if c.RateLimit != nil && c.RateLimit.Name == "" {
		c.RateLimit.Name = c.Name
	}
	if c.CircuitBreaker != nil && c.CircuitBreaker.Name == "" {
		c.CircuitBreaker.Name = c.Name
	}
}

// Validate checks the configuration, including nested sections.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	v := validation.New()
	v.Positive("timeout", int64(c.Timeout))
	v.Min("context_threshold", int64(c.ContextThreshold), 1)
	v.Positive("context_max_age", int64(c.ContextMaxAge))
	if err := v.Validate(); err != nil {
		return err
	}
	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return err
		}
	}
	return nil
}
