package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/robusthttp/resilience"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Name != "httpclient" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.ContextThreshold != 100 {
		t.Errorf("ContextThreshold = %d", cfg.ContextThreshold)
	}
	if cfg.ContextMaxAge != time.Hour {
		t.Errorf("ContextMaxAge = %v", cfg.ContextMaxAge)
	}
	if cfg.Retry != nil || cfg.RateLimit != nil || cfg.CircuitBreaker != nil {
		t.Error("resilience sections must stay nil unless configured")
	}
}

func TestConfig_ApplyDefaults_PropagatesName(t *testing.T) {
	cfg := Config{
		Name:           "payments",
		RateLimit:      &resilience.RateLimiterConfig{MaxRequests: 5},
		CircuitBreaker: &resilience.CircuitBreakerConfig{FailureThreshold: 3},
	}
	cfg.ApplyDefaults()

	if cfg.RateLimit.Name != "payments" {
		t.Errorf("RateLimit.Name = %q", cfg.RateLimit.Name)
	}
	if cfg.CircuitBreaker.Name != "payments" {
		t.Errorf("CircuitBreaker.Name = %q", cfg.CircuitBreaker.Name)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"valid base url", func(c *Config) { c.BaseURL = "https://api.example.com" }, false},
		{"invalid base url", func(c *Config) { c.BaseURL = "::not a url" }, true},
		{"negative threshold rejected", func(c *Config) { c.ContextThreshold = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryConfig_ApplyDefaults(t *testing.T) {
	rc := RetryConfig{}
	rc.ApplyDefaults()

	if rc.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", rc.MaxRetries)
	}
	if rc.RetryIf == nil {
		t.Error("RetryIf must default to DefaultRetryIf")
	}
	if rc.TimeoutMultiplier != 1.5 {
		t.Errorf("TimeoutMultiplier = %v", rc.TimeoutMultiplier)
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	strategy := resilience.BackoffLinear
	tests := []struct {
		name    string
		cfg     RetryConfig
		wantErr bool
	}{
		{
			"custom strategy without func",
			RetryConfig{MaxRetries: 1, Strategy: resilience.BackoffCustom, TimeoutMultiplier: 1},
			true,
		},
		{
			"decay multiplier below one",
			RetryConfig{MaxRetries: 1, TimeoutStrategy: TimeoutDecay, TimeoutMultiplier: 0.5},
			true,
		},
		{
			"category without matcher",
			RetryConfig{MaxRetries: 1, TimeoutMultiplier: 1, Categories: []Category{{Name: "writes"}}},
			true,
		},
		{
			"category without name",
			RetryConfig{MaxRetries: 1, TimeoutMultiplier: 1, Categories: []Category{{Matcher: func(*Request) bool { return true }}}},
			true,
		},
		{
			"valid category",
			RetryConfig{
				MaxRetries:        1,
				TimeoutMultiplier: 1,
				Categories: []Category{{
					Name:     "writes",
					Matcher:  func(*Request) bool { return true },
					Strategy: &strategy,
				}},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", NewNetworkError("x", nil), true},
		{"timeout", NewTimeoutError("x", nil), true},
		{"rate limit", NewRateLimitError("x", 0, nil), true},
		{"server", NewServerError(500, nil), true},
		{"client", NewClientError(404, "x", nil), false},
		{"validation", NewValidationError("x", nil, nil), false},
		{"cancelled", NewCancellationError(nil), false},
	}
	for _, tt := range tests {
		if got := DefaultRetryIf(tt.err); got != tt.want {
			t.Errorf("%s: DefaultRetryIf = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTimeoutStrategy_String(t *testing.T) {
	if TimeoutReset.String() != "reset" || TimeoutDecay.String() != "decay" {
		t.Error("unexpected strategy names")
	}
	if TimeoutStrategy(9).String() != "unknown" {
		t.Error("unknown strategy name")
	}
}
