package resilience

import "time"

// BackoffStrategy selects how retry delays grow with the attempt number.
type BackoffStrategy int

const (
	// BackoffExponential waits 2^n seconds before retry n.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear waits n seconds before retry n.
	BackoffLinear
	// BackoffFibonacci waits Fib(n) seconds before retry n
	// (Fib(1)=1, Fib(2)=1, Fib(3)=2, ...).
	BackoffFibonacci
	// BackoffCustom delegates to a caller-supplied function.
	BackoffCustom
)

// String returns the strategy name.
func (s BackoffStrategy) String() string {
	switch s {
	case BackoffExponential:
		return "exponential"
	case BackoffLinear:
		return "linear"
	case BackoffFibonacci:
		return "fibonacci"
	case BackoffCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// BackoffFunc computes a custom delay from the retry attempt number and the
// error that triggered the retry.
type BackoffFunc func(retryCount int, err error) time.Duration

// Backoff computes retry delays for a strategy.
type Backoff struct {
	// Strategy selects the delay curve.
	Strategy BackoffStrategy
	// Custom is required when Strategy is BackoffCustom.
	Custom BackoffFunc
}

// Delay returns the wait before retry attempt retryCount (1-based).
func (b Backoff) Delay(retryCount int, err error) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}

	switch b.Strategy {
	case BackoffLinear:
		return time.Duration(retryCount) * time.Second
	case BackoffFibonacci:
		return time.Duration(fibonacci(retryCount)) * time.Second
	case BackoffCustom:
		if b.Custom != nil {
			return b.Custom(retryCount, err)
		}
		return time.Second
	default:
		return time.Duration(1<<uint(retryCount)) * time.Second
	}
}

// fibonacci computes Fib(n) iteratively with Fib(1) = Fib(2) = 1.
func fibonacci(n int) int64 {
	if n <= 2 {
		return 1
	}
	var a, b int64 = 1, 1
	for i := 3; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}
