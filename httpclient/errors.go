package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a request failure. Every error returned by a Client
// carries exactly one Kind.
type Kind int

const (
	// KindNetwork covers connection level failures where no HTTP
	// response was received: refused connections, DNS failures,
	// TLS problems, resets.
	KindNetwork Kind = iota
	// KindTimeout means the attempt exceeded its deadline.
	KindTimeout
	// KindRateLimit covers HTTP 429 responses and local rate
	// limiter rejections.
	KindRateLimit
	// KindValidation covers HTTP 422 responses.
	KindValidation
	// KindClient covers the remaining 4xx responses.
	KindClient
	// KindServer covers 5xx responses.
	KindServer
	// KindHTTP covers status codes outside both the 2xx success
	// range and the 4xx/5xx failure ranges.
	KindHTTP
	// KindCancelled means the caller cancelled the request.
	KindCancelled
)

// String returns the kind name used in logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindRateLimit:
		return "rate_limit"
	case KindValidation:
		return "validation"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindHTTP:
		return "http"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by this package. Inspect
// Kind (or use the Is* helpers) to branch on failure class.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string

	// Retryable is the classifier's verdict on whether retrying
	// could help. The retry policy may still veto a retry.
	Retryable bool

	// RetryAfter is the server-requested delay parsed from a 429
	// Retry-After header. Zero when the server sent none.
	RetryAfter time.Duration

	// Details carries structured validation errors extracted from
	// a 422 response body, when present.
	Details map[string]any

	// Body is the raw response body for HTTP level failures.
	Body []byte

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s error (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a connection level error. Network errors are
// retryable.
func NewNetworkError(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Retryable: true, Err: err}
}

// NewTimeoutError creates a deadline exceeded error. Timeouts are
// retryable.
func NewTimeoutError(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Retryable: true, Err: err}
}

// NewRateLimitError creates a rate limit error, either from an HTTP
// 429 response or from local admission control. retryAfter is zero
// when the server did not request a specific delay.
func NewRateLimitError(message string, retryAfter time.Duration, body []byte) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    message,
		Retryable:  true,
		RetryAfter: retryAfter,
		Body:       body,
	}
}

// NewValidationError creates an error for an HTTP 422 response.
// Validation errors are not retryable.
func NewValidationError(message string, details map[string]any, body []byte) *Error {
	return &Error{
		Kind:       KindValidation,
		StatusCode: 422,
		Message:    message,
		Details:    details,
		Body:       body,
	}
}

// NewClientError creates an error for a 4xx response other than 422
// and 429. Client errors are not retryable.
func NewClientError(statusCode int, message string, body []byte) *Error {
	return &Error{Kind: KindClient, StatusCode: statusCode, Message: message, Body: body}
}

// NewServerError creates an error for a 5xx response. Server errors
// are retryable.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{
		Kind:       KindServer,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("server error %d", statusCode),
		Retryable:  true,
		Body:       body,
	}
}

// NewHTTPError creates an error for a status code outside the success
// and failure ranges this client understands.
func NewHTTPError(statusCode int, body []byte) *Error {
	return &Error{
		Kind:       KindHTTP,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		Body:       body,
	}
}

// NewCancellationError creates an error for a caller cancelled
// request. Cancellations are never retried.
func NewCancellationError(err error) *Error {
	return &Error{Kind: KindCancelled, Message: "request cancelled", Err: err}
}

// IsNetworkError reports whether err is a connection level failure.
func IsNetworkError(err error) bool { return hasKind(err, KindNetwork) }

// IsTimeoutError reports whether err is a deadline exceeded failure.
func IsTimeoutError(err error) bool { return hasKind(err, KindTimeout) }

// IsRateLimitError reports whether err is a rate limit rejection,
// local or remote.
func IsRateLimitError(err error) bool { return hasKind(err, KindRateLimit) }

// IsValidationError reports whether err is an HTTP 422 failure.
func IsValidationError(err error) bool { return hasKind(err, KindValidation) }

// IsClientError reports whether err is a non-retryable 4xx failure.
func IsClientError(err error) bool { return hasKind(err, KindClient) }

// IsServerError reports whether err is a 5xx failure.
func IsServerError(err error) bool { return hasKind(err, KindServer) }

// IsCancellationError reports whether err is a caller cancellation.
func IsCancellationError(err error) bool { return hasKind(err, KindCancelled) }

// IsRetryable reports the classifier's retry verdict for err. Errors
// that are not *Error are considered non-retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
