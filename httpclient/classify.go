package httpclient

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Classify maps an arbitrary transport error onto the package error
// taxonomy. Errors that are already *Error pass through unchanged, so
// classification is idempotent.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return NewCancellationError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("request timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError("request timed out", err)
	}

	var certErr x509.CertificateInvalidError
	if errors.As(err, &certErr) && certErr.Reason == x509.Expired {
		return NewNetworkError("server certificate expired", err)
	}
	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return NewNetworkError("server certificate not trusted", err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return NewNetworkError("host not found", err)
		}
		return NewNetworkError("DNS lookup failed", err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return NewNetworkError("connection refused", err)
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return NewNetworkError("connection reset by peer", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NewNetworkError("network error: "+opErr.Op+" failed", err)
	}

	// Fallback for transports that wrap causes beyond recognition.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return NewTimeoutError("request timed out", err)
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"):
		return NewNetworkError("network error", err)
	}
	return NewNetworkError("request failed: "+err.Error(), err)
}

// ClassifyStatusCode maps a complete HTTP response onto the error
// taxonomy. It returns nil for 2xx responses.
func ClassifyStatusCode(statusCode int, headers http.Header, body []byte) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusTooManyRequests:
		e := NewRateLimitError("rate limited by server", parseRetryAfter(headers.Get("Retry-After")), body)
		e.StatusCode = statusCode
		return e
	case statusCode == http.StatusUnprocessableEntity:
		return NewValidationError("request validation failed", validationDetails(body), body)
	case statusCode == http.StatusUnauthorized:
		return NewClientError(statusCode, "authentication required", body)
	case statusCode == http.StatusForbidden:
		return NewClientError(statusCode, "access forbidden", body)
	case statusCode == http.StatusNotFound:
		return NewClientError(statusCode, "resource not found", body)
	case statusCode >= 400 && statusCode < 500:
		return NewClientError(statusCode, "client error "+strconv.Itoa(statusCode), body)
	case statusCode >= 500 && statusCode < 600:
		return NewServerError(statusCode, body)
	default:
		return NewHTTPError(statusCode, body)
	}
}

// parseRetryAfter handles both delay-seconds and HTTP-date forms of
// the Retry-After header. Unparseable values yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// validationDetails pulls structured field errors out of a 422 body.
// It understands the common "errors" and "details" envelope keys and
// falls back to the whole object.
func validationDetails(body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var payload map[string]any
	if err := decodeJSON(body, &payload); err != nil {
		return nil
	}
	for _, key := range []string{"errors", "details"} {
		if nested, ok := payload[key].(map[string]any); ok {
			return nested
		}
	}
	return payload
}
