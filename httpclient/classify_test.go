package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"
)

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) must be nil")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	original := NewServerError(503, []byte("oops"))
	got := Classify(fmt.Errorf("wrapped: %w", original))
	var e *Error
	if !errors.As(got, &e) || e != original {
		t.Error("already-classified errors must pass through unchanged")
	}
	if Classify(original) != error(original) {
		t.Error("direct pass-through failed")
	}
}

func TestClassify_ContextErrors(t *testing.T) {
	if !IsCancellationError(Classify(context.Canceled)) {
		t.Error("context.Canceled should classify as cancellation")
	}
	if !IsTimeoutError(Classify(context.DeadlineExceeded)) {
		t.Error("context.DeadlineExceeded should classify as timeout")
	}
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func TestClassify_NetTimeout(t *testing.T) {
	if !IsTimeoutError(Classify(timeoutNetError{})) {
		t.Error("net.Error timeout should classify as timeout")
	}
}

func TestClassify_ConnectionLevel(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			"dns not found",
			&net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true},
			"host not found",
		},
		{
			"dns failure",
			&net.DNSError{Err: "server misbehaving", Name: "example.com"},
			"DNS lookup failed",
		},
		{
			"connection refused",
			&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			"connection refused",
		},
		{
			"connection reset",
			&net.OpError{Op: "read", Err: syscall.ECONNRESET},
			"connection reset by peer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if !IsNetworkError(got) {
				t.Fatalf("expected network error, got %v", got)
			}
			var e *Error
			errors.As(got, &e)
			if e.Message != tt.message {
				t.Errorf("message = %q, want %q", e.Message, tt.message)
			}
		})
	}
}

func TestClassify_MessageFallback(t *testing.T) {
	if !IsTimeoutError(Classify(errors.New("operation timeout while reading"))) {
		t.Error("timeout keyword should classify as timeout")
	}
	if !IsNetworkError(Classify(errors.New("network unreachable"))) {
		t.Error("network keyword should classify as network error")
	}
	if !IsNetworkError(Classify(errors.New("something odd"))) {
		t.Error("unknown errors default to network")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{200, Kind(-1)}, // nil error
		{204, Kind(-1)},
		{301, KindHTTP},
		{304, KindHTTP},
		{400, KindClient},
		{401, KindClient},
		{403, KindClient},
		{404, KindClient},
		{422, KindValidation},
		{429, KindRateLimit},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
		{100, KindHTTP},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := ClassifyStatusCode(tt.status, http.Header{}, nil)
			if tt.kind == Kind(-1) {
				if err != nil {
					t.Fatalf("expected nil for %d, got %v", tt.status, err)
				}
				return
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
			if e.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", e.StatusCode, tt.status)
			}
		})
	}
}

func TestClassifyStatusCode_RetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")
	err := ClassifyStatusCode(429, h, nil)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", e.RetryAfter)
	}
}

func TestClassifyStatusCode_ValidationDetails(t *testing.T) {
	body := []byte(`{"errors":{"email":"is invalid","name":"is required"}}`)
	err := ClassifyStatusCode(422, http.Header{}, body)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Details["email"] != "is invalid" {
		t.Errorf("Details[email] = %v", e.Details["email"])
	}
	if string(e.Body) != string(body) {
		t.Error("raw body should be preserved")
	}
}

func TestClassifyStatusCode_StatusMessages(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{401, "authentication required"},
		{403, "access forbidden"},
		{404, "resource not found"},
	}
	for _, tt := range tests {
		var e *Error
		errors.As(ClassifyStatusCode(tt.status, http.Header{}, nil), &e)
		if e.Message != tt.message {
			t.Errorf("status %d: message = %q, want %q", tt.status, e.Message, tt.message)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"0", 0},
		{"5", 5 * time.Second},
		{" 12 ", 12 * time.Second},
		{"-3", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.value); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(future)
	if got < 20*time.Second || got > 30*time.Second {
		t.Errorf("parseRetryAfter(date) = %v, want roughly 30s", got)
	}

	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	if parseRetryAfter(past) != 0 {
		t.Error("past dates should yield zero")
	}
}

func TestValidationDetails(t *testing.T) {
	if validationDetails(nil) != nil {
		t.Error("empty body should yield nil details")
	}
	if validationDetails([]byte("not json")) != nil {
		t.Error("non-JSON body should yield nil details")
	}
	got := validationDetails([]byte(`{"field":"bad"}`))
	if got["field"] != "bad" {
		t.Error("top-level object should be used when no envelope key matches")
	}
}
