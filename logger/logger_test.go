package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNew_AppliesDefaults(t *testing.T) {
	cfg := &Config{}
	l := New(cfg, "test")

	if l == nil {
		t.Fatal("expected logger")
	}
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewWriter_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "payments")

	l.Info("request sent", Fields(FieldMethod, "GET", FieldStatus, 200))

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON output: %v (%q)", err, buf.String())
	}
	if line[FieldClient] != "payments" {
		t.Errorf("expected client tag, got %v", line[FieldClient])
	}
	if line[FieldMethod] != "GET" {
		t.Errorf("expected method field, got %v", line[FieldMethod])
	}
	if line["message"] != "request sent" {
		t.Errorf("expected message, got %v", line["message"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "test").WithComponent("circuit-breaker")

	l.Warn("state change")

	if !strings.Contains(buf.String(), `"component":"circuit-breaker"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "test")

	l.WithError(errTest).Error("request failed")

	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("expected error in output, got %q", buf.String())
	}
}

var errTest = &testError{"connection refused"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestFields_IgnoresDanglingValue(t *testing.T) {
	m := Fields("a", 1, "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("expected single pair, got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("GET", "/users", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}
